package service

import (
	"fmt"
	"strings"

	"github.com/BinLe1988/member-admin/pkg/validate"
)

// ServiceError 业务异常，消息直接返回给调用方
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func Errorf(format string, args ...any) *ServiceError {
	return &ServiceError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError 字段校验失败，包含全部字段错误
type ValidationError struct {
	Fields []validate.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "；")
}

// checkValid 校验未通过时返回 ValidationError
func checkValid(v *validate.Validator) error {
	if v.Valid() {
		return nil
	}
	return &ValidationError{Fields: v.Errors()}
}
