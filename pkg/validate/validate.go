// Package validate 提供可组合的字段校验函数，收集全部错误而不是遇错即停
package validate

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Rule 校验规则，返回空字符串表示通过
type Rule func(value string) string

var (
	engine     = validator.New()
	strict     = bluemonday.StrictPolicy()
	phoneRegex = regexp.MustCompile(`^1\d{10}$`)
	pwdRegex   = regexp.MustCompile(`^[^<>"'|\\]+$`)
)

// Validator 按字段累积错误
type Validator struct {
	errs []FieldError
}

func New() *Validator {
	return &Validator{}
}

// Check 对字段依次执行规则，同一字段只记录第一条错误
func (v *Validator) Check(field, value string, rules ...Rule) *Validator {
	for _, rule := range rules {
		if msg := rule(value); msg != "" {
			v.errs = append(v.errs, FieldError{Field: field, Message: msg})
			break
		}
	}
	return v
}

// CheckPtr 字段未提交时跳过
func (v *Validator) CheckPtr(field string, value *string, rules ...Rule) *Validator {
	if value == nil {
		return v
	}
	return v.Check(field, *value, rules...)
}

// Add 直接记录一条字段错误
func (v *Validator) Add(field, message string) *Validator {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
	return v
}

func (v *Validator) Errors() []FieldError {
	return v.errs
}

func (v *Validator) Valid() bool {
	return len(v.errs) == 0
}

func NotBlank(label string) Rule {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return label + "不能为空"
		}
		return ""
	}
}

// tag 用 validator 的单值校验，tag 写法与 binding 相同
func tag(value, rule string) bool {
	return engine.Var(value, rule) == nil
}

// MaxLen 按字符数计算长度
func MaxLen(label string, n int) Rule {
	return func(value string) string {
		if !tag(value, fmt.Sprintf("max=%d", n)) {
			return fmt.Sprintf("%s长度不能超过%d个字符", label, n)
		}
		return ""
	}
}

func LenBetween(label string, min, max int) Rule {
	return func(value string) string {
		n := utf8.RuneCountInString(value)
		if n < min || n > max {
			return fmt.Sprintf("%s长度必须在%d到%d个字符之间", label, min, max)
		}
		return ""
	}
}

func Pattern(re *regexp.Regexp, message string) Rule {
	return func(value string) string {
		if value != "" && !re.MatchString(value) {
			return message
		}
		return ""
	}
}

// XSSSafe 值中不能包含脚本或标签
func XSSSafe(label string) Rule {
	return func(value string) string {
		if value == "" {
			return ""
		}
		if html.UnescapeString(strict.Sanitize(value)) != value {
			return label + "不能包含脚本字符"
		}
		return ""
	}
}

func Email(label string) Rule {
	return func(value string) string {
		if value == "" {
			return ""
		}
		if !tag(value, "email") {
			return label + "格式不正确"
		}
		return ""
	}
}

func Phone(label string) Rule {
	return Pattern(phoneRegex, label+"格式不正确")
}

// Password 密码长度 5-20 且不能包含非法字符 < > " ' \ |
func Password() Rule {
	return func(value string) string {
		if msg := LenBetween("密码", 5, 20)(value); msg != "" {
			return msg
		}
		if !pwdRegex.MatchString(value) {
			return "密码不能包含非法字符：< > \" ' \\ |"
		}
		return ""
	}
}

// OneOf 值必须在候选集合内，候选值不能包含空格
func OneOf(label string, options ...string) Rule {
	rule := "oneof=" + strings.Join(options, " ")
	return func(value string) string {
		if value == "" || tag(value, rule) {
			return ""
		}
		return label + "取值不正确"
	}
}
