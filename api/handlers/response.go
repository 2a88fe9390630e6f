package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/pkg/excel"
	"github.com/BinLe1988/member-admin/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 响应码
const (
	CodeSuccess      = 200
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeError        = 500
	CodeWarning      = 601
)

// Response 通用响应
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// PageResponse 分页响应
type PageResponse[T any] struct {
	Code     int    `json:"code"`
	Msg      string `json:"msg"`
	Rows     []T    `json:"rows"`
	Total    int64  `json:"total"`
	PageNum  int    `json:"page_num"`
	PageSize int    `json:"page_size"`
	HasNext  bool   `json:"has_next"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: CodeSuccess, Msg: "操作成功", Data: data})
}

// Result 增删改结果只返回提示消息
func Result(c *gin.Context, res *models.CrudResult) {
	c.JSON(http.StatusOK, Response{Code: CodeSuccess, Msg: res.Message, Data: res.Result})
}

func Page[T any](c *gin.Context, page *models.PageResult[T]) {
	rows := page.Rows
	if rows == nil {
		rows = []T{}
	}
	c.JSON(http.StatusOK, PageResponse[T]{
		Code:     CodeSuccess,
		Msg:      "查询成功",
		Rows:     rows,
		Total:    page.Total,
		PageNum:  page.PageNum,
		PageSize: page.PageSize,
		HasNext:  page.HasNext,
	})
}

// Warning 业务提示，HTTP 状态仍为 200
func Warning(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, Response{Code: CodeWarning, Msg: msg})
}

// Spreadsheet 以附件形式返回 xlsx 文件
func Spreadsheet(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(filename)))
	c.Data(http.StatusOK, excel.ContentType, data)
}

// HandleError 业务异常与校验异常返回 601，其余错误记录日志并返回 500
func HandleError(c *gin.Context, logger *zap.Logger, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusOK, Response{Code: CodeWarning, Msg: ve.Error(), Data: ve.Fields})
		return
	}
	var se *service.ServiceError
	if errors.As(err, &se) {
		Warning(c, se.Message)
		return
	}

	logger.Error("Request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, Response{Code: CodeError, Msg: "服务器内部错误"})
}

// bindError 请求参数无法解析
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Msg: "请求参数错误: " + err.Error()})
}

// parseID 解析路径中的单个 id
func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		Warning(c, name+"格式不正确")
		return 0, false
	}
	return id, true
}

// parseIDs 解析逗号分隔的 id 列表，空串返回空列表
func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// pathIDs 解析路径参数中的 id 列表，格式错误时直接返回提示
func pathIDs(c *gin.Context, name string) ([]int64, bool) {
	ids, err := parseIDs(c.Param(name))
	if err != nil {
		Warning(c, name+"格式不正确")
		return nil, false
	}
	return ids, true
}
