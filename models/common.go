package models

import "time"

// 状态（0正常 1停用）
const (
	StatusNormal  = "0"
	StatusDisable = "1"
)

// Audit 审计字段
type Audit struct {
	CreateBy string     `gorm:"column:create_by;size:64;default:''" json:"create_by"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateBy string     `gorm:"column:update_by;size:64;default:''" json:"update_by"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
}

// Stamp 写入新增时的审计字段
func (a *Audit) Stamp(operator string, now time.Time) {
	a.CreateBy = operator
	a.CreateAt = &now
	a.UpdateBy = operator
	a.UpdateAt = &now
}

// AuditUpdates 编辑时追加的审计字段
func AuditUpdates(operator string, now time.Time) map[string]any {
	return map[string]any{
		"update_by": operator,
		"update_at": now,
	}
}

// PageQuery 分页参数
type PageQuery struct {
	PageNum  int `form:"page_num" json:"page_num"`
	PageSize int `form:"page_size" json:"page_size"`
}

// TimeRange 创建时间范围，格式 2006-01-02
type TimeRange struct {
	BeginTime string `form:"begin_time" json:"begin_time"`
	EndTime   string `form:"end_time" json:"end_time"`
}

// PageResult 分页结果
type PageResult[T any] struct {
	Rows     []T   `json:"rows"`
	Total    int64 `json:"total"`
	PageNum  int   `json:"page_num"`
	PageSize int   `json:"page_size"`
	HasNext  bool  `json:"has_next"`
}

// CrudResult 增删改操作结果
type CrudResult struct {
	IsSuccess bool   `json:"is_success"`
	Message   string `json:"message"`
	Result    any    `json:"result,omitempty"`
}

// Success 返回成功结果
func Success(message string) *CrudResult {
	return &CrudResult{IsSuccess: true, Message: message}
}

// EditType 编辑类型，区分全量编辑与状态、密码、头像等运维类编辑
type EditType string

const (
	EditTypeFull     EditType = ""
	EditTypeStatus   EditType = "status"
	EditTypePassword EditType = "pwd"
	EditTypeAvatar   EditType = "avatar"
)

// Narrow 运维类编辑不做唯一性校验
func (t EditType) Narrow() bool {
	return t != EditTypeFull
}
