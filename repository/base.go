package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/BinLe1988/member-admin/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrReferenced = errors.New("record is still referenced")
)

// DeletePolicy 实体的删除方式
type DeletePolicy int

const (
	HardDelete DeletePolicy = iota
	SoftDelete
)

func (p DeletePolicy) String() string {
	if p == SoftDelete {
		return "soft"
	}
	return "hard"
}

const dateLayout = "2006-01-02"

// first 查询第一条记录，不存在时返回 nil
func first[T any](db *gorm.DB) (*T, error) {
	var row T
	err := db.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func like(v string) string {
	return "%" + v + "%"
}

// whereLike 值为空时不追加条件
func whereLike(db *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return db
	}
	return db.Where(clause.Like{Column: clause.Column{Name: column}, Value: like(value)})
}

func whereEq(db *gorm.DB, column string, value any) *gorm.DB {
	if s, ok := value.(string); ok && s == "" {
		return db
	}
	return db.Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
}

// whereTimeRange 起止日期都提交时按 [begin 00:00:00, end 23:59:59] 过滤，格式错误的日期视为未提交
func whereTimeRange(db *gorm.DB, column string, tr models.TimeRange) *gorm.DB {
	if tr.BeginTime == "" || tr.EndTime == "" {
		return db
	}
	begin, err := time.ParseInLocation(dateLayout, tr.BeginTime, time.Local)
	if err != nil {
		return db
	}
	end, err := time.ParseInLocation(dateLayout, tr.EndTime, time.Local)
	if err != nil {
		return db
	}
	end = end.Add(24*time.Hour - time.Second)
	return db.Where(fmt.Sprintf("%s BETWEEN ? AND ?", column), begin, end)
}

// deleteUnreferenced 单条语句删除未被依赖表引用的记录
// 影响行数为 0 时再区分记录不存在与仍被引用
func deleteUnreferenced(db *gorm.DB, model any, pk string, id int64, dependent, fk string) error {
	cond := fmt.Sprintf("%s = ? AND NOT EXISTS (SELECT 1 FROM %s WHERE %s.%s = ?)", pk, dependent, dependent, fk)
	res := db.Where(cond, id, id).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := db.Model(model).Where(fmt.Sprintf("%s = ?", pk), id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrReferenced
}
