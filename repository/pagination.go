package repository

import (
	"github.com/BinLe1988/member-admin/models"

	"gorm.io/gorm"
)

const (
	DefaultPageNum  = 1
	DefaultPageSize = 10
)

// NormalizePage 修正非法的分页参数
func NormalizePage(pageNum, pageSize int) (int, int) {
	if pageNum < 1 {
		pageNum = DefaultPageNum
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return pageNum, pageSize
}

// Paginate 对已构建好过滤条件的查询做分页
// order 在统计总数之后再追加；isPage 为 false 时返回全部结果
func Paginate[T any](query *gorm.DB, order string, pageNum, pageSize int, isPage bool) (*models.PageResult[T], error) {
	rows := make([]T, 0)

	if !isPage {
		if err := query.Order(order).Find(&rows).Error; err != nil {
			return nil, err
		}
		return &models.PageResult[T]{
			Rows:     rows,
			Total:    int64(len(rows)),
			PageNum:  DefaultPageNum,
			PageSize: len(rows),
		}, nil
	}

	pageNum, pageSize = NormalizePage(pageNum, pageSize)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	offset := (pageNum - 1) * pageSize
	if total > int64(offset) {
		err := query.Session(&gorm.Session{}).Order(order).Offset(offset).Limit(pageSize).Find(&rows).Error
		if err != nil {
			return nil, err
		}
	}

	return &models.PageResult[T]{
		Rows:     rows,
		Total:    total,
		PageNum:  pageNum,
		PageSize: pageSize,
		HasNext:  int64(pageNum*pageSize) < total,
	}, nil
}

// PaginateSlice 对内存中的结果做分页
func PaginateSlice[T any](items []T, pageNum, pageSize int) *models.PageResult[T] {
	pageNum, pageSize = NormalizePage(pageNum, pageSize)
	total := len(items)

	start := (pageNum - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	rows := make([]T, end-start)
	copy(rows, items[start:end])
	return &models.PageResult[T]{
		Rows:     rows,
		Total:    int64(total),
		PageNum:  pageNum,
		PageSize: pageSize,
		HasNext:  end < total,
	}
}
