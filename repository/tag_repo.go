package repository

import (
	"context"

	"github.com/BinLe1988/member-admin/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) WithTx(tx *gorm.DB) *TagRepository {
	return &TagRepository{db: tx}
}

func (r *TagRepository) Policy() DeletePolicy {
	return HardDelete
}

func (r *TagRepository) List(ctx context.Context, q *models.TagQuery, isPage bool) (*models.PageResult[models.Tag], error) {
	db := r.db.WithContext(ctx).Model(&models.Tag{})
	db = whereLike(db, "tags_code", q.TagsCode)
	db = whereLike(db, "tags_name", q.TagsName)
	db = whereEq(db, "position", q.Position)
	db = whereEq(db, "status", q.Status)
	db = whereTimeRange(db, "create_at", q.TimeRange)
	return Paginate[models.Tag](db, "tags_sort, tags_id", q.PageNum, q.PageSize, isPage)
}

func (r *TagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	return first[models.Tag](r.db.WithContext(ctx).Where("tags_id = ?", id))
}

func (r *TagRepository) GetByField(ctx context.Context, column, value string) (*models.Tag, error) {
	return first[models.Tag](r.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}))
}

func (r *TagRepository) Create(ctx context.Context, t *models.Tag) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TagRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Tag{}).Where("tags_id = ?", id).Updates(fields).Error
}

// Delete 删除未被量表引用的标签
// 返回 ErrReferenced 表示仍有 scales_tags 关联，ErrNotFound 表示标签不存在
func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	return deleteUnreferenced(r.db.WithContext(ctx), &models.Tag{}, "tags_id", id, models.ScaleTag{}.TableName(), "tags_id")
}
