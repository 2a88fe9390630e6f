package repository

import (
	"context"

	"github.com/BinLe1988/member-admin/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ModelTypeRepository 模型分类数据访问
type ModelTypeRepository struct {
	db *gorm.DB
}

func NewModelTypeRepository(db *gorm.DB) *ModelTypeRepository {
	return &ModelTypeRepository{db: db}
}

func (r *ModelTypeRepository) WithTx(tx *gorm.DB) *ModelTypeRepository {
	return &ModelTypeRepository{db: tx}
}

func (r *ModelTypeRepository) Policy() DeletePolicy {
	return HardDelete
}

func (r *ModelTypeRepository) List(ctx context.Context, q *models.ModelTypeQuery, isPage bool) (*models.PageResult[models.ModelType], error) {
	db := r.db.WithContext(ctx).Model(&models.ModelType{})
	db = whereLike(db, "type_name", q.TypeName)
	db = whereEq(db, "status", q.Status)
	db = whereTimeRange(db, "create_at", q.TimeRange)
	return Paginate[models.ModelType](db, "type_id", q.PageNum, q.PageSize, isPage)
}

func (r *ModelTypeRepository) GetByID(ctx context.Context, id int64) (*models.ModelType, error) {
	return first[models.ModelType](r.db.WithContext(ctx).Where("type_id = ?", id))
}

func (r *ModelTypeRepository) GetByField(ctx context.Context, column, value string) (*models.ModelType, error) {
	return first[models.ModelType](r.db.WithContext(ctx).Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}))
}

func (r *ModelTypeRepository) Create(ctx context.Context, t *models.ModelType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *ModelTypeRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.ModelType{}).Where("type_id = ?", id).Updates(fields).Error
}

// Delete 删除没有模型引用的分类
func (r *ModelTypeRepository) Delete(ctx context.Context, id int64) error {
	return deleteUnreferenced(r.db.WithContext(ctx), &models.ModelType{}, "type_id", id, models.AiModel{}.TableName(), "type_id")
}

// AiModelRepository 模型数据访问
type AiModelRepository struct {
	db *gorm.DB
}

func NewAiModelRepository(db *gorm.DB) *AiModelRepository {
	return &AiModelRepository{db: db}
}

func (r *AiModelRepository) WithTx(tx *gorm.DB) *AiModelRepository {
	return &AiModelRepository{db: tx}
}

func (r *AiModelRepository) Policy() DeletePolicy {
	return HardDelete
}

func (r *AiModelRepository) List(ctx context.Context, q *models.AiModelQuery, isPage bool) (*models.PageResult[models.AiModel], error) {
	db := r.db.WithContext(ctx).Model(&models.AiModel{})
	db = whereLike(db, "model_name", q.ModelName)
	db = whereLike(db, "model_alias", q.ModelAlias)
	if q.TypeID != nil {
		db = db.Where("type_id = ?", *q.TypeID)
	}
	db = whereEq(db, "status", q.Status)
	db = whereEq(db, "current", q.Current)
	db = whereTimeRange(db, "create_at", q.TimeRange)
	return Paginate[models.AiModel](db, "type_id, model_id", q.PageNum, q.PageSize, isPage)
}

func (r *AiModelRepository) GetByID(ctx context.Context, id int64) (*models.AiModel, error) {
	return first[models.AiModel](r.db.WithContext(ctx).Where("model_id = ?", id))
}

// GetByField 同一分类下按字段查询
func (r *AiModelRepository) GetByField(ctx context.Context, typeID int64, column, value string) (*models.AiModel, error) {
	db := r.db.WithContext(ctx).
		Where("type_id = ?", typeID).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	return first[models.AiModel](db)
}

// GetCurrent 查询分类下的当前模型
func (r *AiModelRepository) GetCurrent(ctx context.Context, typeID int64) (*models.AiModel, error) {
	db := r.db.WithContext(ctx).Where("type_id = ?", typeID).Where(currentIs(models.CurrentYes))
	return first[models.AiModel](db)
}

func (r *AiModelRepository) Create(ctx context.Context, m *models.AiModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *AiModelRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.AiModel{}).Where("model_id = ?", id).Updates(fields).Error
}

// ClearCurrent 取消分类下除 exceptID 以外模型的当前标记
func (r *AiModelRepository) ClearCurrent(ctx context.Context, typeID, exceptID int64) error {
	return r.db.WithContext(ctx).Model(&models.AiModel{}).
		Where("type_id = ? AND model_id <> ?", typeID, exceptID).
		Where(currentIs(models.CurrentYes)).
		Update("current", models.CurrentNo).Error
}

func (r *AiModelRepository) Delete(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("model_id IN ?", ids).Delete(&models.AiModel{})
	return res.RowsAffected, res.Error
}

// current 在部分方言中是关键字，需要经 clause 引用
func currentIs(v string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: "current"}, Value: v}
}
