package service

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewRecordID 新增记录参与唯一性校验时使用的 id
const NewRecordID int64 = -1

// UniqueSpec 唯一性校验参数
type UniqueSpec struct {
	Model    any    // 例如 &models.Tag{}，带软删除字段的模型自动排除已删除记录
	IDColumn string // 主键列
	SelfID   int64  // 编辑时为自身 id，新增时为 NewRecordID
	Column   string
	Value    string
	Scope    map[string]any // 额外的等值范围条件，如同一分类
}

// CheckUnique 返回 true 表示没有其他记录使用该值，空值视为唯一
func CheckUnique(ctx context.Context, db *gorm.DB, spec UniqueSpec) (bool, error) {
	if spec.Value == "" {
		return true, nil
	}

	query := db.WithContext(ctx).Model(spec.Model).
		Where(clause.Eq{Column: clause.Column{Name: spec.Column}, Value: spec.Value}).
		Where(clause.Neq{Column: clause.Column{Name: spec.IDColumn}, Value: spec.SelfID})
	for col, v := range spec.Scope {
		query = query.Where(clause.Eq{Column: clause.Column{Name: col}, Value: v})
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// uniqueRule 一个需要校验的唯一字段及其冲突提示
type uniqueRule struct {
	column  string
	value   *string
	message string
}

// checkUniques 依次校验，第一个冲突的字段返回 ServiceError
func checkUniques(ctx context.Context, db *gorm.DB, model any, idColumn string, selfID int64, scope map[string]any, rules ...uniqueRule) error {
	for _, r := range rules {
		if r.value == nil {
			continue
		}
		ok, err := CheckUnique(ctx, db, UniqueSpec{
			Model:    model,
			IDColumn: idColumn,
			SelfID:   selfID,
			Column:   r.column,
			Value:    *r.value,
			Scope:    scope,
		})
		if err != nil {
			return err
		}
		if !ok {
			return &ServiceError{Message: r.message}
		}
	}
	return nil
}

// distinctIDs 去重并保持原有顺序
func distinctIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
