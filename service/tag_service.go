package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/pkg/excel"
	"github.com/BinLe1988/member-admin/pkg/validate"
	"github.com/BinLe1988/member-admin/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TagExportHeaders 标签导出表头
var TagExportHeaders = []string{"标签编号", "标签编码", "标签名称", "显示顺序", "显示位置", "状态", "创建者", "创建时间", "更新者", "更新时间", "备注"}

// TagService 分类标签管理
type TagService struct {
	db     *gorm.DB
	tags   *repository.TagRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewTagService(db *gorm.DB, logger *zap.Logger) *TagService {
	return &TagService{
		db:     db,
		tags:   repository.NewTagRepository(db),
		logger: logger,
		now:    time.Now,
	}
}

func (s *TagService) List(ctx context.Context, q *models.TagQuery, isPage bool) (*models.PageResult[models.Tag], error) {
	page, err := s.tags.List(ctx, q, isPage)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return page, nil
}

func (s *TagService) Detail(ctx context.Context, id int64) (*models.Tag, error) {
	t, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tag %d: %w", id, err)
	}
	if t == nil {
		return nil, &ServiceError{Message: "标签不存在"}
	}
	return t, nil
}

func validateTagForm(f *models.TagForm, isAdd bool) error {
	v := validate.New()
	if isAdd {
		v.Check("tags_code", deref(f.TagsCode), validate.NotBlank("标签编码"), validate.MaxLen("标签编码", 64), validate.XSSSafe("标签编码"))
		v.Check("tags_name", deref(f.TagsName), validate.NotBlank("标签名称"), validate.MaxLen("标签名称", 50), validate.XSSSafe("标签名称"))
		if f.TagsSort == nil {
			v.Add("tags_sort", "显示顺序不能为空")
		}
	} else {
		v.CheckPtr("tags_code", f.TagsCode, validate.NotBlank("标签编码"), validate.MaxLen("标签编码", 64), validate.XSSSafe("标签编码"))
		v.CheckPtr("tags_name", f.TagsName, validate.NotBlank("标签名称"), validate.MaxLen("标签名称", 50), validate.XSSSafe("标签名称"))
	}
	v.CheckPtr("position", f.Position, validate.MaxLen("显示位置", 30), validate.XSSSafe("显示位置"))
	v.CheckPtr("status", f.Status, validate.OneOf("状态", models.StatusNormal, models.StatusDisable))
	v.CheckPtr("remark", f.Remark, validate.MaxLen("备注", 500), validate.XSSSafe("备注"))
	return checkValid(v)
}

func checkTagUnique(ctx context.Context, db *gorm.DB, action, display string, selfID int64, f *models.TagForm) error {
	return checkUniques(ctx, db, &models.Tag{}, "tags_id", selfID, nil,
		uniqueRule{"tags_name", f.TagsName, fmt.Sprintf("%s标签%s失败，标签名称已存在", action, display)},
		uniqueRule{"tags_code", f.TagsCode, fmt.Sprintf("%s标签%s失败，标签编码已存在", action, display)},
	)
}

// Add 新增标签
func (s *TagService) Add(ctx context.Context, operator string, form *models.TagForm) (*models.CrudResult, error) {
	if err := validateTagForm(form, true); err != nil {
		return nil, err
	}
	t := form.ToTag()
	t.Stamp(operator, s.now())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkTagUnique(ctx, tx, "新增", t.TagsName, NewRecordID, form); err != nil {
			return err
		}
		return s.tags.WithTx(tx).Create(ctx, t)
	})
	if err != nil {
		return nil, wrapTx("add tag", err)
	}
	return models.Success("新增成功"), nil
}

// Edit 编辑标签
func (s *TagService) Edit(ctx context.Context, operator string, form *models.TagForm) (*models.CrudResult, error) {
	if err := validateTagForm(form, false); err != nil {
		return nil, err
	}
	id := form.ID()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.tags.WithTx(tx)
		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return &ServiceError{Message: "标签不存在"}
		}

		display := existing.TagsName
		if form.TagsName != nil {
			display = *form.TagsName
		}
		if err := checkTagUnique(ctx, tx, "修改", display, id, form); err != nil {
			return err
		}

		fields := form.Updates()
		for k, v := range models.AuditUpdates(operator, s.now()) {
			fields[k] = v
		}
		return repo.Update(ctx, id, fields)
	})
	if err != nil {
		return nil, wrapTx("edit tag", err)
	}
	return models.Success("更新成功"), nil
}

// EditAvatar 更新标签图标，不做唯一性校验
func (s *TagService) EditAvatar(ctx context.Context, operator string, id int64, avatar string) (*models.CrudResult, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.tags.WithTx(tx)
		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return &ServiceError{Message: "标签不存在"}
		}
		fields := models.AuditUpdates(operator, s.now())
		fields["avatar"] = avatar
		return repo.Update(ctx, id, fields)
	})
	if err != nil {
		return nil, wrapTx("edit tag avatar", err)
	}
	return models.Success("更新图标成功"), nil
}

// Delete 批量删除标签，任意一个标签仍被量表引用时整批回滚
func (s *TagService) Delete(ctx context.Context, operator string, ids []int64) (*models.CrudResult, error) {
	if len(ids) == 0 {
		return nil, &ServiceError{Message: "传入标签id为空"}
	}
	ids = distinctIDs(ids)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.tags.WithTx(tx)
		for _, id := range ids {
			err := repo.Delete(ctx, id)
			switch {
			case err == nil:
			case errors.Is(err, repository.ErrReferenced):
				t, lookupErr := repo.GetByID(ctx, id)
				if lookupErr != nil {
					return lookupErr
				}
				return Errorf("%s已分配，不能删除", t.TagsName)
			case errors.Is(err, repository.ErrNotFound):
				return &ServiceError{Message: "标签不存在"}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapTx("delete tags", err)
	}

	s.logger.Info("Tags deleted", zap.Int64s("tags_ids", ids), zap.Stringer("policy", s.tags.Policy()), zap.String("operator", operator))
	return models.Success("删除成功"), nil
}

// Export 导出已查询好的标签列表
func (s *TagService) Export(tags []models.Tag) ([]byte, error) {
	rows := make([][]any, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, []any{
			t.TagsID,
			t.TagsCode,
			t.TagsName,
			t.TagsSort,
			t.Position,
			codeToLabel(statusLabels, t.Status),
			t.CreateBy,
			formatTime(t.CreateAt),
			t.UpdateBy,
			formatTime(t.UpdateAt),
			t.Remark,
		})
	}
	return excel.Write("标签信息", TagExportHeaders, rows)
}
