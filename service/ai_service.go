package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/pkg/excel"
	"github.com/BinLe1988/member-admin/pkg/validate"
	"github.com/BinLe1988/member-admin/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var urlRegex = regexp.MustCompile(`^https?://\S+$`)

// ModelTypeExportHeaders 模型分类导出表头
var ModelTypeExportHeaders = []string{"分类编号", "分类名称", "接口地址", "状态", "创建者", "创建时间", "更新者", "更新时间", "备注"}

// ModelTypeService 模型分类管理
type ModelTypeService struct {
	db     *gorm.DB
	types  *repository.ModelTypeRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewModelTypeService(db *gorm.DB, logger *zap.Logger) *ModelTypeService {
	return &ModelTypeService{
		db:     db,
		types:  repository.NewModelTypeRepository(db),
		logger: logger,
		now:    time.Now,
	}
}

func (s *ModelTypeService) List(ctx context.Context, q *models.ModelTypeQuery, isPage bool) (*models.PageResult[models.ModelType], error) {
	page, err := s.types.List(ctx, q, isPage)
	if err != nil {
		return nil, fmt.Errorf("list model types: %w", err)
	}
	return page, nil
}

func (s *ModelTypeService) Detail(ctx context.Context, id int64) (*models.ModelType, error) {
	t, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get model type %d: %w", id, err)
	}
	if t == nil {
		return nil, &ServiceError{Message: "模型分类不存在"}
	}
	return t, nil
}

func validateModelTypeForm(f *models.ModelTypeForm, isAdd bool) error {
	v := validate.New()
	if isAdd {
		v.Check("type_name", deref(f.TypeName), validate.NotBlank("分类名称"), validate.MaxLen("分类名称", 64), validate.XSSSafe("分类名称"))
		v.Check("api_url", deref(f.APIURL), validate.NotBlank("接口地址"), validate.MaxLen("接口地址", 255), validate.Pattern(urlRegex, "接口地址格式不正确"))
	} else {
		v.CheckPtr("type_name", f.TypeName, validate.NotBlank("分类名称"), validate.MaxLen("分类名称", 64), validate.XSSSafe("分类名称"))
		v.CheckPtr("api_url", f.APIURL, validate.NotBlank("接口地址"), validate.MaxLen("接口地址", 255), validate.Pattern(urlRegex, "接口地址格式不正确"))
	}
	v.CheckPtr("status", f.Status, validate.OneOf("状态", models.StatusNormal, models.StatusDisable))
	v.CheckPtr("remark", f.Remark, validate.MaxLen("备注", 500), validate.XSSSafe("备注"))
	return checkValid(v)
}

func (s *ModelTypeService) Add(ctx context.Context, operator string, form *models.ModelTypeForm) (*models.CrudResult, error) {
	if err := validateModelTypeForm(form, true); err != nil {
		return nil, err
	}
	t := form.ToModelType()
	t.Stamp(operator, s.now())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := checkUniques(ctx, tx, &models.ModelType{}, "type_id", NewRecordID, nil,
			uniqueRule{"type_name", form.TypeName, fmt.Sprintf("新增模型分类%s失败，模型分类名称已存在", t.TypeName)})
		if err != nil {
			return err
		}
		return s.types.WithTx(tx).Create(ctx, t)
	})
	if err != nil {
		return nil, wrapTx("add model type", err)
	}
	return models.Success("新增成功"), nil
}

func (s *ModelTypeService) Edit(ctx context.Context, operator string, form *models.ModelTypeForm) (*models.CrudResult, error) {
	if err := validateModelTypeForm(form, false); err != nil {
		return nil, err
	}
	id := form.ID()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.types.WithTx(tx)
		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return &ServiceError{Message: "模型分类不存在"}
		}

		display := existing.TypeName
		if form.TypeName != nil {
			display = *form.TypeName
		}
		err = checkUniques(ctx, tx, &models.ModelType{}, "type_id", id, nil,
			uniqueRule{"type_name", form.TypeName, fmt.Sprintf("修改模型分类%s失败，模型分类名称已存在", display)})
		if err != nil {
			return err
		}

		fields := form.Updates()
		for k, v := range models.AuditUpdates(operator, s.now()) {
			fields[k] = v
		}
		return repo.Update(ctx, id, fields)
	})
	if err != nil {
		return nil, wrapTx("edit model type", err)
	}
	return models.Success("更新成功"), nil
}

// Delete 批量删除模型分类，任意一个分类下仍有模型时整批回滚
func (s *ModelTypeService) Delete(ctx context.Context, operator string, ids []int64) (*models.CrudResult, error) {
	if len(ids) == 0 {
		return nil, &ServiceError{Message: "传入模型分类id为空"}
	}
	ids = distinctIDs(ids)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.types.WithTx(tx)
		for _, id := range ids {
			err := repo.Delete(ctx, id)
			switch {
			case err == nil:
			case errors.Is(err, repository.ErrReferenced):
				t, lookupErr := repo.GetByID(ctx, id)
				if lookupErr != nil {
					return lookupErr
				}
				return Errorf("%s已分配，不能删除", t.TypeName)
			case errors.Is(err, repository.ErrNotFound):
				return &ServiceError{Message: "模型分类不存在"}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapTx("delete model types", err)
	}

	s.logger.Info("Model types deleted", zap.Int64s("type_ids", ids), zap.Stringer("policy", s.types.Policy()), zap.String("operator", operator))
	return models.Success("删除成功"), nil
}

func (s *ModelTypeService) Export(types []models.ModelType) ([]byte, error) {
	rows := make([][]any, 0, len(types))
	for _, t := range types {
		rows = append(rows, []any{
			t.TypeID,
			t.TypeName,
			t.APIURL,
			codeToLabel(statusLabels, t.Status),
			t.CreateBy,
			formatTime(t.CreateAt),
			t.UpdateBy,
			formatTime(t.UpdateAt),
			t.Remark,
		})
	}
	return excel.Write("模型分类", ModelTypeExportHeaders, rows)
}

// AiModelService 模型管理，同一分类下最多一个当前模型
type AiModelService struct {
	db       *gorm.DB
	types    *repository.ModelTypeRepository
	aiModels *repository.AiModelRepository
	logger   *zap.Logger
	now      func() time.Time
}

func NewAiModelService(db *gorm.DB, logger *zap.Logger) *AiModelService {
	return &AiModelService{
		db:       db,
		types:    repository.NewModelTypeRepository(db),
		aiModels: repository.NewAiModelRepository(db),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AiModelService) List(ctx context.Context, q *models.AiModelQuery, isPage bool) (*models.PageResult[models.AiModel], error) {
	page, err := s.aiModels.List(ctx, q, isPage)
	if err != nil {
		return nil, fmt.Errorf("list ai models: %w", err)
	}
	return page, nil
}

func (s *AiModelService) Detail(ctx context.Context, id int64) (*models.AiModel, error) {
	m, err := s.aiModels.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ai model %d: %w", id, err)
	}
	if m == nil {
		return nil, &ServiceError{Message: "模型不存在"}
	}
	return m, nil
}

func validateAiModelForm(f *models.AiModelForm, isAdd bool) error {
	v := validate.New()
	if isAdd {
		v.Check("model_name", deref(f.ModelName), validate.NotBlank("模型名称"), validate.MaxLen("模型名称", 64), validate.XSSSafe("模型名称"))
		v.Check("model_alias", deref(f.ModelAlias), validate.NotBlank("模型别名"), validate.MaxLen("模型别名", 64), validate.XSSSafe("模型别名"))
		if f.TypeID == nil {
			v.Add("type_id", "模型分类不能为空")
		}
	} else {
		v.CheckPtr("model_name", f.ModelName, validate.NotBlank("模型名称"), validate.MaxLen("模型名称", 64), validate.XSSSafe("模型名称"))
		v.CheckPtr("model_alias", f.ModelAlias, validate.NotBlank("模型别名"), validate.MaxLen("模型别名", 64), validate.XSSSafe("模型别名"))
	}
	v.CheckPtr("status", f.Status, validate.OneOf("状态", models.StatusNormal, models.StatusDisable))
	v.CheckPtr("current", f.Current, validate.OneOf("当前模型", models.CurrentNo, models.CurrentYes))
	v.CheckPtr("remark", f.Remark, validate.MaxLen("备注", 500), validate.XSSSafe("备注"))
	if f.Temperature != nil && (*f.Temperature < 0 || *f.Temperature > 2) {
		v.Add("temperature", "temperature取值范围为0到2")
	}
	if f.Frequency != nil && (*f.Frequency < -2 || *f.Frequency > 2) {
		v.Add("frequency", "frequency取值范围为-2到2")
	}
	if f.Presence != nil && (*f.Presence < -2 || *f.Presence > 2) {
		v.Add("presence", "presence取值范围为-2到2")
	}
	return checkValid(v)
}

// activeType 模型必须挂在已存在且正常的分类下
func activeType(ctx context.Context, repo *repository.ModelTypeRepository, typeID int64) error {
	t, err := repo.GetByID(ctx, typeID)
	if err != nil {
		return err
	}
	if t == nil {
		return &ServiceError{Message: "模型分类不存在"}
	}
	if t.Status != models.StatusNormal {
		return Errorf("模型分类%s已停用", t.TypeName)
	}
	return nil
}

func (s *AiModelService) Add(ctx context.Context, operator string, form *models.AiModelForm) (*models.CrudResult, error) {
	if err := validateAiModelForm(form, true); err != nil {
		return nil, err
	}
	m := form.ToAiModel()
	m.Stamp(operator, s.now())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := activeType(ctx, s.types.WithTx(tx), m.TypeID); err != nil {
			return err
		}
		err := checkUniques(ctx, tx, &models.AiModel{}, "model_id", NewRecordID, map[string]any{"type_id": m.TypeID},
			uniqueRule{"model_name", form.ModelName, fmt.Sprintf("新增模型%s失败，模型名称已存在", m.ModelName)})
		if err != nil {
			return err
		}

		repo := s.aiModels.WithTx(tx)
		if err := repo.Create(ctx, m); err != nil {
			return err
		}
		if m.Current == models.CurrentYes {
			return repo.ClearCurrent(ctx, m.TypeID, m.ModelID)
		}
		return nil
	})
	if err != nil {
		return nil, wrapTx("add ai model", err)
	}
	return models.Success("新增成功"), nil
}

func (s *AiModelService) Edit(ctx context.Context, operator string, form *models.AiModelForm) (*models.CrudResult, error) {
	if err := validateAiModelForm(form, false); err != nil {
		return nil, err
	}
	id := form.ID()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.aiModels.WithTx(tx)
		existing, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing == nil {
			return &ServiceError{Message: "模型不存在"}
		}

		typeID := existing.TypeID
		if form.TypeID != nil {
			typeID = *form.TypeID
			if typeID != existing.TypeID {
				if err := activeType(ctx, s.types.WithTx(tx), typeID); err != nil {
					return err
				}
			}
		}

		name := existing.ModelName
		if form.ModelName != nil {
			name = *form.ModelName
		}
		// 分类变化时名称需要在新分类下重新校验
		err = checkUniques(ctx, tx, &models.AiModel{}, "model_id", id, map[string]any{"type_id": typeID},
			uniqueRule{"model_name", &name, fmt.Sprintf("修改模型%s失败，模型名称已存在", name)})
		if err != nil {
			return err
		}

		fields := form.Updates()
		for k, v := range models.AuditUpdates(operator, s.now()) {
			fields[k] = v
		}
		if err := repo.Update(ctx, id, fields); err != nil {
			return err
		}

		current := existing.Current
		if form.Current != nil {
			current = *form.Current
		}
		if current == models.CurrentYes {
			return repo.ClearCurrent(ctx, typeID, id)
		}
		return nil
	})
	if err != nil {
		return nil, wrapTx("edit ai model", err)
	}
	return models.Success("更新成功"), nil
}

// SetCurrent 设为分类下的当前模型，同分类其他模型取消当前标记
func (s *AiModelService) SetCurrent(ctx context.Context, operator string, id int64) (*models.CrudResult, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.aiModels.WithTx(tx)
		m, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return &ServiceError{Message: "模型不存在"}
		}
		if m.Status != models.StatusNormal {
			return Errorf("模型%s已停用", m.ModelName)
		}
		if err := repo.ClearCurrent(ctx, m.TypeID, id); err != nil {
			return err
		}
		fields := models.AuditUpdates(operator, s.now())
		fields["current"] = models.CurrentYes
		return repo.Update(ctx, id, fields)
	})
	if err != nil {
		return nil, wrapTx("set current ai model", err)
	}
	return models.Success("更新成功"), nil
}

func (s *AiModelService) Delete(ctx context.Context, operator string, ids []int64) (*models.CrudResult, error) {
	if len(ids) == 0 {
		return nil, &ServiceError{Message: "传入模型id为空"}
	}
	ids = distinctIDs(ids)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.aiModels.WithTx(tx).Delete(ctx, ids)
		if err != nil {
			return err
		}
		if n == 0 {
			return &ServiceError{Message: "模型不存在"}
		}
		return nil
	})
	if err != nil {
		return nil, wrapTx("delete ai models", err)
	}

	s.logger.Info("AI models deleted", zap.Int64s("model_ids", ids), zap.Stringer("policy", s.aiModels.Policy()), zap.String("operator", operator))
	return models.Success("删除成功"), nil
}
