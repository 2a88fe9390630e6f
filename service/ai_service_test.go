package service

import (
	"context"
	"testing"

	"github.com/BinLe1988/member-admin/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func addModelType(t *testing.T, svc *ModelTypeService, name string) {
	t.Helper()
	_, err := svc.Add(context.Background(), "admin", &models.ModelTypeForm{
		TypeName: ptr(name),
		APIURL:   ptr("https://api.example.com/" + name),
	})
	require.NoError(t, err)
}

func TestModelTypeService_Unique(t *testing.T) {
	env := setupTestEnv(t)
	svc := NewModelTypeService(env.db, zap.NewNop())
	ctx := context.Background()

	addModelType(t, svc, "openai")

	_, err := svc.Add(ctx, "admin", &models.ModelTypeForm{TypeName: ptr("openai"), APIURL: ptr("https://x.com")})
	assert.Equal(t, "新增模型分类openai失败，模型分类名称已存在", requireServiceError(t, err))

	_, err = svc.Edit(ctx, "admin", &models.ModelTypeForm{TypeID: ptr(int64(1)), TypeName: ptr("openai"), Remark: ptr("r")})
	assert.NoError(t, err)

	_, err = svc.Add(ctx, "admin", &models.ModelTypeForm{TypeName: ptr("bad"), APIURL: ptr("not-a-url")})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestModelTypeService_DeleteReferencedAbortsBatch(t *testing.T) {
	env := setupTestEnv(t)
	types := NewModelTypeService(env.db, zap.NewNop())
	aiModels := NewAiModelService(env.db, zap.NewNop())
	ctx := context.Background()

	addModelType(t, types, "openai")
	addModelType(t, types, "qwen")
	_, err := aiModels.Add(ctx, "admin", &models.AiModelForm{ModelName: ptr("gpt-4o"), ModelAlias: ptr("GPT"), TypeID: ptr(int64(1))})
	require.NoError(t, err)

	_, err = types.Delete(ctx, "admin", []int64{2, 1})
	assert.Equal(t, "openai已分配，不能删除", requireServiceError(t, err))

	_, err = types.Detail(ctx, 2)
	assert.NoError(t, err)

	_, err = types.Delete(ctx, "admin", nil)
	assert.Equal(t, "传入模型分类id为空", requireServiceError(t, err))

	res, err := types.Delete(ctx, "admin", []int64{2, 2})
	require.NoError(t, err)
	assert.Equal(t, "删除成功", res.Message)
}

func TestAiModelService_UniquePerType(t *testing.T) {
	env := setupTestEnv(t)
	types := NewModelTypeService(env.db, zap.NewNop())
	svc := NewAiModelService(env.db, zap.NewNop())
	ctx := context.Background()

	addModelType(t, types, "openai")
	addModelType(t, types, "azure")

	form := func(typeID int64) *models.AiModelForm {
		return &models.AiModelForm{ModelName: ptr("gpt-4o"), ModelAlias: ptr("GPT"), TypeID: ptr(typeID)}
	}
	_, err := svc.Add(ctx, "admin", form(1))
	require.NoError(t, err)
	_, err = svc.Add(ctx, "admin", form(1))
	assert.Equal(t, "新增模型gpt-4o失败，模型名称已存在", requireServiceError(t, err))
	_, err = svc.Add(ctx, "admin", form(2))
	assert.NoError(t, err)

	_, err = svc.Add(ctx, "admin", form(99))
	assert.Equal(t, "模型分类不存在", requireServiceError(t, err))

	_, err = types.Edit(ctx, "admin", &models.ModelTypeForm{TypeID: ptr(int64(2)), Status: ptr(models.StatusDisable)})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "admin", &models.AiModelForm{ModelName: ptr("o1"), ModelAlias: ptr("O1"), TypeID: ptr(int64(2))})
	assert.Equal(t, "模型分类azure已停用", requireServiceError(t, err))
}

func TestAiModelService_SingleCurrentPerType(t *testing.T) {
	env := setupTestEnv(t)
	types := NewModelTypeService(env.db, zap.NewNop())
	svc := NewAiModelService(env.db, zap.NewNop())
	ctx := context.Background()

	addModelType(t, types, "openai")
	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.Add(ctx, "admin", &models.AiModelForm{
			ModelName:  ptr(name),
			ModelAlias: ptr(name),
			TypeID:     ptr(int64(1)),
			Current:    ptr(models.CurrentYes),
		})
		require.NoError(t, err)
	}

	currentIDs := func() []int64 {
		page, err := svc.List(ctx, &models.AiModelQuery{Current: models.CurrentYes}, false)
		require.NoError(t, err)
		ids := make([]int64, 0, len(page.Rows))
		for _, m := range page.Rows {
			ids = append(ids, m.ModelID)
		}
		return ids
	}
	assert.Equal(t, []int64{3}, currentIDs())

	_, err := svc.SetCurrent(ctx, "admin", 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, currentIDs())

	_, err = svc.Edit(ctx, "admin", &models.AiModelForm{ModelID: ptr(int64(2)), Current: ptr(models.CurrentYes), Temperature: ptr(0.7)})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, currentIDs())

	m, err := svc.Detail(ctx, 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, m.Temperature, 1e-9)

	_, err = svc.Edit(ctx, "admin", &models.AiModelForm{ModelID: ptr(int64(2)), Temperature: ptr(3.0)})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	res, err := svc.Delete(ctx, "admin", []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "删除成功", res.Message)
}
