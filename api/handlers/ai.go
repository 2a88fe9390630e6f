package handlers

import (
	"github.com/BinLe1988/member-admin/api/middleware"
	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ModelTypeHandler struct {
	types  *service.ModelTypeService
	logger *zap.Logger
}

func NewModelTypeHandler(types *service.ModelTypeService, logger *zap.Logger) *ModelTypeHandler {
	return &ModelTypeHandler{types: types, logger: logger}
}

func (h *ModelTypeHandler) List(c *gin.Context) {
	var q models.ModelTypeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	page, err := h.types.List(c.Request.Context(), &q, true)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Page(c, page)
}

func (h *ModelTypeHandler) Detail(c *gin.Context) {
	id, ok := parseID(c, "type_id")
	if !ok {
		return
	}
	t, err := h.types.Detail(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Success(c, t)
}

func (h *ModelTypeHandler) Add(c *gin.Context) {
	var form models.ModelTypeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.types.Add(c.Request.Context(), middleware.Operator(c), &form)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *ModelTypeHandler) Edit(c *gin.Context) {
	var form models.ModelTypeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.types.Edit(c.Request.Context(), middleware.Operator(c), &form)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *ModelTypeHandler) Delete(c *gin.Context) {
	ids, ok := pathIDs(c, "type_ids")
	if !ok {
		return
	}
	res, err := h.types.Delete(c.Request.Context(), middleware.Operator(c), ids)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *ModelTypeHandler) Export(c *gin.Context) {
	var q models.ModelTypeQuery
	if err := c.ShouldBind(&q); err != nil {
		bindError(c, err)
		return
	}
	page, err := h.types.List(c.Request.Context(), &q, false)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	data, err := h.types.Export(page.Rows)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Spreadsheet(c, "modeltype.xlsx", data)
}

type AiModelHandler struct {
	aiModels *service.AiModelService
	logger   *zap.Logger
}

func NewAiModelHandler(aiModels *service.AiModelService, logger *zap.Logger) *AiModelHandler {
	return &AiModelHandler{aiModels: aiModels, logger: logger}
}

func (h *AiModelHandler) List(c *gin.Context) {
	var q models.AiModelQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	page, err := h.aiModels.List(c.Request.Context(), &q, true)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Page(c, page)
}

func (h *AiModelHandler) Detail(c *gin.Context) {
	id, ok := parseID(c, "model_id")
	if !ok {
		return
	}
	m, err := h.aiModels.Detail(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Success(c, m)
}

func (h *AiModelHandler) Add(c *gin.Context) {
	var form models.AiModelForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.aiModels.Add(c.Request.Context(), middleware.Operator(c), &form)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *AiModelHandler) Edit(c *gin.Context) {
	var form models.AiModelForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.aiModels.Edit(c.Request.Context(), middleware.Operator(c), &form)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

// SetCurrent 设为当前模型
func (h *AiModelHandler) SetCurrent(c *gin.Context) {
	var req struct {
		ModelID int64 `json:"model_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.aiModels.SetCurrent(c.Request.Context(), middleware.Operator(c), req.ModelID)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *AiModelHandler) Delete(c *gin.Context) {
	ids, ok := pathIDs(c, "model_ids")
	if !ok {
		return
	}
	res, err := h.aiModels.Delete(c.Request.Context(), middleware.Operator(c), ids)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}
