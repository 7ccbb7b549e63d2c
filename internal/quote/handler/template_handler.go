package handler

import (
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/service"
	"github.com/gin-gonic/gin"
)

// TemplateHandler 장비 템플릿 핸들러
type TemplateHandler struct {
	svc *service.TemplateService
}

func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// Create 템플릿 생성
// POST /api/v1/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req struct {
		Name  string                      `json:"name" binding:"required"`
		Lines []service.TemplateLineInput `json:"lines"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	tpl, err := h.svc.CreateTemplate(c.Request.Context(), req.Name, GetUserID(c), req.Lines)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, tpl)
}

// List 템플릿 목록
// GET /api/v1/templates
func (h *TemplateHandler) List(c *gin.Context) {
	tpls, err := h.svc.ListTemplates(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": tpls, "total": len(tpls)})
}

// Get 템플릿 조회
// GET /api/v1/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, err := h.svc.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, tpl)
}

// Delete 템플릿 삭제
// DELETE /api/v1/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}

// AddLine 템플릿 라인 추가
// POST /api/v1/templates/:id/lines
func (h *TemplateHandler) AddLine(c *gin.Context) {
	var in service.TemplateLineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	line, err := h.svc.AddTemplateLine(c.Request.Context(), c.Param("id"), &in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, line)
}

// UpdateLine 템플릿 라인 단가/수량 수정
// PUT /api/v1/templates/:id/lines/:maker/:part
func (h *TemplateHandler) UpdateLine(c *gin.Context) {
	var req struct {
		Price    *int64 `json:"price" binding:"required"`
		Quantity *int64 `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	line, err := h.svc.UpdateTemplateLine(c.Request.Context(),
		c.Param("id"), c.Param("maker"), c.Param("part"), *req.Price, *req.Quantity)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, line)
}

// RemoveLine 템플릿 라인 삭제
// DELETE /api/v1/templates/:id/lines/:maker/:part
func (h *TemplateHandler) RemoveLine(c *gin.Context) {
	err := h.svc.RemoveTemplateLine(c.Request.Context(),
		c.Param("id"), c.Param("maker"), c.Param("part"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}

// Reorder 템플릿 라인 순서 재배치
// POST /api/v1/templates/:id/reorder
func (h *TemplateHandler) Reorder(c *gin.Context) {
	var req struct {
		Permutation []int `json:"permutation" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := h.svc.ReorderTemplate(c.Request.Context(), c.Param("id"), req.Permutation); err != nil {
		ServiceError(c, err)
		return
	}
	tpl, err := h.svc.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, tpl)
}
