package handler

import (
	"strconv"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/service"
	"github.com/gin-gonic/gin"
)

// CatalogHandler 품목 마스터 핸들러
type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Create 품목 등록
// POST /api/v1/parts
func (h *CatalogHandler) Create(c *gin.Context) {
	var in service.CreatePartInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	part, err := h.svc.CreatePart(c.Request.Context(), &in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, part)
}

// List 품목 목록
// GET /api/v1/parts?major=&minor=
func (h *CatalogHandler) List(c *gin.Context) {
	parts, err := h.svc.ListParts(c.Request.Context(), c.Query("major"), c.Query("minor"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": parts, "total": len(parts)})
}

// Get 품목 조회
// GET /api/v1/parts/:maker/:part
func (h *CatalogHandler) Get(c *gin.Context) {
	part, err := h.svc.GetPart(c.Request.Context(), c.Param("maker"), c.Param("part"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, part)
}

// UpdatePrice 품목 단가 변경
// PUT /api/v1/parts/:maker/:part/price
func (h *CatalogHandler) UpdatePrice(c *gin.Context) {
	var req struct {
		Price *int64 `json:"price" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	part, err := h.svc.UpdatePartPrice(c.Request.Context(), c.Param("maker"), c.Param("part"), *req.Price)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, part)
}

// Delete 품목 삭제
// DELETE /api/v1/parts/:maker/:part
func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.svc.DeletePart(c.Request.Context(), c.Param("maker"), c.Param("part")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}

// Reorder 카탈로그 표시 순서 재배치
// POST /api/v1/parts/reorder
func (h *CatalogHandler) Reorder(c *gin.Context) {
	var req struct {
		Permutation []int `json:"permutation" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := h.svc.ReorderParts(c.Request.Context(), req.Permutation); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"reordered": strconv.Itoa(len(req.Permutation)) + " parts"})
}
