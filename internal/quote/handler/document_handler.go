package handler

import (
	"bytes"
	"net/http"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/service"
	"github.com/gin-gonic/gin"
)

// DocumentHandler 견적 문서 핸들러
type DocumentHandler struct {
	svc       *service.DocumentService
	exportSvc *service.ExportService
}

func NewDocumentHandler(svc *service.DocumentService, exportSvc *service.ExportService) *DocumentHandler {
	return &DocumentHandler{svc: svc, exportSvc: exportSvc}
}

// CreateComparison 비교 문서 생성
// POST /api/v1/documents/compare
func (h *DocumentHandler) CreateComparison(c *gin.Context) {
	var req struct {
		ID          string   `json:"id"`
		ParentID    string   `json:"parent_id"`
		TemplateIDs []string `json:"template_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	doc, err := h.svc.CreateComparison(c.Request.Context(), req.ID, req.ParentID, GetUserID(c), req.TemplateIDs)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, doc)
}

// UpdateComparison 비교 문서 재조정 쓰기. 요청 본문에 lines가 있으면 수동
// 덮어쓰기, 없으면 템플릿 집합으로 전체 재생성한다.
// PUT /api/v1/documents/compare/:id
func (h *DocumentHandler) UpdateComparison(c *gin.Context) {
	var req struct {
		TemplateIDs []string               `json:"template_ids" binding:"required"`
		Lines       *[]entity.DocumentLine `json:"lines"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	mode := service.WriteRegenerate
	var manual []entity.DocumentLine
	if req.Lines != nil {
		mode = service.WriteOverwrite
		manual = *req.Lines
	}

	doc, err := h.svc.UpdateComparison(c.Request.Context(), c.Param("id"), GetUserID(c), req.TemplateIDs, mode, manual)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, doc)
}

// Create 요약/내역 문서 생성
// POST /api/v1/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	var req struct {
		ID          string                `json:"id"`
		ParentID    string                `json:"parent_id"`
		Kind        string                `json:"kind" binding:"required"`
		Title       string                `json:"title"`
		TemplateIDs []string              `json:"template_ids"`
		Lines       []entity.DocumentLine `json:"lines"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	doc, err := h.svc.CreateDocument(c.Request.Context(), &service.CreateDocumentInput{
		ID:          req.ID,
		ParentID:    req.ParentID,
		Kind:        req.Kind,
		Title:       req.Title,
		Creator:     GetUserID(c),
		TemplateIDs: req.TemplateIDs,
		Lines:       req.Lines,
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, doc)
}

// List 문서 목록
// GET /api/v1/documents?parent_id=&kind=
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.svc.ListDocuments(c.Request.Context(), c.Query("parent_id"), c.Query("kind"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"items": docs, "total": len(docs)})
}

// Update 요약/내역 문서 라인 전체 교체
// PUT /api/v1/documents/:id
func (h *DocumentHandler) Update(c *gin.Context) {
	var req struct {
		TemplateIDs []string              `json:"template_ids"`
		Lines       []entity.DocumentLine `json:"lines"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	doc, err := h.svc.UpdateDocument(c.Request.Context(), c.Param("id"), req.TemplateIDs, req.Lines)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, doc)
}

// Get 문서 조회
// GET /api/v1/documents/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	doc, err := h.svc.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, doc)
}

// Delete 문서 삭제
// DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"deleted": true})
}

// GetGrouped 그룹핑/소계 투영 조회
// GET /api/v1/documents/:id/grouped
func (h *DocumentHandler) GetGrouped(c *gin.Context) {
	grouped, err := h.svc.GetGrouped(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, grouped)
}

// Export 문서를 xlsx로 내려받는다. store=true면 MinIO에도 보관한다.
// GET /api/v1/documents/:id/export
func (h *DocumentHandler) Export(c *gin.Context) {
	f, filename, err := h.exportSvc.ExportDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	if c.Query("store") == "true" {
		if _, err := h.exportSvc.StoreExport(c.Request.Context(), f, filename); err != nil {
			InternalError(c, err.Error())
			return
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		InternalError(c, "failed to write xlsx: "+err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
