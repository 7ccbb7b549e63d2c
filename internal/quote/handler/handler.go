package handler

import (
	"errors"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/service"
	"github.com/gin-gonic/gin"
)

// Handlers 핸들러 집합
type Handlers struct {
	Catalog  *CatalogHandler
	Template *TemplateHandler
	Document *DocumentHandler
}

// NewHandlers 핸들러 집합 생성
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Catalog:  NewCatalogHandler(svc.Catalog),
		Template: NewTemplateHandler(svc.Template),
		Document: NewDocumentHandler(svc.Document, svc.Export),
	}
}

// Response 공통 응답 구조
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 성공 응답
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 생성 성공 응답
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 오류 응답
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 잘못된 요청
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// NotFound 대상 없음
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict 충돌
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// InternalError 서버 오류
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// ServiceError 서비스 오류 분류를 HTTP 응답으로 변환한다.
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidLineData):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrOrderConflict),
		errors.Is(err, service.ErrReconciliationConflict),
		errors.Is(err, service.ErrPartReferenced):
		Conflict(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID 컨텍스트에서 사용자 ID 조회
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}
