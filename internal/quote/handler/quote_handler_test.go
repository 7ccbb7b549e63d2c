package handler

import (
	"net/http"
	"testing"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/config"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/repository"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/service"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/testutil"
	"github.com/gin-gonic/gin"
)

func setupQuoteTest(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, nil, &config.Config{})
	h := NewHandlers(services)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")

	parts := api.Group("/parts")
	parts.GET("", h.Catalog.List)
	parts.GET("/:maker/:part", h.Catalog.Get)
	parts.POST("", h.Catalog.Create)
	parts.POST("/reorder", h.Catalog.Reorder)
	parts.PUT("/:maker/:part/price", h.Catalog.UpdatePrice)
	parts.DELETE("/:maker/:part", h.Catalog.Delete)

	templates := api.Group("/templates")
	templates.GET("", h.Template.List)
	templates.GET("/:id", h.Template.Get)
	templates.POST("", h.Template.Create)
	templates.DELETE("/:id", h.Template.Delete)
	templates.POST("/:id/lines", h.Template.AddLine)
	templates.PUT("/:id/lines/:maker/:part", h.Template.UpdateLine)
	templates.DELETE("/:id/lines/:maker/:part", h.Template.RemoveLine)
	templates.POST("/:id/reorder", h.Template.Reorder)

	documents := api.Group("/documents")
	documents.GET("", h.Document.List)
	documents.POST("", h.Document.Create)
	documents.GET("/:id", h.Document.Get)
	documents.PUT("/:id", h.Document.Update)
	documents.DELETE("/:id", h.Document.Delete)
	documents.GET("/:id/grouped", h.Document.GetGrouped)
	documents.GET("/:id/export", h.Document.Export)
	documents.POST("/compare", h.Document.CreateComparison)
	documents.PUT("/compare/:id", h.Document.UpdateComparison)

	return router
}

func createTestPart(t *testing.T, router *gin.Engine, token, makerID, partID, minor string, price int64) {
	t.Helper()
	w := testutil.DoRequest(router, "POST", "/api/v1/parts", map[string]interface{}{
		"maker_id": makerID,
		"part_id":  partID,
		"major":    "자재비",
		"minor":    minor,
		"name":     "부품 " + partID,
		"price":    price,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create part %s/%s: status %d body %s", makerID, partID, w.Code, w.Body.String())
	}
}

func createTestTemplate(t *testing.T, router *gin.Engine, token, name string, lines []map[string]interface{}) string {
	t.Helper()
	w := testutil.DoRequest(router, "POST", "/api/v1/templates", map[string]interface{}{
		"name":  name,
		"lines": lines,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create template: status %d body %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	return data["id"].(string)
}

func TestQuoteFlow_EndToEnd(t *testing.T) {
	router := setupQuoteTest(t)
	token := testutil.DefaultTestToken()

	createTestPart(t, router, token, "LS", "P-100", "PLC", 100)
	createTestPart(t, router, token, "OMRON", "P-50", "센서", 50)

	tplID := createTestTemplate(t, router, token, "컨베이어 A", []map[string]interface{}{
		{"maker_id": "LS", "part_id": "P-100", "quantity": 2},
		{"maker_id": "OMRON", "part_id": "P-50", "quantity": 1},
	})

	// 비교 문서 생성
	w := testutil.DoRequest(router, "POST", "/api/v1/documents/compare", map[string]interface{}{
		"template_ids": []string{tplID},
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create comparison: status %d body %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	docID := resp["data"].(map[string]interface{})["id"].(string)

	// 그룹핑 조회: 총계 250
	w = testutil.DoRequest(router, "GET", "/api/v1/documents/"+docID+"/grouped", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("get grouped: status %d body %s", w.Code, w.Body.String())
	}
	resp = testutil.ParseResponse(w)
	grouped := resp["data"].(map[string]interface{})
	if got := grouped["grand_total"].(float64); got != 250 {
		t.Errorf("grand_total = %v, want 250", got)
	}

	// 카탈로그 단가 변경 후에도 문서 총계는 그대로다.
	w = testutil.DoRequest(router, "PUT", "/api/v1/parts/LS/P-100/price", map[string]interface{}{
		"price": 99999,
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update price: status %d body %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/documents/"+docID+"/grouped", nil, token)
	resp = testutil.ParseResponse(w)
	grouped = resp["data"].(map[string]interface{})
	if got := grouped["grand_total"].(float64); got != 250 {
		t.Errorf("grand_total after price change = %v, want 250", got)
	}

	// xlsx 내보내기
	w = testutil.DoRequest(router, "GET", "/api/v1/documents/"+docID+"/export", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("export: status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("export content type = %s", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("export body is empty")
	}

	// 목록에 보이고, 지우면 사라진다.
	w = testutil.DoRequest(router, "GET", "/api/v1/documents?kind=price_compare", nil, token)
	resp = testutil.ParseResponse(w)
	if total := resp["data"].(map[string]interface{})["total"].(float64); total != 1 {
		t.Errorf("document total = %v, want 1", total)
	}

	w = testutil.DoRequest(router, "DELETE", "/api/v1/documents/"+docID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete document: status %d", w.Code)
	}
	w = testutil.DoRequest(router, "GET", "/api/v1/documents/"+docID, nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("deleted document: status %d, want 404", w.Code)
	}
}

func TestQuoteFlow_UpdateComparisonModes(t *testing.T) {
	router := setupQuoteTest(t)
	token := testutil.DefaultTestToken()

	createTestPart(t, router, token, "LS", "P-100", "PLC", 100)
	tplID := createTestTemplate(t, router, token, "컨베이어 A", []map[string]interface{}{
		{"maker_id": "LS", "part_id": "P-100", "quantity": 2},
	})

	w := testutil.DoRequest(router, "POST", "/api/v1/documents/compare", map[string]interface{}{
		"template_ids": []string{tplID},
	}, token)
	docID := testutil.ParseResponse(w)["data"].(map[string]interface{})["id"].(string)

	// lines가 있으면 수동 덮어쓰기
	w = testutil.DoRequest(router, "PUT", "/api/v1/documents/compare/"+docID, map[string]interface{}{
		"template_ids": []string{tplID},
		"lines": []map[string]interface{}{
			{"major": "노무비", "minor": "조립", "equipment": "컨베이어 A", "unit": "식", "unit_price": 500, "quantity": 1},
		},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("overwrite: status %d body %s", w.Code, w.Body.String())
	}
	doc := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if lines := doc["lines"].([]interface{}); len(lines) != 1 {
		t.Errorf("lines after overwrite = %d, want 1", len(lines))
	}

	// lines가 없으면 전체 재생성
	w = testutil.DoRequest(router, "PUT", "/api/v1/documents/compare/"+docID, map[string]interface{}{
		"template_ids": []string{tplID},
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("regenerate: status %d body %s", w.Code, w.Body.String())
	}
	doc = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if lines := doc["lines"].([]interface{}); len(lines) != 1 {
		t.Errorf("lines after regenerate = %d, want 1", len(lines))
	}
}

func TestQuoteFlow_ErrorMapping(t *testing.T) {
	router := setupQuoteTest(t)
	token := testutil.DefaultTestToken()

	// 없는 문서는 404
	w := testutil.DoRequest(router, "GET", "/api/v1/documents/no-such-doc", nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing document: status %d, want 404", w.Code)
	}

	// 없는 템플릿 참조는 404
	w = testutil.DoRequest(router, "POST", "/api/v1/documents/compare", map[string]interface{}{
		"template_ids": []string{"no-such-template"},
	}, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing template: status %d, want 404", w.Code)
	}

	// display_order 충돌은 409
	w = testutil.DoRequest(router, "POST", "/api/v1/parts", map[string]interface{}{
		"maker_id": "LS", "part_id": "A", "major": "자재비", "minor": "PLC", "name": "부품 A", "display_order": 1,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create part: status %d body %s", w.Code, w.Body.String())
	}
	w = testutil.DoRequest(router, "POST", "/api/v1/parts", map[string]interface{}{
		"maker_id": "LS", "part_id": "B", "major": "자재비", "minor": "PLC", "name": "부품 B", "display_order": 1,
	}, token)
	if w.Code != http.StatusConflict {
		t.Errorf("display_order conflict: status %d, want 409", w.Code)
	}

	// 인증 없는 요청은 401
	w = testutil.DoRequest(router, "GET", "/api/v1/parts", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated: status %d, want 401", w.Code)
	}
}
