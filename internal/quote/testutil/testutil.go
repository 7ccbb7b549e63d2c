package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/middleware"
	"github.com/JeongJaeHyung/SYNEX-QUOTATION-sub000/internal/quote/entity"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const JWTSecret = "synex-quotation-jwt-secret-2025"

// SetupTestDB opens an isolated in-memory sqlite database and migrates the
// quotation tables. The connection is closed when the test finishes.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{
		DriverName: "sqlite",
		DSN:        dsn,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// 인메모리 DB는 커넥션이 닫히면 사라지므로 단일 커넥션으로 고정한다.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&entity.Part{},
		&entity.EquipmentTemplate{},
		&entity.TemplateLine{},
		&entity.Document{},
		&entity.DocumentLine{},
		&entity.DocumentTemplate{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// AuthGroup creates an API group with JWT auth middleware for testing
func AuthGroup(r *gin.Engine, path string) *gin.RouterGroup {
	return r.Group(path, middleware.JWTAuth(JWTSecret))
}

// GenerateTestToken creates a valid JWT token for testing
func GenerateTestToken(userID, name, email string, roles, permissions []string) string {
	if roles == nil {
		roles = []string{}
	}
	if permissions == nil {
		permissions = []string{}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"uid":   userID,
		"name":  name,
		"email": email,
		"roles": roles,
		"perms": permissions,
		"iss":   "synex-quotation",
		"iat":   now.Unix(),
		"exp":   now.Add(24 * time.Hour).Unix(),
		"jti":   fmt.Sprintf("test-jti-%d", now.UnixNano()),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, _ := token.SignedString([]byte(JWTSecret))
	return tokenString
}

// DefaultTestToken returns a token for a default admin test user
func DefaultTestToken() string {
	return GenerateTestToken(
		"test-user-001",
		"Test Admin",
		"admin@test.com",
		[]string{"quote_admin"},
		[]string{"*"},
	)
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// SeedPart creates a catalog part in the database
func SeedPart(t *testing.T, db *gorm.DB, makerID, partID, major, minor, name string, price int64, displayOrder int) *entity.Part {
	t.Helper()
	part := &entity.Part{
		MakerID:      makerID,
		PartID:       partID,
		Major:        major,
		Minor:        minor,
		Name:         name,
		Unit:         "EA",
		Price:        price,
		DisplayOrder: displayOrder,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(part).Error; err != nil {
		t.Fatalf("Failed to seed part: %v", err)
	}
	return part
}

// SeedTemplate creates an equipment template with snapshot lines
func SeedTemplate(t *testing.T, db *gorm.DB, id, name string, lines []entity.TemplateLine) *entity.EquipmentTemplate {
	t.Helper()
	now := time.Now()
	tpl := &entity.EquipmentTemplate{
		ID:        id,
		Name:      name,
		CreatedBy: "test-user-001",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(tpl).Error; err != nil {
		t.Fatalf("Failed to seed template: %v", err)
	}
	for i := range lines {
		lines[i].TemplateID = id
		lines[i].OrderIndex = i
		lines[i].CreatedAt = now
		lines[i].UpdatedAt = now
		if err := db.Create(&lines[i]).Error; err != nil {
			t.Fatalf("Failed to seed template line: %v", err)
		}
	}
	return tpl
}
