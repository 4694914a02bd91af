package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/acneai/backend/config"
	"github.com/acneai/backend/model"
	"github.com/acneai/backend/util"
)

func TestMain(m *testing.M) {
	os.Setenv("APPENV", "test")
	util.SetJWTSecret("middleware-test-secret")
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newInMemoryDB creates an in-memory sqlite DB and runs required migrations for tests.
func newInMemoryDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Session{}, &model.SecurityLog{}); err != nil {
		t.Fatalf("failed to auto-migrate: %v", err)
	}
	return db
}

func TestDatabaseMiddlewareAndGetDB(t *testing.T) {
	r := gin.New()
	db := &gorm.DB{}
	r.Use(DatabaseMiddleware(db))
	r.GET("/testdb", func(c *gin.Context) {
		got := GetDB(c)
		if got == nil || got != db {
			c.AbortWithStatus(500)
			return
		}
		c.Status(200)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/testdb", nil)
	r.ServeHTTP(w, req)
	if w.Code != 200 {
		t.Fatalf("expected 200 from handler with DB set, got %d", w.Code)
	}
}

func TestGetDBMissing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := GetDB(c); got != nil {
		t.Fatalf("expected nil DB when middleware did not run, got %v", got)
	}
}

func TestGetUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := GetUserID(c); ok {
		t.Fatalf("expected no user ID on a fresh context")
	}

	c.Set(UserIDKey, "user-abc")
	userID, ok := GetUserID(c)
	if !ok || userID != "user-abc" {
		t.Fatalf("expected user-abc, got %q (ok=%v)", userID, ok)
	}

	// A wrong type in the context must not pass as a user ID.
	c.Set(UserIDKey, 42)
	if _, ok := GetUserID(c); ok {
		t.Fatalf("expected non-string user ID to be rejected")
	}
}

func TestGetSessionToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := GetSessionToken(c); ok {
		t.Fatalf("expected no session token on a fresh context")
	}

	c.Set(SessionTokenKey, "token-xyz")
	token, ok := GetSessionToken(c)
	if !ok || token != "token-xyz" {
		t.Fatalf("expected token-xyz, got %q (ok=%v)", token, ok)
	}
}

func TestSecurityHeaders(t *testing.T) {
	t.Setenv("APPENV", "test")
	config.ResetConfigForTesting()

	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(200) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected nosniff, got %q", got)
	}
	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("expected DENY, got %q", got)
	}
	if got := w.Header().Get("X-XSS-Protection"); got != "1; mode=block" {
		t.Fatalf("expected XSS protection header, got %q", got)
	}
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("expected no HSTS outside production, got %q", got)
	}
}

func TestSecurityHeadersProductionHSTS(t *testing.T) {
	t.Setenv("APPENV", "production")
	config.ResetConfigForTesting()
	t.Cleanup(config.ResetConfigForTesting)

	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(200) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if got := w.Header().Get("Strict-Transport-Security"); !strings.Contains(got, "max-age=31536000") {
		t.Fatalf("expected HSTS in production, got %q", got)
	}
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(16))
	r.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/echo", strings.NewReader("small")))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for body under limit, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/echo", strings.NewReader(strings.Repeat("x", 64))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversized body, got %d", w.Code)
	}
}
