package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/park285/roblox-mod-relay-go/internal/config"
)

func TestSharedSecretAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{HTTPAuth: config.HTTPAuthConfig{SharedSecret: "secret"}}

	router := gin.New()
	router.Use(SharedSecretAuth(cfg))
	router.GET("/roblox/poll-commands", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/roblox/poll-commands", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %d", resp.Code)
	}

	healthReq := httptest.NewRequest(http.MethodGet, "/health", nil)
	healthResp := httptest.NewRecorder()
	router.ServeHTTP(healthResp, healthReq)
	if healthResp.Code != http.StatusOK {
		t.Fatalf("expected ok for health, got %d", healthResp.Code)
	}
}

func TestSharedSecretAuthHeaderForms(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{HTTPAuth: config.HTTPAuthConfig{SharedSecret: "secret"}}

	router := gin.New()
	router.Use(SharedSecretAuth(cfg))
	router.GET("/roblox/poll-commands", func(c *gin.Context) { c.Status(http.StatusOK) })

	headers := []struct {
		name  string
		key   string
		value string
		want  int
	}{
		{name: "raw authorization", key: "Authorization", value: "secret", want: http.StatusOK},
		{name: "bearer token", key: "Authorization", value: "Bearer secret", want: http.StatusOK},
		{name: "x-api-key", key: "X-API-Key", value: "secret", want: http.StatusOK},
		{name: "wrong secret", key: "Authorization", value: "nope", want: http.StatusUnauthorized},
	}

	for _, tt := range headers {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/roblox/poll-commands", nil)
			req.Header.Set(tt.key, tt.value)
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.Code)
			}
		})
	}
}

func TestSharedSecretAuthDisabledWhenEmpty(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}

	router := gin.New()
	router.Use(SharedSecretAuth(cfg))
	router.GET("/roblox/poll-commands", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/roblox/poll-commands", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected pass-through without configured secret, got %d", resp.Code)
	}
}
