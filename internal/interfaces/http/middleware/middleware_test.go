package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachly/coachly/internal/application/entitlement/dto"
	"github.com/coachly/coachly/internal/infrastructure/auth"
	"github.com/coachly/coachly/internal/shared/constants"
	"github.com/coachly/coachly/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubChecker struct {
	view *dto.EntitlementDTO
}

func (s *stubChecker) Execute(ctx context.Context, userID string) *dto.EntitlementDTO {
	return s.view
}

type stubEnforcer struct {
	allowed  bool
	err      error
	subjects []string
}

func (s *stubEnforcer) Enforce(subjects []string, resource string, action string) (bool, error) {
	s.subjects = subjects
	return s.allowed, s.err
}

func asUser(userID string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyUserRoles, roles)
		c.Next()
	}
}

func ok(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", "")
	token, err := jwtSvc.Issue("user-1", []string{"admin"}, time.Hour)
	require.NoError(t, err)

	engine := gin.New()
	engine.GET("/me", NewAuthMiddleware(jwtSvc, logger.NewNopLogger()).RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": CurrentUserID(c), "roles": CurrentUserRoles(c)})
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := serve(engine, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":"user-1","roles":["admin"]}`, w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})

		assert.Equal(t, http.StatusOK, serve(engine, req).Code)
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, serve(engine, req).Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token "+token)
		assert.Equal(t, http.StatusUnauthorized, serve(engine, req).Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, serve(engine, req).Code)
	})
}

func TestEntitlementMiddleware_RequireEntitlement(t *testing.T) {
	tests := []struct {
		name         string
		view         *dto.EntitlementDTO
		accept       string
		wantStatus   int
		wantLocation string
	}{
		{
			name:       "active passes",
			view:       &dto.EntitlementDTO{UserID: "user-1", Status: "active", Entitled: true},
			accept:     "application/json",
			wantStatus: http.StatusOK,
		},
		{
			name:         "browser without subscription is redirected",
			view:         &dto.EntitlementDTO{UserID: "user-1", Status: "none"},
			accept:       "text/html,application/xhtml+xml",
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/pricing",
		},
		{
			name:       "api client with suspended subscription gets 402",
			view:       &dto.EntitlementDTO{UserID: "user-1", Status: "suspended"},
			accept:     "application/json",
			wantStatus: http.StatusPaymentRequired,
		},
		{
			name:       "cancelled is not entitled",
			view:       &dto.EntitlementDTO{UserID: "user-1", Status: "cancelled"},
			wantStatus: http.StatusPaymentRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewEntitlementMiddleware(&stubChecker{view: tt.view}, "/pricing", logger.NewNopLogger())

			engine := gin.New()
			engine.GET("/coach", asUser("user-1"), mw.RequireEntitlement(), ok)

			req := httptest.NewRequest(http.MethodGet, "/coach", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}

			w := serve(engine, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantLocation != "" {
				assert.Equal(t, tt.wantLocation, w.Header().Get("Location"))
			}
		})
	}
}

func TestEntitlementMiddleware_RequiresAuthenticatedUser(t *testing.T) {
	mw := NewEntitlementMiddleware(&stubChecker{}, "", logger.NewNopLogger())

	engine := gin.New()
	engine.GET("/coach", mw.RequireEntitlement(), ok)

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/coach", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPermissionMiddleware_RequirePermission(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		enforcer := &stubEnforcer{allowed: true}
		engine := gin.New()
		engine.GET("/admin", asUser("user-1", "admin"),
			NewPermissionMiddleware(enforcer, logger.NewNopLogger()).RequirePermission("billing", "read"), ok)

		w := serve(engine, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"user-1", "admin"}, enforcer.subjects)
	})

	t.Run("denied", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/admin", asUser("user-1"),
			NewPermissionMiddleware(&stubEnforcer{}, logger.NewNopLogger()).RequirePermission("billing", "read"), ok)

		assert.Equal(t, http.StatusForbidden, serve(engine, httptest.NewRequest(http.MethodGet, "/admin", nil)).Code)
	})

	t.Run("enforcer error", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/admin", asUser("user-1"),
			NewPermissionMiddleware(&stubEnforcer{err: errors.New("boom")}, logger.NewNopLogger()).RequirePermission("billing", "read"), ok)

		assert.Equal(t, http.StatusInternalServerError, serve(engine, httptest.NewRequest(http.MethodGet, "/admin", nil)).Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/admin",
			NewPermissionMiddleware(&stubEnforcer{allowed: true}, logger.NewNopLogger()).RequirePermission("billing", "read"), ok)

		assert.Equal(t, http.StatusUnauthorized, serve(engine, httptest.NewRequest(http.MethodGet, "/admin", nil)).Code)
	})
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFrom(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderXRequestID, "req-123")
	w := serve(engine, req)
	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(constants.HeaderXRequestID))

	w = serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Body.String(), 36)
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery(logger.NewNopLogger()))
	engine.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://app.coachly.io"}))
	engine.GET("/me/entitlement", ok)

	req := httptest.NewRequest(http.MethodOptions, "/me/entitlement", nil)
	req.Header.Set("Origin", "https://app.coachly.io")
	w := serve(engine, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.coachly.io", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/me/entitlement", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = serve(engine, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLoggerWithSlog(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	engine := gin.New()
	engine.Use(RequestID(), Logger(log))
	engine.POST("/webhooks/subscriptions", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/subscriptions", nil)
	req.Header.Set(headerTransmissionID, "tx-42")
	req.Header.Set(constants.HeaderXRequestID, "req-9")
	serve(engine, req)

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"route":"/webhooks/subscriptions"`)
	assert.Contains(t, out, `"transmission_id":"tx-42"`)
	assert.Contains(t, out, `"request_id":"req-9"`)

	buf.Reset()
	serve(engine, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Contains(t, buf.String(), `"level":"WARN"`)
	assert.Contains(t, buf.String(), `"route":"unmatched"`)
}
