package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/infrastructure/auth"
	"github.com/coachly/coachly/internal/infrastructure/config"
	"github.com/coachly/coachly/internal/infrastructure/payment"
	"github.com/coachly/coachly/internal/infrastructure/permission"
	"github.com/coachly/coachly/internal/infrastructure/persistence/testdb"
	sharedConfig "github.com/coachly/coachly/internal/shared/config"
	"github.com/coachly/coachly/internal/shared/constants"
	"github.com/coachly/coachly/internal/shared/logger"
)

const (
	testJWTSecret     = "jwt-test-secret"
	testWebhookSecret = "webhook-test-secret"
	testWebhookID     = "WH-CONFIG-1"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(mode string) *config.Config {
	return &config.Config{
		Server: sharedConfig.ServerConfig{Mode: "test"},
		Auth:   sharedConfig.AuthConfig{JWTSecret: testJWTSecret, Issuer: "coachly-test"},
		Webhook: sharedConfig.WebhookConfig{
			Secret:         testWebhookSecret,
			WebhookID:      testWebhookID,
			ProcessingMode: mode,
			QueueSize:      16,
			Workers:        2,
			ProcessTimeout: 5 * time.Second,
			Lease:          time.Minute,
		},
		Billing: sharedConfig.BillingConfig{
			PeriodMonths:         1,
			ReconcileInterval:    time.Hour,
			ReconcileBatch:       100,
			IdempotencyRetention: 24 * time.Hour,
			RetryInterval:        time.Hour,
			RetryMaxAttempts:     3,
			SubscribePath:        "/subscription",
		},
		Lock:       sharedConfig.LockConfig{Backend: sharedConfig.LockBackendMemory},
		Permission: sharedConfig.PermissionConfig{ModelPath: "../../../configs/rbac_model.conf"},
	}
}

func newTestContainer(t *testing.T, mode string) *Container {
	t.Helper()

	c, err := NewContainer(testdb.New(t), testConfig(mode), logger.NewNopLogger())
	require.NoError(t, err)
	return c
}

func bearer(t *testing.T, userID string) string {
	t.Helper()

	token, err := auth.NewJWTService(testJWTSecret, "coachly-test").Issue(userID, nil, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(c *Container, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c.Engine().ServeHTTP(w, req)
	return w
}

func deliveryBody(eventID, eventType, resourceID, userID string, at time.Time) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"event_type": %q,
		"create_time": %q,
		"resource": {"id": %q, "custom_id": %q, "plan_id": "P-PRO"}
	}`, eventID, eventType, at.Format(time.RFC3339Nano), resourceID, userID))
}

// deliveryRequest carries well-formed transmission headers whose signature
// covers signedBody under the given secret and webhook id.
func deliveryRequest(body, signedBody []byte, secret, webhookID string) *http.Request {
	transmissionID := fmt.Sprintf("tx-%d", time.Now().UnixNano())
	transmissionTime := time.Now().UTC().Format(time.RFC3339)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/subscriptions", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(webhook.HeaderTransmissionID, transmissionID)
	req.Header.Set(webhook.HeaderTransmissionTime, transmissionTime)
	req.Header.Set(webhook.HeaderTransmissionSig,
		payment.Sign(secret, webhookID, transmissionID, transmissionTime, signedBody))
	return req
}

func signedDelivery(t *testing.T, eventID, eventType, resourceID, userID string, at time.Time) *http.Request {
	t.Helper()

	body := deliveryBody(eventID, eventType, resourceID, userID, at)
	return deliveryRequest(body, body, testWebhookSecret, testWebhookID)
}

func countRows(t *testing.T, c *Container, table string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, c.db.Table(table).Count(&n).Error)
	return n
}

func TestContainer_HealthCheck(t *testing.T) {
	c := newTestContainer(t, sharedConfig.ProcessingModeSync)

	w := doRequest(c, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestContainer_AuthenticationRequired(t *testing.T) {
	c := newTestContainer(t, sharedConfig.ProcessingModeSync)

	for _, path := range []string{"/me/entitlement", "/me/subscription", "/app/access"} {
		t.Run(path, func(t *testing.T) {
			w := doRequest(c, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestContainer_UnsignedWebhookRejected(t *testing.T) {
	c := newTestContainer(t, sharedConfig.ProcessingModeSync)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/subscriptions",
		strings.NewReader(`{"id":"WH-1","event_type":"BILLING.SUBSCRIPTION.ACTIVATED","resource":{"id":"I-1"}}`))
	w := doRequest(c, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContainer_WrongSignatureLeavesNoTrace(t *testing.T) {
	body := deliveryBody("WH-FORGED-1", "BILLING.SUBSCRIPTION.ACTIVATED", "I-FORGED", "user-1", time.Now().UTC())
	otherBody := deliveryBody("WH-FORGED-1", "BILLING.SUBSCRIPTION.CANCELLED", "I-FORGED", "user-1", time.Now().UTC())

	tests := []struct {
		name       string
		signedBody []byte
		secret     string
		webhookID  string
	}{
		{name: "signed with another secret", signedBody: body, secret: "not-the-secret", webhookID: testWebhookID},
		{name: "signed for another webhook", signedBody: body, secret: testWebhookSecret, webhookID: "WH-CONFIG-OTHER"},
		{name: "body altered after signing", signedBody: otherBody, secret: testWebhookSecret, webhookID: testWebhookID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContainer(t, sharedConfig.ProcessingModeSync)

			w := doRequest(c, deliveryRequest(body, tt.signedBody, tt.secret, tt.webhookID))
			assert.Equal(t, http.StatusUnauthorized, w.Code, w.Body.String())

			for _, table := range []string{
				constants.TableSubscriptions,
				constants.TableUserEntitlements,
				constants.TableIdempotencyRecords,
			} {
				assert.Zero(t, countRows(t, c, table), table)
			}
		})
	}
}

func TestContainer_RequiresJWTSecret(t *testing.T) {
	cfg := testConfig(sharedConfig.ProcessingModeSync)
	cfg.Auth.JWTSecret = ""

	_, err := NewContainer(testdb.New(t), cfg, logger.NewNopLogger())
	assert.ErrorIs(t, err, ErrJWTSecretMissing)
}

func TestContainer_PaidAccessFollowsWebhooks(t *testing.T) {
	c := newTestContainer(t, sharedConfig.ProcessingModeSync)
	token := bearer(t, "user-1")
	activatedAt := time.Now().UTC().Add(-time.Hour)

	access := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/app/access", nil)
		req.Header.Set("Authorization", token)
		return doRequest(c, req)
	}

	w := access()
	require.Equal(t, http.StatusPaymentRequired, w.Code)

	w = doRequest(c, signedDelivery(t, "WH-ACT-1", "BILLING.SUBSCRIPTION.ACTIVATED", "I-SUB-1", "user-1", activatedAt))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = access()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Status   string `json:"status"`
			Entitled bool   `json:"entitled"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Entitled)
	assert.Equal(t, "active", resp.Data.Status)

	// A redelivery of the same event is acknowledged without a second apply.
	w = doRequest(c, signedDelivery(t, "WH-ACT-1", "BILLING.SUBSCRIPTION.ACTIVATED", "I-SUB-1", "user-1", activatedAt))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(c, signedDelivery(t, "WH-CAN-1", "BILLING.SUBSCRIPTION.CANCELLED", "I-SUB-1", "user-1", activatedAt.Add(time.Minute)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = access()
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestContainer_AdminReconcileRequiresRole(t *testing.T) {
	c := newTestContainer(t, sharedConfig.ProcessingModeSync)
	token := bearer(t, "admin-1")

	reconcile := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/admin/billing/reconcile", nil)
		req.Header.Set("Authorization", token)
		return doRequest(c, req)
	}

	assert.Equal(t, http.StatusForbidden, reconcile().Code)

	require.NoError(t, c.Enforcer().AddRoleForUser("admin-1", permission.RoleAdmin))

	w := reconcile()
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestContainer_AsyncStartAndShutdown(t *testing.T) {
	c := newTestContainer(t, sharedConfig.ProcessingModeAsync)
	require.NotNil(t, c.eventQ)

	c.Start(context.Background())

	w := doRequest(c, signedDelivery(t, "WH-ASYNC-1", "BILLING.SUBSCRIPTION.ACTIVATED", "I-SUB-9", "user-9", time.Now().UTC()))
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.Shutdown(ctx)
	// A second call is a no-op.
	c.Shutdown(ctx)
}
