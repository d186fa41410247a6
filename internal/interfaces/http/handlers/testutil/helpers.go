// Package testutil builds gin contexts for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/coachly/coachly/internal/shared/constants"
	"github.com/coachly/coachly/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(method, path string, body io.Reader, headers map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest(method, path, body)
	if body != nil {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c, w
}

// NewTestContext encodes body as JSON when it is not nil. Encoding errors
// panic since they can only come from a broken test fixture.
func NewTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	if body == nil {
		return newContext(method, path, nil, nil)
	}

	raw, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	return newContext(method, path, bytes.NewReader(raw), nil)
}

// NewRawTestContext sends body byte for byte, as signature checks require.
func NewRawTestContext(method, path string, body []byte, headers map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	return newContext(method, path, bytes.NewReader(body), headers)
}

// SetAuthContext stores what the auth middleware stores for a verified token.
func SetAuthContext(c *gin.Context, userID string, roles ...string) {
	c.Set(constants.ContextKeyUserID, userID)
	c.Set(constants.ContextKeyUserRoles, roles)
}

func SetURLParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

func SetQueryParams(c *gin.Context, params map[string]string) {
	q := c.Request.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	c.Request.URL.RawQuery = q.Encode()
}

// APIResponse decodes utils.APIResponse keeping data raw for a second decode.
type APIResponse struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     *ErrorInfo      `json:"error,omitempty"`
	Message   string          `json:"message,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func ParseResponse(w *httptest.ResponseRecorder, target interface{}) error {
	return json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(target)
}

// NewMockLogger discards everything.
func NewMockLogger() logger.Interface {
	return logger.NewNopLogger()
}
