package webserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func confirmRequest(t *testing.T, a Auth, secret, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/v1/auth/confirm", a.Confirm)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/confirm", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Callback-Secret", secret)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthConfirm_RejectsBadCallbackSecret(t *testing.T) {
	a := NewAuth(nil, []byte("jwt-secret"), []byte("provider-secret"))

	w := confirmRequest(t, a, "wrong-secret", `{"address":"0xabc"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = confirmRequest(t, a, "", `{"address":"0xabc"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthConfirm_RejectsMissingAddress(t *testing.T) {
	a := NewAuth(nil, []byte("jwt-secret"), []byte("provider-secret"))

	w := confirmRequest(t, a, "provider-secret", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
