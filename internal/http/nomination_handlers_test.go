package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kol360-data/internal/service"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// 校验失败的请求在触达 service 之前就被拦下，所以 nil 仓库也安全
func newNominationHandlerForTest() *NominationHandler {
	return NewNominationHandler(service.NewMatchService(nil, nil, zap.NewNop()), zap.NewNop())
}

func TestMatch_InvalidBody(t *testing.T) {
	h := newNominationHandlerForTest()

	req := httptest.NewRequest(http.MethodPost, "/admin/api/v1/nominations/n1/match", strings.NewReader("not-json"))
	w := httptest.NewRecorder()
	h.Match(w, req, "n1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":-1`)
}

func TestMatch_MissingHcpID(t *testing.T) {
	h := newNominationHandlerForTest()

	req := httptest.NewRequest(http.MethodPost, "/admin/api/v1/nominations/n1/match", strings.NewReader(`{"add_alias":true}`))
	w := httptest.NewRecorder()
	h.Match(w, req, "n1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "hcp_id is required")
}

func TestCreateHcpAndMatch_MissingRequiredFields(t *testing.T) {
	h := newNominationHandlerForTest()

	req := httptest.NewRequest(http.MethodPost, "/admin/api/v1/nominations/n1/hcp", strings.NewReader(`{"npi":"1234567890"}`))
	w := httptest.NewRecorder()
	h.CreateHcpAndMatch(w, req, "n1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "npi and last_name are required")
}

func TestExclude_MissingReason(t *testing.T) {
	h := newNominationHandlerForTest()

	req := httptest.NewRequest(http.MethodPost, "/admin/api/v1/nominations/n1/exclude", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.Exclude(w, req, "n1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "reason is required")
}
