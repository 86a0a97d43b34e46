package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newRouterForTest() *Router {
	r := NewRouter(zap.NewNop())
	r.RegisterNominationRoutes(newNominationHandlerForTest())
	r.RegisterCampaignRoutes(&CampaignHandler{logger: zap.NewNop()})
	return r
}

func TestRouter_CampaignActionRequiresPost(t *testing.T) {
	r := newRouterForTest()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/api/v1/campaigns/c1/activate", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_UnknownCampaignAction(t *testing.T) {
	r := newRouterForTest()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/api/v1/campaigns/c1/destroy", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_NominationWrongMethod(t *testing.T) {
	r := newRouterForTest()

	// suggestions 只接受 GET
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/api/v1/nominations/n1/suggestions", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_NominationMalformedPath(t *testing.T) {
	r := newRouterForTest()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/api/v1/nominations/n1/suggestions/extra", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
