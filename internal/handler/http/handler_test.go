package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/metrics"
	"github.com/MKhiriev/go-user-keeper/internal/mock"
	"github.com/MKhiriev/go-user-keeper/internal/service"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	adminID  = "0190b1c2-aaaa-7bbb-8ccc-000000000001"
	editorID = "0190b1c2-aaaa-7bbb-8ccc-000000000002"
	viewerID = "0190b1c2-aaaa-7bbb-8ccc-000000000003"

	adminToken  = "admin-access-token"
	editorToken = "editor-access-token"
	viewerToken = "viewer-access-token"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

type testDeps struct {
	auth    *mock.MockAuthService
	users   *mock.MockUserService
	appInfo *mock.MockAppInfoService
}

func newTestHandler(t *testing.T) (*Handler, testDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)
	deps := testDeps{
		auth:    mock.NewMockAuthService(ctrl),
		users:   mock.NewMockUserService(ctrl),
		appInfo: mock.NewMockAppInfoService(ctrl),
	}
	svcs := &service.Services{
		AuthService:    deps.auth,
		UserService:    deps.users,
		AppInfoService: deps.appInfo,
	}
	return NewHandler(svcs, metrics.NewHTTPMetrics(), logger.Nop()), deps
}

// expectCaller makes token resolve to a caller with role, any number of times.
func (d testDeps) expectCaller(token, id string, role models.Role) *models.Caller {
	caller := models.Caller{UserID: id, Role: role}
	d.auth.EXPECT().Authenticate(gomock.Any(), token).Return(caller, nil).AnyTimes()
	return &caller
}

func newJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// serve runs req through the full router.
func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// gatherText scrapes the handler's metrics registry.
func gatherText(t *testing.T, h *Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svcs := &service.Services{}
	m := metrics.NewHTTPMetrics()
	log := logger.Nop()

	h := NewHandler(svcs, m, log)

	require.NotNil(t, h)
	assert.Same(t, svcs, h.services)
	assert.Same(t, m, h.metrics)
	assert.Same(t, log, h.logger)
}

func TestNewHandler_DefaultMetrics(t *testing.T) {
	h := NewHandler(&service.Services{}, nil, logger.Nop())

	assert.NotNil(t, h.metrics)
}
