package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/auth"
	"github.com/junaidrashid-git/adega-api/cart"
	"github.com/junaidrashid-git/adega-api/checkout"
	cartControllers "github.com/junaidrashid-git/adega-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/adega-api/controllers/order"
	"github.com/junaidrashid-git/adega-api/payment"
	"github.com/junaidrashid-git/adega-api/storage"
	"github.com/junaidrashid-git/adega-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router    *gin.Engine
	sessions  *auth.Sessions
	uploadDir string
}

func newTestServer(t *testing.T) *testServer {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	sessions := auth.NewSessions("test-secret", time.Hour, false)

	r := gin.New()
	SetupRoutes(r, Deps{
		DB:       testutil.NewTestDB(t),
		Sessions: sessions,
		Carts:    cartControllers.Carts{Repo: cart.NewMemoryRepository(), TTL: time.Hour},
		Uploader: storage.NewLocalUploader(dir, "http://localhost:8080"),
		Gateways: payment.NewFake().Factory(),
		Hub:      orderControllers.NewHub(nil),
		Rand:     checkout.DefaultRand,
	})
	return &testServer{router: r, sessions: sessions, uploadDir: dir}
}

func (s *testServer) request(t *testing.T, method, path, accept string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if admin {
		token, err := s.sessions.Issue("admin@adega.test", time.Now())
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

const browser = "text/html,application/xhtml+xml"

func TestAdminRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodGet, "/admin/orders", browser, false)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	for _, path := range []string{"/admin/orders", "/admin/items", "/admin/settings/payment", "/admin/highlights"} {
		w = s.request(t, http.MethodGet, path, "application/json", false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w = s.request(t, http.MethodPatch, "/admin/orders/bulk", browser, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderConsoleNegotiatesFormat(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodGet, "/admin/orders", "application/json", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"metadata"`)

	w = s.request(t, http.MethodGet, "/admin/orders", browser, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Pedidos")
}

func TestLoginPageRedirectsActiveSession(t *testing.T) {
	s := newTestServer(t)

	w := s.request(t, http.MethodGet, "/admin/login", browser, false)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.request(t, http.MethodGet, "/admin/login", browser, true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/orders", w.Header().Get("Location"))
}

func TestGoogleLoginWithoutFirebase(t *testing.T) {
	s := newTestServer(t)
	w := s.request(t, http.MethodPost, "/admin/login/google", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/", "/store/settings", "/categories", "/items", "/highlights", "/cart", "/checkout", "/orders/mine"} {
		w := s.request(t, http.MethodGet, path, "", false)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestWebhookDisabledWithoutSecret(t *testing.T) {
	s := newTestServer(t)
	w := s.request(t, http.MethodPost, "/payment/webhook", "", false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUploadsServedFromDisk(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.uploadDir, "1700000000_vinho.png"), []byte("png"), 0o644))

	w := s.request(t, http.MethodGet, "/uploads/1700000000_vinho.png", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}
