package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/auth"
	"github.com/junaidrashid-git/adega-api/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80/webhook"
)

func adminRouter(sessions *auth.Sessions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/login", RedirectIfAuthenticated(sessions), func(c *gin.Context) { c.String(http.StatusOK, "login") })
	admin := r.Group("/admin", RequireAdmin(sessions))
	admin.GET("/orders", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(AdminEmailKey)) })
	admin.PATCH("/orders/bulk", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func withSession(t *testing.T, req *http.Request, sessions *auth.Sessions) *http.Request {
	t.Helper()
	token, err := sessions.Issue("dono@adega.example", time.Now())
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	return req
}

func TestRequireAdmin(t *testing.T) {
	sessions := auth.NewSessions("secret", time.Hour, false)
	r := adminRouter(sessions)

	// browser without a session goes to the login page
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	// API call without a session
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/admin/orders/bulk", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// a cookie that is present but forged is not enough
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "anything"})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withSession(t, httptest.NewRequest(http.MethodGet, "/admin/orders", nil), sessions))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dono@adega.example", w.Body.String())
}

func TestRedirectIfAuthenticated(t *testing.T) {
	sessions := auth.NewSessions("secret", time.Hour, false)
	r := adminRouter(sessions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withSession(t, httptest.NewRequest(http.MethodGet, "/admin/login", nil), sessions))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/orders", w.Header().Get("Location"))
}

func TestStripeWebhookAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const secret = "whsec_mw"
	secretFn := func(key string) func(context.Context) (string, error) {
		return func(context.Context) (string, error) { return key, nil }
	}

	newRouter := func(key string) *gin.Engine {
		r := gin.New()
		r.POST("/payment/webhook", StripeWebhookAuth(secretFn(key)), func(c *gin.Context) {
			event := c.MustGet(StripeEventKey).(payment.Event)
			c.String(http.StatusOK, event.Type)
		})
		return r
	}

	payload := `{"id":"evt_1","object":"event","type":"payment_intent.canceled","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: []byte(payload), Secret: secret, Timestamp: time.Now()})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", signed.Header)
	newRouter(secret).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "payment_intent.canceled", w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	newRouter(secret).ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	newRouter("").ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(payload)))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
