package cartControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/junaidrashid-git/adega-api/cart"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/junaidrashid-git/adega-api/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartRouter(t *testing.T) (*gin.Engine, *gorm.DB, *cart.MemoryRepository) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	repo := cart.NewMemoryRepository()
	carts := Carts{Repo: repo, TTL: time.Hour}

	r := gin.New()
	r.GET("/cart", GetCart(db, carts))
	r.DELETE("/cart", ClearCart(db, carts))
	r.POST("/cart/items", AddCartItem(db, carts))
	r.PUT("/cart/items/:itemId", UpdateCartItem(db, carts))
	r.DELETE("/cart/items/:itemId", DeleteCartItem(db, carts))
	r.GET("/orders/mine", MyOrders(db, carts))
	return r, db, repo
}

func send(r *gin.Engine, cookie *http.Cookie, method, path, body string) (*httptest.ResponseRecorder, *http.Cookie) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == CartCookie {
			cookie = c
		}
	}
	return w, cookie
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) CartView {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var v CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestCartLifecycle(t *testing.T) {
	r, db, _ := setupCartRouter(t)
	cat := testutil.SeedCategory(t, db, "Cervejas")
	ipa := testutil.SeedItem(t, db, "IPA", "12.50", cat.ID, 1)
	pils := testutil.SeedItem(t, db, "Pilsen", "6.00", cat.ID, 2)

	w, cookie := send(r, nil, http.MethodPost, "/cart/items", `{"itemId":"`+ipa.ID+`","quantity":2}`)
	v := decodeView(t, w)
	require.NotNil(t, cookie)
	assert.Equal(t, cookie.Value, v.ID)
	assert.True(t, cookie.HttpOnly)

	w, cookie = send(r, cookie, http.MethodPost, "/cart/items", `{"itemId":"`+pils.ID+`","quantity":1}`)
	v = decodeView(t, w)
	assert.Len(t, v.Items, 2)
	assert.Equal(t, 3, v.Count)
	assert.True(t, v.Subtotal.Equal(decimal.RequireFromString("31.00")))

	w, cookie = send(r, cookie, http.MethodPut, "/cart/items/"+ipa.ID, `{"quantity":0}`)
	v = decodeView(t, w)
	require.Len(t, v.Items, 1)
	assert.Equal(t, pils.ID, v.Items[0].ID)

	w, cookie = send(r, cookie, http.MethodPut, "/cart/items/"+ipa.ID, `{"quantity":3}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, cookie = send(r, cookie, http.MethodDelete, "/cart/items/"+pils.ID, "")
	v = decodeView(t, w)
	assert.Empty(t, v.Items)
	assert.True(t, v.Total.Equal(decimal.Zero))

	// a visitor without the cookie gets a fresh cart
	w, other := send(r, nil, http.MethodGet, "/cart", "")
	v = decodeView(t, w)
	assert.NotEqual(t, cookie.Value, other.Value)
	assert.Empty(t, v.Items)
}

func TestAddCartItemRejectsBadInput(t *testing.T) {
	r, db, _ := setupCartRouter(t)
	cat := testutil.SeedCategory(t, db, "Cervejas")
	ipa := testutil.SeedItem(t, db, "IPA", "12.50", cat.ID, 1)

	w, _ := send(r, nil, http.MethodPost, "/cart/items", `{"itemId":"`+ipa.ID+`","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = send(r, nil, http.MethodPost, "/cart/items", `{"itemId":"`+ipa.ID+`","quantity":100}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = send(r, nil, http.MethodPost, "/cart/items", `{"itemId":"missing","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestForgedCookieIsReplaced(t *testing.T) {
	r, _, _ := setupCartRouter(t)
	w, cookie := send(r, &http.Cookie{Name: CartCookie, Value: "../../etc"}, http.MethodGet, "/cart", "")
	v := decodeView(t, w)
	assert.NotEqual(t, "../../etc", cookie.Value)
	assert.Equal(t, cookie.Value, v.ID)
}

func TestClearCartKeepsOrderHistory(t *testing.T) {
	r, db, repo := setupCartRouter(t)
	cat := testutil.SeedCategory(t, db, "Vinhos")
	item := testutil.SeedItem(t, db, "Rosé", "40.00", cat.ID, 1)

	older := models.Order{DisplayID: "R1234", Status: models.PaymentStatusPending, OrderStatus: models.OrderStatusReceived, CreatedAt: testutil.Base}
	newer := models.Order{DisplayID: "S5678", Status: models.PaymentStatusPaid, OrderStatus: models.OrderStatusReceived, CreatedAt: testutil.Base.Add(time.Minute)}
	stranger := models.Order{DisplayID: "T9012", Status: models.PaymentStatusPaid, OrderStatus: models.OrderStatusReceived}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)
	require.NoError(t, db.Create(&stranger).Error)

	_, cookie := send(r, nil, http.MethodPost, "/cart/items", `{"itemId":"`+item.ID+`","quantity":1}`)
	ctx := context.Background()
	stored, err := repo.Load(ctx, cookie.Value)
	require.NoError(t, err)
	stored.OrderIDs = []string{older.ID, newer.ID}
	require.NoError(t, repo.Save(ctx, stored))

	w, cookie := send(r, cookie, http.MethodDelete, "/cart", "")
	v := decodeView(t, w)
	assert.Empty(t, v.Items)
	assert.Nil(t, v.Checkout)

	w, _ = send(r, cookie, http.MethodGet, "/orders/mine", "")
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 2)
	assert.Equal(t, "S5678", mine[0].DisplayID)
	assert.Equal(t, "R1234", mine[1].DisplayID)
}

func TestClearCartWithoutHistoryDropsDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	carts := Carts{Repo: cart.NewRedisRepository(client, "test:cart", time.Hour), TTL: time.Hour}

	r := gin.New()
	r.POST("/cart/items", AddCartItem(db, carts))
	r.DELETE("/cart", ClearCart(db, carts))

	cat := testutil.SeedCategory(t, db, "Cervejas")
	item := testutil.SeedItem(t, db, "Pilsen", "6.50", cat.ID, 1)
	w, cookie := send(r, nil, http.MethodPost, "/cart/items", `{"itemId":"`+item.ID+`","quantity":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	key := "test:cart:" + cookie.Value
	assert.True(t, mr.Exists(key))

	w, _ = send(r, cookie, http.MethodDelete, "/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeView(t, w).Items)
	assert.False(t, mr.Exists(key))
}
