package web

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/junaidrashid-git/adega-api/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupWeb(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewTestDB(t)
	r := gin.New()
	r.SetHTMLTemplate(Templates())
	r.GET("/", Storefront(db))
	r.GET("/admin/login", AdminLogin(LoginPage{GoogleEnabled: true, FirebaseProjectID: "adega-test"}))
	r.GET("/admin/orders", AdminOrders(db))
	return r, db
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestStorefrontListsCatalog(t *testing.T) {
	r, db := setupWeb(t)
	cat := testutil.SeedCategory(t, db, "Destilados")
	testutil.SeedItem(t, db, "Cachaça Ouro", "39.90", cat.ID, 1)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Cachaça Ouro")
	assert.Contains(t, body, "R$ 39.90")
	assert.Contains(t, body, "Destilados")
}

func TestStorefrontFollowsNextPage(t *testing.T) {
	r, db := setupWeb(t)
	cat := testutil.SeedCategory(t, db, "Vinhos")
	for i := 1; i <= 13; i++ {
		testutil.SeedItem(t, db, fmt.Sprintf("Vinho %02d", i), "20.00", cat.ID, i)
	}

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Vinho 13")
	assert.NotContains(t, w.Body.String(), "Vinho 01")
	next := regexp.MustCompile(`href="(/\?cursor=[^"]+)" id="more"`).FindStringSubmatch(w.Body.String())
	require.Len(t, next, 2)

	w = get(r, html.UnescapeString(next[1]))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Vinho 01")
	assert.NotContains(t, w.Body.String(), "Vinho 13")
	assert.NotContains(t, w.Body.String(), `id="more"`)
}

func TestStorefrontEmptySearch(t *testing.T) {
	r, _ := setupWeb(t)
	w := get(r, "/?search=x")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nenhum produto encontrado")
}

func TestAdminLoginShowsFailure(t *testing.T) {
	r, _ := setupWeb(t)

	w := get(r, "/admin/login")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "inválidos")
	assert.Contains(t, w.Body.String(), "adega-test")

	w = get(r, "/admin/login?error=1")
	assert.Contains(t, w.Body.String(), "inválidos")
}

func TestAdminOrdersConsole(t *testing.T) {
	r, db := setupWeb(t)
	change := decimal.RequireFromString("5.00")
	order := models.Order{
		DisplayID:     "K4821",
		Customer:      datatypes.NewJSONType(models.Customer{Name: "Bruno Lima", Phone: "11999990000", Address: "Av. Paulista, 1000"}),
		TotalAmount:   decimal.RequireFromString("25.00"),
		Change:        &change,
		Status:        models.PaymentStatusPending,
		OrderStatus:   models.OrderStatusReceived,
		PaymentMethod: models.PaymentMethodOnDelivery,
	}
	require.NoError(t, db.Create(&order).Error)

	w := get(r, "/admin/orders")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "K4821")
	assert.Contains(t, body, "Bruno Lima")
	assert.Contains(t, body, "R$ 25.00")
	assert.Contains(t, body, "troco R$ 5.00")

	w = get(r, "/admin/orders?search=nobody")
	assert.Contains(t, w.Body.String(), "Nenhum pedido")
}
