package checkout

import (
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cartWith(price string, qty int) *models.Cart {
	return &models.Cart{
		ID: "c1",
		Items: []models.CartItem{{
			Item:     models.Item{ID: "i1", Title: "Vinho", Price: d(price)},
			Quantity: qty,
		}},
	}
}

var validDelivery = DeliveryInfo{Name: "Ana", Phone: "(11) 9876-5432", Address: "Rua A, 10"}

func TestStartRequiresItems(t *testing.T) {
	_, err := Start(&models.Cart{})
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)

	c := cartWith("10.00", 1)
	_, err = Start(c)
	require.NoError(t, err)
	assert.Equal(t, StepDeliveryInfo, Step(c))
}

func TestHappyPathTransitions(t *testing.T) {
	c := cartWith("10.00", 2)

	_, err := Start(c)
	require.NoError(t, err)
	require.NoError(t, SubmitDelivery(c, validDelivery))
	assert.Equal(t, StepPaymentMethodSelection, Step(c))
	assert.Equal(t, "Ana", c.Checkout.Delivery.Name)

	require.NoError(t, BeginFinalize(c))
	assert.Equal(t, StepFinalizing, Step(c))

	Succeed(c, "order-1")
	assert.Equal(t, StepSuccess, Step(c))
	assert.Empty(t, c.Items)
	assert.Equal(t, []string{"order-1"}, c.OrderIDs)

	// a finished flow cannot be finalized twice
	assert.ErrorIs(t, BeginFinalize(c), apperrors.ErrBusinessRule)
}

func TestSubmitDeliveryValidation(t *testing.T) {
	cases := map[string]DeliveryInfo{
		"short name":    {Name: "A", Phone: "11987654321", Address: "Rua A, 10"},
		"short phone":   {Name: "Ana", Phone: "98-76-54", Address: "Rua A, 10"},
		"short address": {Name: "Ana", Phone: "11987654321", Address: "Rua"},
	}
	for name, info := range cases {
		t.Run(name, func(t *testing.T) {
			c := cartWith("10.00", 1)
			_, err := Start(c)
			require.NoError(t, err)
			assert.ErrorIs(t, SubmitDelivery(c, info), apperrors.ErrValidation)
			assert.Equal(t, StepDeliveryInfo, Step(c))
		})
	}

	assert.ErrorIs(t, SubmitDelivery(cartWith("1", 1), validDelivery), apperrors.ErrBusinessRule)
}

func TestAvailableMethodsFailClosed(t *testing.T) {
	assert.Empty(t, AvailableMethods(models.PaymentSettings{}))
	assert.ErrorIs(t, RequireMethod(models.PaymentSettings{}, MethodDelivery), apperrors.ErrBusinessRule)

	// live without a secret key cannot take cards
	live := models.PaymentSettings{IsLive: true}
	assert.Empty(t, AvailableMethods(live))

	both := models.PaymentSettings{IsLive: true, StripeSecretKey: "sk_test_x", IsPaymentOnDeliveryEnabled: true}
	assert.Equal(t, []Method{MethodCard, MethodDelivery}, AvailableMethods(both))
	assert.NoError(t, RequireMethod(both, MethodCard))

	onDelivery := models.PaymentSettings{IsPaymentOnDeliveryEnabled: true}
	assert.ErrorIs(t, RequireMethod(onDelivery, MethodCard), apperrors.ErrBusinessRule)
}

func TestFailReturnsToSelectionAndOrphansIntent(t *testing.T) {
	c := cartWith("10.00", 1)
	_, err := Start(c)
	require.NoError(t, err)
	require.NoError(t, SubmitDelivery(c, validDelivery))
	orphan, err := AttachIntent(c, "A0001", "pi_1", quoteOf(c, "5.00"))
	require.NoError(t, err)
	assert.Empty(t, orphan)
	require.NoError(t, BeginFinalize(c))

	orphan = Fail(c, "Payment was not confirmed")
	assert.Equal(t, "pi_1", orphan)
	assert.Equal(t, StepPaymentMethodSelection, Step(c))
	assert.Equal(t, "Payment was not confirmed", c.Checkout.LastError)
	assert.Empty(t, c.Checkout.PaymentIntentID)
	assert.Nil(t, c.Checkout.Quote)
	assert.Len(t, c.Items, 1)
}

func quoteOf(c *models.Cart, fee string) models.CheckoutQuote {
	lines := Lines(c.Items)
	subtotal, total := Totals(lines, d(fee))
	return models.CheckoutQuote{Lines: lines, Subtotal: subtotal, DeliveryFee: d(fee), Total: total}
}

func TestRetryKeepsQuotedIntent(t *testing.T) {
	c := cartWith("10.00", 2)
	_, err := Start(c)
	require.NoError(t, err)
	require.NoError(t, SubmitDelivery(c, validDelivery))
	_, err = AttachIntent(c, "C0003", "pi_3", quoteOf(c, "5.00"))
	require.NoError(t, err)

	// the quote survives the cart being emptied
	c.Items = nil
	require.NoError(t, BeginFinalize(c))
	Retry(c, "Could not confirm the card payment")

	assert.Equal(t, StepPaymentMethodSelection, Step(c))
	assert.Equal(t, "pi_3", c.Checkout.PaymentIntentID)
	q := PendingQuote(c)
	require.NotNil(t, q)
	assert.True(t, q.Total.Equal(d("25.00")))
	assert.Len(t, q.Lines, 1)
}

func TestBackWalksTowardsSummary(t *testing.T) {
	c := cartWith("10.00", 1)
	_, err := Start(c)
	require.NoError(t, err)
	require.NoError(t, SubmitDelivery(c, validDelivery))
	_, err = AttachIntent(c, "B0002", "pi_2", quoteOf(c, "5.00"))
	require.NoError(t, err)

	orphan, err := Back(c)
	require.NoError(t, err)
	assert.Equal(t, "pi_2", orphan)
	assert.Equal(t, StepDeliveryInfo, Step(c))

	_, err = Back(c)
	require.NoError(t, err)
	assert.Equal(t, StepSummary, Step(c))
}

func TestTotalsLaw(t *testing.T) {
	lines := []models.OrderLine{
		{Price: d("10.00"), Quantity: 2},
		{Price: d("7.35"), Quantity: 3},
	}
	subtotal, total := Totals(lines, d("5.00"))
	assert.True(t, subtotal.Equal(d("42.05")), subtotal.String())
	assert.True(t, total.Equal(d("47.05")), total.String())

	subtotal, total = Totals(nil, d("5"))
	assert.True(t, subtotal.IsZero())
	assert.True(t, total.Equal(d("5")))
}

func TestChange(t *testing.T) {
	change, err := Change(d("30.00"), d("25.00"))
	require.NoError(t, err)
	assert.True(t, change.Equal(d("5.00")))

	change, err = Change(d("25.00"), d("25.00"))
	require.NoError(t, err)
	assert.True(t, change.IsZero())

	_, err = Change(d("24.99"), d("25.00"))
	assert.ErrorIs(t, err, apperrors.ErrBusinessRule)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(2500), ToMinorUnits(d("25")))
	assert.Equal(t, int64(1999), ToMinorUnits(d("19.99")))
	assert.Equal(t, int64(1001), ToMinorUnits(d("10.005")))
}

func TestNewDisplayIDFormat(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z][0-9]{4}$`)
	r := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		assert.Regexp(t, re, NewDisplayID(r))
	}
}

func TestLinesSnapshotCartItems(t *testing.T) {
	c := cartWith("12.50", 3)
	lines := Lines(c.Items)
	require.Len(t, lines, 1)
	assert.Equal(t, "i1", lines[0].ItemID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.True(t, lines[0].LineTotal().Equal(d("37.50")))
}
