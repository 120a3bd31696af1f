package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is an item snapshot plus the wanted quantity.
type CartItem struct {
	Item
	Quantity int `json:"quantity"`
}

func (ci CartItem) LineTotal() decimal.Decimal {
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

// Cart is the per-visitor session document: cart lines, ids of orders
// already placed from this browser and the checkout progress.
type Cart struct {
	ID        string         `json:"id"`
	Items     []CartItem     `json:"items"`
	OrderIDs  []string       `json:"orderIds"`
	Checkout  *CheckoutState `json:"checkout,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// CheckoutState is the persisted part of a checkout flow.
type CheckoutState struct {
	Step            string    `json:"step"`
	Delivery        *Customer `json:"delivery,omitempty"`
	DisplayID       string    `json:"displayId,omitempty"`
	PaymentIntentID string    `json:"paymentIntentId,omitempty"`
	LastError       string    `json:"lastError,omitempty"`
	OrderID         string    `json:"orderId,omitempty"`
	// Quote is what the pending card payment was opened for.
	Quote *CheckoutQuote `json:"quote,omitempty"`
}

// CheckoutQuote freezes the priced lines at payment-intent time. A card
// order is always built from it, whatever happens to the cart or the
// catalog afterwards.
type CheckoutQuote struct {
	Lines       []OrderLine     `json:"lines"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	Total       decimal.Decimal `json:"total"`
}
