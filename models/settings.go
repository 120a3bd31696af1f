package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fixed ids of the singleton settings documents.
const (
	StoreSettingsID   = "store"
	PaymentSettingsID = "payment"
)

type StoreSettings struct {
	ID          string          `gorm:"primaryKey;size:16" json:"-"`
	StoreName   string          `gorm:"not null" json:"storeName"`
	DeliveryFee decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"deliveryFee"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// DefaultStoreSettings is used while no settings document exists.
func DefaultStoreSettings() StoreSettings {
	return StoreSettings{
		ID:          StoreSettingsID,
		StoreName:   "Adega",
		DeliveryFee: decimal.Zero,
	}
}

// PaymentSettings holds gateway credentials and the payment-method switches.
// StripeSecretKey and StripeWebhookSecret never leave the server.
type PaymentSettings struct {
	ID                         string    `gorm:"primaryKey;size:16" json:"-"`
	IsLive                     bool      `json:"isLive"`
	StripePublicKey            string    `json:"stripePublicKey"`
	StripeSecretKey            string    `json:"-"`
	StripeWebhookSecret        string    `json:"-"`
	IsPaymentOnDeliveryEnabled bool      `json:"isPaymentOnDeliveryEnabled"`
	UpdatedAt                  time.Time `json:"updatedAt"`
}

// DefaultPaymentSettings keeps every payment method off.
func DefaultPaymentSettings() PaymentSettings {
	return PaymentSettings{ID: PaymentSettingsID}
}

// CardEnabled reports whether card payments can actually be taken.
func (p PaymentSettings) CardEnabled() bool {
	return p.IsLive && p.StripeSecretKey != ""
}
