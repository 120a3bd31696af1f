package settingscontroller

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Secrets taken from the environment. When set they win over the values
// stored in the payment settings document.
type Secrets struct {
	StripeSecretKey     string
	StripeWebhookSecret string
}

type StoreSettingsInput struct {
	StoreName   string          `json:"storeName" binding:"required,min=2"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
}

type PaymentSettingsInput struct {
	IsLive                     bool    `json:"isLive"`
	StripePublicKey            string  `json:"stripePublicKey"`
	StripeSecretKey            *string `json:"stripeSecretKey"`     // nil keeps the stored key
	StripeWebhookSecret        *string `json:"stripeWebhookSecret"` // nil keeps the stored secret
	IsPaymentOnDeliveryEnabled bool    `json:"isPaymentOnDeliveryEnabled"`
}

// -------- Core Logic --------

// GetStoreSettings returns the store document or the defaults when absent.
func GetStoreSettings(ctx context.Context, db *gorm.DB) (models.StoreSettings, error) {
	var s models.StoreSettings
	err := db.WithContext(ctx).First(&s, "id = ?", models.StoreSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultStoreSettings(), nil
	}
	if err != nil {
		log.Printf("❌ Failed to load store settings: %v", err)
		return models.StoreSettings{}, apperrors.External("settings.GetStore", "Failed to load store settings", err)
	}
	return s, nil
}

func SaveStoreSettings(ctx context.Context, db *gorm.DB, in StoreSettingsInput) (models.StoreSettings, error) {
	name := strings.TrimSpace(in.StoreName)
	if len(name) < 2 {
		return models.StoreSettings{}, apperrors.Validation("settings.SaveStore", "Store name is required")
	}
	if in.DeliveryFee.IsNegative() {
		return models.StoreSettings{}, apperrors.Validation("settings.SaveStore", "Delivery fee cannot be negative")
	}

	s := models.StoreSettings{
		ID:          models.StoreSettingsID,
		StoreName:   name,
		DeliveryFee: in.DeliveryFee.Round(2),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&s).Error; err != nil {
		log.Printf("❌ Failed to save store settings: %v", err)
		return models.StoreSettings{}, apperrors.External("settings.SaveStore", "Failed to save store settings", err)
	}
	return s, nil
}

// GetPaymentSettings returns the payment document (defaults when absent)
// with environment secrets applied.
func GetPaymentSettings(ctx context.Context, db *gorm.DB, secrets Secrets) (models.PaymentSettings, error) {
	var p models.PaymentSettings
	err := db.WithContext(ctx).First(&p, "id = ?", models.PaymentSettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		p = models.DefaultPaymentSettings()
	} else if err != nil {
		log.Printf("❌ Failed to load payment settings: %v", err)
		return models.PaymentSettings{}, apperrors.External("settings.GetPayment", "Failed to load payment settings", err)
	}

	if secrets.StripeSecretKey != "" {
		p.StripeSecretKey = secrets.StripeSecretKey
	}
	if secrets.StripeWebhookSecret != "" {
		p.StripeWebhookSecret = secrets.StripeWebhookSecret
	}
	return p, nil
}

func SavePaymentSettings(ctx context.Context, db *gorm.DB, in PaymentSettingsInput) (models.PaymentSettings, error) {
	current, err := GetPaymentSettings(ctx, db, Secrets{})
	if err != nil {
		return models.PaymentSettings{}, err
	}

	p := models.PaymentSettings{
		ID:                         models.PaymentSettingsID,
		IsLive:                     in.IsLive,
		StripePublicKey:            strings.TrimSpace(in.StripePublicKey),
		StripeSecretKey:            current.StripeSecretKey,
		StripeWebhookSecret:        current.StripeWebhookSecret,
		IsPaymentOnDeliveryEnabled: in.IsPaymentOnDeliveryEnabled,
		UpdatedAt:                  time.Now().UTC(),
	}
	if in.StripeSecretKey != nil {
		p.StripeSecretKey = strings.TrimSpace(*in.StripeSecretKey)
		if p.StripeSecretKey != "" {
			log.Printf("⚠️ Stripe secret key stored in the database; prefer STRIPE_SECRET_KEY in the environment")
		}
	}
	if in.StripeWebhookSecret != nil {
		p.StripeWebhookSecret = strings.TrimSpace(*in.StripeWebhookSecret)
	}
	if p.StripeSecretKey != "" && !strings.HasPrefix(p.StripeSecretKey, "sk_") && !strings.HasPrefix(p.StripeSecretKey, "rk_") {
		return models.PaymentSettings{}, apperrors.Validation("settings.SavePayment", "Invalid Stripe secret key")
	}
	if p.StripePublicKey != "" && !strings.HasPrefix(p.StripePublicKey, "pk_") {
		return models.PaymentSettings{}, apperrors.Validation("settings.SavePayment", "Invalid Stripe public key")
	}

	if err := db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&p).Error; err != nil {
		log.Printf("❌ Failed to save payment settings: %v", err)
		return models.PaymentSettings{}, apperrors.External("settings.SavePayment", "Failed to save payment settings", err)
	}
	return p, nil
}

// -------- Handlers --------

// StoreInfo is what the storefront may see.
type StoreInfo struct {
	StoreName       string          `json:"storeName"`
	DeliveryFee     decimal.Decimal `json:"deliveryFee"`
	CardEnabled     bool            `json:"cardEnabled"`
	OnDelivery      bool            `json:"paymentOnDeliveryEnabled"`
	StripePublicKey string          `json:"stripePublicKey,omitempty"`
}

// GET /store/settings
func GetStoreInfo(db *gorm.DB, secrets Secrets) gin.HandlerFunc {
	return func(c *gin.Context) {
		store, err := GetStoreSettings(c.Request.Context(), db)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		pay, err := GetPaymentSettings(c.Request.Context(), db, secrets)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		info := StoreInfo{
			StoreName:   store.StoreName,
			DeliveryFee: store.DeliveryFee,
			CardEnabled: pay.CardEnabled(),
			OnDelivery:  pay.IsPaymentOnDeliveryEnabled,
		}
		if info.CardEnabled {
			info.StripePublicKey = pay.StripePublicKey
		}
		c.JSON(http.StatusOK, info)
	}
}

// GET /admin/settings/store
func GetStore(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := GetStoreSettings(c.Request.Context(), db)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// PUT /admin/settings/store
func UpdateStore(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in StoreSettingsInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store settings"})
			return
		}
		s, err := SaveStoreSettings(c.Request.Context(), db, in)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, s)
	}
}

// GET /admin/settings/payment
func GetPayment(db *gorm.DB, secrets Secrets) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := GetPaymentSettings(c.Request.Context(), db, secrets)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"isLive":                     p.IsLive,
			"stripePublicKey":            p.StripePublicKey,
			"hasSecretKey":               p.StripeSecretKey != "",
			"hasWebhookSecret":           p.StripeWebhookSecret != "",
			"secretKeyFromEnv":           secrets.StripeSecretKey != "",
			"isPaymentOnDeliveryEnabled": p.IsPaymentOnDeliveryEnabled,
		})
	}
}

// PUT /admin/settings/payment
func UpdatePayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in PaymentSettingsInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment settings"})
			return
		}
		p, err := SavePaymentSettings(c.Request.Context(), db, in)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"isLive":                     p.IsLive,
			"stripePublicKey":            p.StripePublicKey,
			"hasSecretKey":               p.StripeSecretKey != "",
			"isPaymentOnDeliveryEnabled": p.IsPaymentOnDeliveryEnabled,
		})
	}
}
