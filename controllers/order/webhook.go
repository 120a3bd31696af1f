package orderControllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/middleware"
	"github.com/junaidrashid-git/adega-api/payment"
	"gorm.io/gorm"
)

// StripeWebhook - POST /payment/webhook, behind middleware.StripeWebhookAuth.
// Unknown intents are acknowledged so Stripe stops retrying.
func StripeWebhook(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, ok := c.MustGet(middleware.StripeEventKey).(payment.Event)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing event"})
			return
		}

		switch event.Type {
		case payment.EventIntentSucceeded:
			found, err := MarkPaidByIntent(c.Request.Context(), db, event.Intent.ID)
			if err != nil {
				apperrors.Respond(c, err)
				return
			}
			if found {
				log.Printf("✅ Payment %s confirmed by webhook", event.Intent.ID)
			} else {
				log.Printf("⚠️ Webhook for unknown payment intent %s (order %s)", event.Intent.ID, event.Intent.DisplayID)
			}
		case payment.EventIntentCanceled, payment.EventIntentFailed:
			log.Printf("⚠️ Payment intent %s: %s", event.Intent.ID, event.Type)
		default:
			log.Printf("📝 Ignoring webhook event %s", event.Type)
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
