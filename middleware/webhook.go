package middleware

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/payment"
)

// StripeEventKey holds the verified payment.Event in the gin context.
const StripeEventKey = "stripe_event"

const maxWebhookBody = 64 << 10

// StripeWebhookAuth verifies the Stripe-Signature header against the
// secret returned by secret. An empty secret disables the endpoint.
func StripeWebhookAuth(secret func(ctx context.Context) (string, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, err := secret(c.Request.Context())
		if err != nil {
			log.Printf("❌ Failed to load webhook secret: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if key == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "webhook is not configured"})
			return
		}

		payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read webhook body"})
			return
		}

		event, err := payment.ParseWebhook(payload, c.GetHeader("Stripe-Signature"), key)
		if err != nil {
			log.Printf("⚠️ Rejected webhook: %v", err)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid webhook signature"})
			return
		}

		c.Set(StripeEventKey, event)
		c.Next()
	}
}
