// Package payment talks to the card processor.
package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"
)

// Currency of every charge.
const Currency = "brl"

const StatusSucceeded = string(stripe.PaymentIntentStatusSucceeded)

// Intent is the subset of a PaymentIntent the store reads.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
	DisplayID    string
}

// Gateway creates, reads and cancels payment intents. Amounts are in
// centavos.
type Gateway interface {
	CreateIntent(ctx context.Context, amount int64, displayID string) (Intent, error)
	GetIntent(ctx context.Context, id string) (Intent, error)
	CancelIntent(ctx context.Context, id string) error
}

// Factory builds a Gateway for a secret key. Keys come from settings that
// may change between requests.
type Factory func(secretKey string) Gateway

type stripeGateway struct {
	sc *client.API
}

// NewStripe returns a Gateway backed by the Stripe API.
func NewStripe(secretKey string) Gateway {
	return &stripeGateway{sc: client.New(secretKey, nil)}
}

func (g *stripeGateway) CreateIntent(ctx context.Context, amount int64, displayID string) (Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("orderId", displayID)

	pi, err := g.sc.PaymentIntents.New(params)
	if err != nil {
		return Intent{}, fmt.Errorf("create payment intent: %w", err)
	}
	return fromStripe(pi), nil
}

func (g *stripeGateway) GetIntent(ctx context.Context, id string) (Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := g.sc.PaymentIntents.Get(id, params)
	if err != nil {
		return Intent{}, fmt.Errorf("get payment intent %s: %w", id, err)
	}
	return fromStripe(pi), nil
}

func (g *stripeGateway) CancelIntent(ctx context.Context, id string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := g.sc.PaymentIntents.Cancel(id, params); err != nil {
		return fmt.Errorf("cancel payment intent %s: %w", id, err)
	}
	return nil
}

func fromStripe(pi *stripe.PaymentIntent) Intent {
	return Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		DisplayID:    pi.Metadata["orderId"],
	}
}

// Event is a verified webhook notification about a payment intent.
type Event struct {
	ID     string
	Type   string
	Intent Intent
}

const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventIntentCanceled  = "payment_intent.canceled"
	EventIntentFailed    = "payment_intent.payment_failed"
)

// ParseWebhook checks the Stripe-Signature header against secret and
// decodes the payment intent carried by the event, if any.
func ParseWebhook(payload []byte, signature, secret string) (Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return Event{}, fmt.Errorf("verify webhook: %w", err)
	}

	out := Event{ID: event.ID, Type: string(event.Type)}
	if event.Data != nil && event.Data.Object["object"] == "payment_intent" {
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return Event{}, fmt.Errorf("decode payment intent: %w", err)
		}
		out.Intent = fromStripe(&pi)
	}
	return out, nil
}
