package payment

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory Gateway for tests and local runs without a Stripe
// account. Intents start as "requires_payment_method".
type Fake struct {
	mu        sync.Mutex
	seq       int
	intents   map[string]Intent
	Canceled  []string
	CreateErr error
}

func NewFake() *Fake {
	return &Fake{intents: make(map[string]Intent)}
}

// Factory returns a Factory that ignores the key and hands out f.
func (f *Fake) Factory() Factory {
	return func(string) Gateway { return f }
}

func (f *Fake) CreateIntent(_ context.Context, amount int64, displayID string) (Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.CreateErr != nil {
		return Intent{}, f.CreateErr
	}
	f.seq++
	id := fmt.Sprintf("pi_fake_%d", f.seq)
	intent := Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Amount:       amount,
		Currency:     Currency,
		Status:       "requires_payment_method",
		DisplayID:    displayID,
	}
	f.intents[id] = intent
	return intent, nil
}

func (f *Fake) GetIntent(_ context.Context, id string) (Intent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	intent, ok := f.intents[id]
	if !ok {
		return Intent{}, fmt.Errorf("no such payment intent: %s", id)
	}
	return intent, nil
}

func (f *Fake) CancelIntent(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	intent, ok := f.intents[id]
	if !ok {
		return fmt.Errorf("no such payment intent: %s", id)
	}
	intent.Status = "canceled"
	f.intents[id] = intent
	f.Canceled = append(f.Canceled, id)
	return nil
}

// SetStatus simulates the customer confirming (or failing) a payment.
func (f *Fake) SetStatus(id, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	intent := f.intents[id]
	intent.Status = status
	f.intents[id] = intent
}
