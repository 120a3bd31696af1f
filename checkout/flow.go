// Package checkout holds the checkout state machine and the money rules of
// an order. It does no I/O: callers load the cart, apply a transition and
// persist the result.
package checkout

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/models"
)

const (
	StepSummary                = "summary"
	StepDeliveryInfo           = "delivery-info"
	StepPaymentMethodSelection = "payment-method-selection"
	StepFinalizing             = "finalizing"
	StepSuccess                = "success"
)

type Method string

const (
	MethodCard     Method = "card"
	MethodDelivery Method = "delivery"
)

type DeliveryInfo struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required,phone"`
	Address string `json:"address" binding:"required"`
}

// Step reports where the cart is in the flow.
func Step(cart *models.Cart) string {
	if cart.Checkout == nil {
		return StepSummary
	}
	return cart.Checkout.Step
}

// Start leaves the summary for delivery-info. Restarting an unfinished flow
// drops its state; the returned intent id, if any, is now orphaned.
func Start(cart *models.Cart) (orphanIntent string, err error) {
	if len(cart.Items) == 0 {
		return "", apperrors.BusinessRule("checkout.Start", "Cart is empty")
	}
	if Step(cart) == StepFinalizing {
		return "", apperrors.BusinessRule("checkout.Start", "Checkout is already being finalized")
	}
	if cart.Checkout != nil {
		orphanIntent = cart.Checkout.PaymentIntentID
	}
	cart.Checkout = &models.CheckoutState{Step: StepDeliveryInfo}
	return orphanIntent, nil
}

// SubmitDelivery validates the customer data and moves to method selection.
// It may be called again from method selection to edit the data.
func SubmitDelivery(cart *models.Cart, info DeliveryInfo) error {
	step := Step(cart)
	if step != StepDeliveryInfo && step != StepPaymentMethodSelection {
		return apperrors.BusinessRule("checkout.SubmitDelivery", "Checkout has not been started")
	}
	customer, err := ValidateDelivery(info)
	if err != nil {
		return err
	}
	cart.Checkout.Delivery = &customer
	cart.Checkout.Step = StepPaymentMethodSelection
	cart.Checkout.LastError = ""
	return nil
}

// ValidateDelivery trims the fields and checks name >= 2 chars,
// phone >= 8 digits and address >= 5 chars.
func ValidateDelivery(info DeliveryInfo) (models.Customer, error) {
	c := models.Customer{
		Name:    strings.TrimSpace(info.Name),
		Phone:   strings.TrimSpace(info.Phone),
		Address: strings.TrimSpace(info.Address),
	}
	if utf8.RuneCountInString(c.Name) < 2 {
		return c, apperrors.Validation("checkout.Delivery", "Name must have at least 2 characters")
	}
	if CountDigits(c.Phone) < 8 {
		return c, apperrors.Validation("checkout.Delivery", "Phone must have at least 8 digits")
	}
	if utf8.RuneCountInString(c.Address) < 5 {
		return c, apperrors.Validation("checkout.Delivery", "Address must have at least 5 characters")
	}
	return c, nil
}

func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// AvailableMethods lists the payment methods the settings allow. An empty
// result means no order can be placed.
func AvailableMethods(settings models.PaymentSettings) []Method {
	methods := []Method{}
	if settings.CardEnabled() {
		methods = append(methods, MethodCard)
	}
	if settings.IsPaymentOnDeliveryEnabled {
		methods = append(methods, MethodDelivery)
	}
	return methods
}

// RequireMethod fails unless method is currently allowed.
func RequireMethod(settings models.PaymentSettings, method Method) error {
	available := AvailableMethods(settings)
	if len(available) == 0 {
		return apperrors.BusinessRule("checkout.Method", "No payment method available")
	}
	for _, m := range available {
		if m == method {
			return nil
		}
	}
	return apperrors.BusinessRule("checkout.Method", "Payment method not available")
}

// AttachIntent records a created card payment and the quote it was opened
// for, and returns the intent it replaces, if any.
func AttachIntent(cart *models.Cart, displayID, intentID string, quote models.CheckoutQuote) (orphanIntent string, err error) {
	if Step(cart) != StepPaymentMethodSelection {
		return "", apperrors.BusinessRule("checkout.PaymentIntent", "Delivery information is required first")
	}
	orphanIntent = cart.Checkout.PaymentIntentID
	cart.Checkout.DisplayID = displayID
	cart.Checkout.PaymentIntentID = intentID
	cart.Checkout.Quote = &quote
	cart.Checkout.LastError = ""
	return orphanIntent, nil
}

// BeginFinalize enters finalizing. The cart must still have items, or a
// quoted card payment, and delivery data.
func BeginFinalize(cart *models.Cart) error {
	if len(cart.Items) == 0 && PendingQuote(cart) == nil {
		return apperrors.BusinessRule("checkout.Finalize", "Cart is empty")
	}
	if Step(cart) != StepPaymentMethodSelection || cart.Checkout.Delivery == nil {
		return apperrors.BusinessRule("checkout.Finalize", "Delivery information is required first")
	}
	cart.Checkout.Step = StepFinalizing
	return nil
}

// Succeed closes the flow: the cart is emptied and the order remembered.
func Succeed(cart *models.Cart, orderID string) {
	cart.Items = nil
	cart.OrderIDs = append(cart.OrderIDs, orderID)
	cart.Checkout = &models.CheckoutState{Step: StepSuccess, OrderID: orderID}
}

// Fail returns the flow to method selection with message as lastError. The
// pending intent is dropped and returned so the caller can cancel it.
func Fail(cart *models.Cart, message string) (orphanIntent string) {
	if cart.Checkout == nil {
		cart.Checkout = &models.CheckoutState{}
	}
	orphanIntent = cart.Checkout.PaymentIntentID
	cart.Checkout.Step = StepPaymentMethodSelection
	cart.Checkout.LastError = message
	cart.Checkout.PaymentIntentID = ""
	cart.Checkout.DisplayID = ""
	cart.Checkout.Quote = nil
	return orphanIntent
}

// Retry returns the flow to method selection like Fail but keeps the
// pending intent and its quote. Used once the processor may already hold
// the customer's money.
func Retry(cart *models.Cart, message string) {
	if cart.Checkout == nil {
		cart.Checkout = &models.CheckoutState{}
	}
	cart.Checkout.Step = StepPaymentMethodSelection
	cart.Checkout.LastError = message
}

// PendingQuote is the quote of the open card payment, or nil.
func PendingQuote(cart *models.Cart) *models.CheckoutQuote {
	if cart.Checkout == nil || cart.Checkout.PaymentIntentID == "" {
		return nil
	}
	return cart.Checkout.Quote
}

// Back moves one step towards the summary.
func Back(cart *models.Cart) (orphanIntent string, err error) {
	switch Step(cart) {
	case StepPaymentMethodSelection:
		orphanIntent = cart.Checkout.PaymentIntentID
		cart.Checkout.PaymentIntentID = ""
		cart.Checkout.DisplayID = ""
		cart.Checkout.Quote = nil
		cart.Checkout.LastError = ""
		cart.Checkout.Step = StepDeliveryInfo
	case StepDeliveryInfo, StepSuccess:
		cart.Checkout = nil
	case StepSummary:
	default:
		return "", apperrors.BusinessRule("checkout.Back", "Checkout is being finalized")
	}
	return orphanIntent, nil
}
