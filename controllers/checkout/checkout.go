package checkoutcontroller

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/adega-api/apperrors"
	"github.com/junaidrashid-git/adega-api/checkout"
	cartControllers "github.com/junaidrashid-git/adega-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/adega-api/controllers/order"
	settingscontroller "github.com/junaidrashid-git/adega-api/controllers/settings"
	"github.com/junaidrashid-git/adega-api/models"
	"github.com/junaidrashid-git/adega-api/payment"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notifier is told about every placed order.
type Notifier interface {
	Broadcast(order models.Order)
}

type Controller struct {
	DB       *gorm.DB
	Carts    cartControllers.Carts
	Secrets  settingscontroller.Secrets
	Gateways payment.Factory
	Notifier Notifier
	Rand     checkout.Rand
}

type FinalizeRequest struct {
	Method          checkout.Method        `json:"method" binding:"required,oneof=card delivery"`
	DeliveryPayment models.DeliveryPayment `json:"deliveryPayment"`
	CashTendered    *decimal.Decimal       `json:"cashTendered"`
}

// View is what the storefront renders for the current step.
type View struct {
	Step             string            `json:"step"`
	Items            []models.CartItem `json:"items"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
	DeliveryFee      decimal.Decimal   `json:"deliveryFee"`
	Total            decimal.Decimal   `json:"total"`
	Delivery         *models.Customer  `json:"delivery,omitempty"`
	AvailableMethods []checkout.Method `json:"availableMethods"`
	Message          string            `json:"message,omitempty"`
	LastError        string            `json:"lastError,omitempty"`
	DisplayID        string            `json:"displayId,omitempty"`
	OrderID          string            `json:"orderId,omitempty"`
	// PendingPayment is what an open card payment charges.
	PendingPayment *models.CheckoutQuote `json:"pendingPayment,omitempty"`
}

type IntentResponse struct {
	ClientSecret string          `json:"clientSecret"`
	PublicKey    string          `json:"publicKey"`
	OrderID      string          `json:"orderId"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

const noMethodMessage = "No payment method is available right now"

// -------- Core Logic --------

// refreshLines re-reads every cart item so the order is priced with the
// current catalog. Items deleted since they were added fail the checkout.
func (ctl *Controller) refreshLines(ctx context.Context, cart *models.Cart) ([]models.OrderLine, error) {
	ids := make([]string, 0, len(cart.Items))
	for _, ci := range cart.Items {
		ids = append(ids, ci.ID)
	}
	var items []models.Item
	if err := ctl.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		log.Printf("❌ Failed to refresh cart items: %v", err)
		return nil, apperrors.External("checkout.Refresh", "Failed to load cart items", err)
	}
	byID := make(map[string]models.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	for i, ci := range cart.Items {
		current, ok := byID[ci.ID]
		if !ok {
			return nil, apperrors.BusinessRule("checkout.Refresh", "\""+ci.Title+"\" is no longer available")
		}
		cart.Items[i].Item = current
	}
	return checkout.Lines(cart.Items), nil
}

func (ctl *Controller) settings(ctx context.Context) (models.StoreSettings, models.PaymentSettings, error) {
	store, err := settingscontroller.GetStoreSettings(ctx, ctl.DB)
	if err != nil {
		return store, models.PaymentSettings{}, err
	}
	pay, err := settingscontroller.GetPaymentSettings(ctx, ctl.DB, ctl.Secrets)
	return store, pay, err
}

func (ctl *Controller) view(cart *models.Cart, store models.StoreSettings, pay models.PaymentSettings) View {
	subtotal, total := checkout.Totals(checkout.Lines(cart.Items), store.DeliveryFee)
	v := View{
		Step:             checkout.Step(cart),
		Items:            cart.Items,
		Subtotal:         subtotal,
		DeliveryFee:      store.DeliveryFee,
		Total:            total,
		AvailableMethods: checkout.AvailableMethods(pay),
	}
	if v.Items == nil {
		v.Items = []models.CartItem{}
	}
	if len(v.AvailableMethods) == 0 {
		v.Message = noMethodMessage
	}
	if cart.Checkout != nil {
		v.Delivery = cart.Checkout.Delivery
		v.LastError = cart.Checkout.LastError
		v.DisplayID = cart.Checkout.DisplayID
		v.OrderID = cart.Checkout.OrderID
		v.PendingPayment = checkout.PendingQuote(cart)
	}
	return v
}

// cancelOrphan cancels an intent the flow no longer tracks. Failures are
// only logged. A succeeded intent is never canceled.
func (ctl *Controller) cancelOrphan(ctx context.Context, pay models.PaymentSettings, intentID string) {
	if intentID == "" || pay.StripeSecretKey == "" {
		return
	}
	gateway := ctl.Gateways(pay.StripeSecretKey)
	if intent, err := gateway.GetIntent(ctx, intentID); err == nil && intent.Status == payment.StatusSucceeded {
		log.Printf("⚠️ Payment intent %s already succeeded, not canceling it", intentID)
		return
	}
	if err := gateway.CancelIntent(ctx, intentID); err != nil {
		log.Printf("⚠️ Could not cancel orphaned payment intent %s: %v", intentID, err)
		return
	}
	log.Printf("📝 Orphaned payment intent %s canceled", intentID)
}

// CreatePaymentIntent opens a card payment for the cart total.
func (ctl *Controller) CreatePaymentIntent(ctx context.Context, cart *models.Cart) (IntentResponse, error) {
	store, pay, err := ctl.settings(ctx)
	if err != nil {
		return IntentResponse{}, err
	}
	if err := checkout.RequireMethod(pay, checkout.MethodCard); err != nil {
		return IntentResponse{}, err
	}
	if checkout.Step(cart) != checkout.StepPaymentMethodSelection {
		return IntentResponse{}, apperrors.BusinessRule("checkout.PaymentIntent", "Delivery information is required first")
	}
	if len(cart.Items) == 0 {
		return IntentResponse{}, apperrors.BusinessRule("checkout.PaymentIntent", "Cart is empty")
	}

	lines, err := ctl.refreshLines(ctx, cart)
	if err != nil {
		return IntentResponse{}, err
	}
	subtotal, total := checkout.Totals(lines, store.DeliveryFee)
	quote := models.CheckoutQuote{Lines: lines, Subtotal: subtotal, DeliveryFee: store.DeliveryFee, Total: total}

	displayID, err := orderControllers.NewDisplayID(ctx, ctl.DB, ctl.Rand)
	if err != nil {
		return IntentResponse{}, err
	}

	intent, err := ctl.Gateways(pay.StripeSecretKey).CreateIntent(ctx, checkout.ToMinorUnits(total), displayID)
	if err != nil {
		log.Printf("❌ Failed to create payment intent: %v", err)
		return IntentResponse{}, apperrors.External("checkout.PaymentIntent", "Failed to start card payment", err)
	}

	orphan, err := checkout.AttachIntent(cart, displayID, intent.ID, quote)
	if err != nil {
		ctl.cancelOrphan(ctx, pay, intent.ID)
		return IntentResponse{}, err
	}
	ctl.cancelOrphan(ctx, pay, orphan)

	if err := ctl.Carts.Save(ctx, cart); err != nil {
		ctl.cancelOrphan(ctx, pay, intent.ID)
		return IntentResponse{}, err
	}
	return IntentResponse{
		ClientSecret: intent.ClientSecret,
		PublicKey:    pay.StripePublicKey,
		OrderID:      displayID,
		TotalAmount:  total,
	}, nil
}

// Finalize places the order. Input errors leave the flow untouched; once
// finalizing, any failure sends the flow back to method selection. A card
// order is built from the quote its intent was opened for.
func (ctl *Controller) Finalize(ctx context.Context, cart *models.Cart, req FinalizeRequest) (models.Order, error) {
	store, pay, err := ctl.settings(ctx)
	if err != nil {
		return models.Order{}, err
	}
	if err := checkout.RequireMethod(pay, req.Method); err != nil {
		return models.Order{}, err
	}

	var order models.Order
	if req.Method == checkout.MethodCard {
		quote := checkout.PendingQuote(cart)
		if quote == nil {
			return models.Order{}, apperrors.BusinessRule("checkout.Finalize", "Card payment was not started")
		}
		order = newOrder(quote.Lines, quote.Subtotal, quote.DeliveryFee, quote.Total)
	} else {
		if len(cart.Items) == 0 {
			return models.Order{}, apperrors.BusinessRule("checkout.Finalize", "Cart is empty")
		}
		lines, err := ctl.refreshLines(ctx, cart)
		if err != nil {
			return models.Order{}, err
		}
		subtotal, total := checkout.Totals(lines, store.DeliveryFee)
		order = newOrder(lines, subtotal, store.DeliveryFee, total)
		if err := onDelivery(&order, req); err != nil {
			return models.Order{}, err
		}
	}

	if err := checkout.BeginFinalize(cart); err != nil {
		return models.Order{}, err
	}
	order.Customer = datatypes.NewJSONType(*cart.Checkout.Delivery)
	if err := ctl.Carts.Save(ctx, cart); err != nil {
		return models.Order{}, err
	}

	// charged is true once the processor may hold the money; the intent
	// then stays on the flow so a retry can still place the order.
	charged := false
	if req.Method == checkout.MethodCard {
		charged, err = ctl.confirmCard(ctx, cart, pay, &order)
	} else {
		order.DisplayID, err = orderControllers.NewDisplayID(ctx, ctl.DB, ctl.Rand)
	}
	if err == nil {
		err = orderControllers.PlaceOrder(ctx, ctl.DB, &order)
	}
	if err != nil {
		ctl.fail(ctx, cart, pay, apperrors.Message(err), charged)
		return models.Order{}, err
	}

	checkout.Succeed(cart, order.ID)
	if err := ctl.Carts.Save(ctx, cart); err != nil {
		// the order exists; the visitor only loses the cart reset
		log.Printf("⚠️ Order %s placed but cart %s not reset: %v", order.DisplayID, cart.ID, err)
	}
	if ctl.Notifier != nil {
		ctl.Notifier.Broadcast(order)
	}
	return order, nil
}

func newOrder(lines []models.OrderLine, subtotal, fee, total decimal.Decimal) models.Order {
	return models.Order{
		Items:       datatypes.JSONSlice[models.OrderLine](lines),
		Subtotal:    subtotal,
		DeliveryFee: fee,
		TotalAmount: total,
		OrderStatus: models.OrderStatusReceived,
	}
}

func onDelivery(order *models.Order, req FinalizeRequest) error {
	order.Status = models.PaymentStatusPending
	order.PaymentMethod = models.PaymentMethodOnDelivery
	order.DeliveryPayment = req.DeliveryPayment

	switch req.DeliveryPayment {
	case models.DeliveryPaymentPix:
		return nil
	case models.DeliveryPaymentCash:
		if req.CashTendered == nil {
			return apperrors.Validation("checkout.Finalize", "Cash amount is required")
		}
		change, err := checkout.Change(*req.CashTendered, order.TotalAmount)
		if err != nil {
			return err
		}
		tendered := *req.CashTendered
		order.CashTendered = &tendered
		order.Change = &change
		return nil
	default:
		return apperrors.Validation("checkout.Finalize", "deliveryPayment must be dinheiro or pix")
	}
}

// confirmCard re-reads the intent: it must have succeeded for exactly the
// quoted total. charged reports whether the intent may hold the money,
// which is also the case when it could not be read.
func (ctl *Controller) confirmCard(ctx context.Context, cart *models.Cart, pay models.PaymentSettings, order *models.Order) (charged bool, err error) {
	intentID := cart.Checkout.PaymentIntentID
	intent, err := ctl.Gateways(pay.StripeSecretKey).GetIntent(ctx, intentID)
	if err != nil {
		log.Printf("❌ Failed to read payment intent %s: %v", intentID, err)
		return true, apperrors.External("checkout.Finalize", "Could not confirm the card payment", err)
	}
	if intent.Status != payment.StatusSucceeded {
		return false, apperrors.BusinessRule("checkout.Finalize", "Payment was not confirmed")
	}
	if intent.Amount != checkout.ToMinorUnits(order.TotalAmount) {
		log.Printf("⚠️ Intent %s amount %d does not match order total %s", intentID, intent.Amount, order.TotalAmount.StringFixed(2))
		return true, apperrors.BusinessRule("checkout.Finalize", "Payment amount does not match the order total")
	}

	order.DisplayID = cart.Checkout.DisplayID
	if taken, err := orderControllers.DisplayIDTaken(ctx, ctl.DB, order.DisplayID); err != nil || taken || order.DisplayID == "" {
		log.Printf("⚠️ Display id %q unusable for intent %s, drawing a new one", order.DisplayID, intentID)
		if order.DisplayID, err = orderControllers.NewDisplayID(ctx, ctl.DB, ctl.Rand); err != nil {
			return true, err
		}
	}

	order.Status = models.PaymentStatusPaid
	order.PaymentMethod = models.PaymentMethodCard
	order.StripePaymentIntentID = &intent.ID
	return true, nil
}

// fail records message on the flow. An uncharged intent is dropped and
// canceled; a charged one is kept for the next finalize.
func (ctl *Controller) fail(ctx context.Context, cart *models.Cart, pay models.PaymentSettings, message string, charged bool) {
	if charged {
		checkout.Retry(cart, message)
	} else {
		ctl.cancelOrphan(ctx, pay, checkout.Fail(cart, message))
	}
	if err := ctl.Carts.Save(ctx, cart); err != nil {
		log.Printf("⚠️ Failed to record checkout failure on cart %s: %v", cart.ID, err)
	}
}

// -------- Handlers --------

// respond writes the checkout view of cart.
func (ctl *Controller) respond(c *gin.Context, cart *models.Cart, status int) {
	store, pay, err := ctl.settings(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(status, ctl.view(cart, store, pay))
}

// transition loads the cart, runs step and saves it.
func (ctl *Controller) transition(c *gin.Context, step func(*models.Cart, models.PaymentSettings) error) {
	cart, err := ctl.Carts.Load(c)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	_, pay, err := ctl.settings(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	if err := step(cart, pay); err != nil {
		apperrors.Respond(c, err)
		return
	}
	if err := ctl.Carts.Save(c.Request.Context(), cart); err != nil {
		apperrors.Respond(c, err)
		return
	}
	ctl.respond(c, cart, http.StatusOK)
}

// GET /checkout
func (ctl *Controller) Get() gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := ctl.Carts.Load(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		ctl.respond(c, cart, http.StatusOK)
	}
}

// POST /checkout/start
func (ctl *Controller) Start() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctl.transition(c, func(cart *models.Cart, pay models.PaymentSettings) error {
			orphan, err := checkout.Start(cart)
			ctl.cancelOrphan(c.Request.Context(), pay, orphan)
			return err
		})
	}
}

// POST /checkout/delivery
func (ctl *Controller) Delivery() gin.HandlerFunc {
	return func(c *gin.Context) {
		var info checkout.DeliveryInfo
		if err := c.ShouldBindJSON(&info); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name, phone (8+ digits) and address are required"})
			return
		}
		ctl.transition(c, func(cart *models.Cart, _ models.PaymentSettings) error {
			return checkout.SubmitDelivery(cart, info)
		})
	}
}

// POST /checkout/back
func (ctl *Controller) Back() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctl.transition(c, func(cart *models.Cart, pay models.PaymentSettings) error {
			orphan, err := checkout.Back(cart)
			ctl.cancelOrphan(c.Request.Context(), pay, orphan)
			return err
		})
	}
}

// POST /checkout/payment-intent
func (ctl *Controller) PaymentIntent() gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := ctl.Carts.Load(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		resp, err := ctl.CreatePaymentIntent(c.Request.Context(), cart)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// POST /checkout/finalize
func (ctl *Controller) FinalizeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req FinalizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "method must be card or delivery"})
			return
		}
		cart, err := ctl.Carts.Load(c)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		order, err := ctl.Finalize(c.Request.Context(), cart, req)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order": order, "step": checkout.Step(cart)})
	}
}
