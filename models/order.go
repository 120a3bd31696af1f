package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PaymentStatus string
type OrderStatus string
type PaymentMethod string
type DeliveryPayment string

const (
	// Payment statuses
	PaymentStatusPaid     PaymentStatus = "Pago"
	PaymentStatusPending  PaymentStatus = "Pendente"
	PaymentStatusCanceled PaymentStatus = "Cancelado"
	PaymentStatusRefunded PaymentStatus = "Reembolsado"

	// Order (fulfilment) statuses
	OrderStatusReceived  OrderStatus = "Recebido"
	OrderStatusPreparing OrderStatus = "Em preparo"
	OrderStatusOnTheWay  OrderStatus = "Saiu para entrega"
	OrderStatusDelivered OrderStatus = "Entregue"
	OrderStatusCanceled  OrderStatus = "Cancelado"

	PaymentMethodCard       PaymentMethod = "Cartão"
	PaymentMethodOnDelivery PaymentMethod = "Na Entrega"

	DeliveryPaymentCash DeliveryPayment = "dinheiro"
	DeliveryPaymentPix  DeliveryPayment = "pix"
)

var paymentStatuses = []PaymentStatus{PaymentStatusPaid, PaymentStatusPending, PaymentStatusCanceled, PaymentStatusRefunded}
var orderStatuses = []OrderStatus{OrderStatusReceived, OrderStatusPreparing, OrderStatusOnTheWay, OrderStatusDelivered, OrderStatusCanceled}

// PaymentStatuses lists every payment status in display order.
func PaymentStatuses() []PaymentStatus {
	return append([]PaymentStatus(nil), paymentStatuses...)
}

// OrderStatuses lists every fulfilment status in display order.
func OrderStatuses() []OrderStatus {
	return append([]OrderStatus(nil), orderStatuses...)
}

func (s PaymentStatus) Valid() bool {
	for _, v := range paymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s OrderStatus) Valid() bool {
	for _, v := range orderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// OrderLine is a snapshot of the item at checkout time.
type OrderLine struct {
	ItemID      string          `json:"itemId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	CategoryID  string          `json:"categoryId"`
	Quantity    int             `json:"quantity"`
}

// LineTotal is price × quantity.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Customer struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Order struct {
	ID                    string                         `gorm:"primaryKey;size:36" json:"id"`
	DisplayID             string                         `gorm:"size:8;uniqueIndex;not null" json:"displayId"`
	Items                 datatypes.JSONSlice[OrderLine] `json:"items"`
	Customer              datatypes.JSONType[Customer]   `json:"customer"`
	Subtotal              decimal.Decimal                `gorm:"type:numeric(12,2)" json:"subtotal"`
	DeliveryFee           decimal.Decimal                `gorm:"type:numeric(12,2)" json:"deliveryFee"`
	TotalAmount           decimal.Decimal                `gorm:"type:numeric(12,2)" json:"totalAmount"`
	Status                PaymentStatus                  `gorm:"type:VARCHAR(20);index" json:"status"`
	OrderStatus           OrderStatus                    `gorm:"type:VARCHAR(20);index" json:"orderStatus"`
	PaymentMethod         PaymentMethod                  `gorm:"type:VARCHAR(20)" json:"paymentMethod"`
	DeliveryPayment       DeliveryPayment                `gorm:"type:VARCHAR(20)" json:"deliveryPayment,omitempty"`
	CashTendered          *decimal.Decimal               `gorm:"type:numeric(12,2)" json:"cashTendered,omitempty"`
	Change                *decimal.Decimal               `gorm:"type:numeric(12,2)" json:"change,omitempty"`
	StripePaymentIntentID *string                        `gorm:"uniqueIndex" json:"stripePaymentIntentId,omitempty"`
	CreatedAt             time.Time                      `gorm:"index" json:"createdAt"`
	UpdatedAt             time.Time                      `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	return nil
}
