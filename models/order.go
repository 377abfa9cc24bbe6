package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pendingPayment"
	// OrderStatusPending is the initial state written by older deployments.
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Position on the forward path; cancelled is off-path.
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPendingPayment: 0,
	OrderStatusPending:        0,
	OrderStatusPaid:           1,
	OrderStatusShipped:        2,
	OrderStatusDelivered:      3,
}

// PendingStatuses lists every status that counts as "awaiting customer finalization".
var PendingStatuses = []OrderStatus{OrderStatusPendingPayment, OrderStatusPending}

// ParseOrderStatus accepts the wire form of a status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	switch status {
	case OrderStatusPendingPayment, OrderStatusPending, OrderStatusPaid,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return status, true
	}
	return "", false
}

func (s OrderStatus) IsPending() bool {
	return s == OrderStatusPendingPayment || s == OrderStatusPending
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether an admin may move an order from s to next.
// Orders only move forward along pendingPayment -> paid -> shipped -> delivered
// (skipping is allowed) or to cancelled from any non-terminal state. Nothing
// moves back into a pending state and terminal states are final.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	from, okFrom := orderStatusRank[s]
	to, okTo := orderStatusRank[next]
	return okFrom && okTo && to > from
}

type OrderItem struct {
	ProductID string          `bson:"productId" json:"product_id"`
	Quantity  int             `bson:"quantity" json:"quantity"`
	Price     decimal.Decimal `bson:"price" json:"price"`
}

type Order struct {
	ID              string          `bson:"_id" json:"id"`
	UserID          string          `bson:"userId" json:"user_id"`
	Status          OrderStatus     `bson:"status" json:"status"`
	Items           []OrderItem     `bson:"items" json:"items"`
	Subtotal        decimal.Decimal `bson:"subtotal" json:"subtotal"`
	ShippingCost    decimal.Decimal `bson:"shippingCost" json:"shipping_cost"`
	Total           decimal.Decimal `bson:"total" json:"total"`
	OrderDate       time.Time       `bson:"orderDate" json:"order_date"`
	ShippingAddress string          `bson:"shippingAddress" json:"shipping_address"`
	PaymentMethod   string          `bson:"paymentMethod" json:"payment_method"`
	PaymentToken    string          `bson:"paymentToken,omitempty" json:"payment_token,omitempty"`
	TrackingNumber  string          `bson:"trackingNumber" json:"tracking_number"`
	CreatedAt       time.Time       `bson:"createdAt" json:"created_at"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updated_at"`
	DeletedAt       *time.Time      `bson:"deletedAt,omitempty" json:"-"`
}

// IsCashOnDelivery reports whether a payment method settles on delivery and
// therefore needs no gateway session.
func IsCashOnDelivery(method string) bool {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case "cod", "cash_on_delivery":
		return true
	}
	return false
}

// OrderFilter narrows order listings. UserID is always set for non-admin callers.
type OrderFilter struct {
	Status OrderStatus
	UserID string
}

// OrderUpdate carries the fields an update writes; nil fields are left untouched.
type OrderUpdate struct {
	Status          *OrderStatus
	TrackingNumber  *string
	Items           []OrderItem
	ShippingAddress *string
	PaymentMethod   *string
}

func (u OrderUpdate) IsEmpty() bool {
	return u.Status == nil && u.TrackingNumber == nil && u.Items == nil &&
		u.ShippingAddress == nil && u.PaymentMethod == nil
}
