package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"    // placed, awaiting confirmation
	OrderStatusProcessing OrderStatus = "processing" // confirmed, being prepared
	OrderStatusShipping   OrderStatus = "shipping"   // out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // customer received the items
	OrderStatusCancelled  OrderStatus = "cancelled"  // cancelled at any point
)

type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "cod"     // cash on delivery
	PaymentBanking PaymentMethod = "banking" // bank transfer
)

var (
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// ParseOrderStatus maps a string onto the closed status enumeration.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToLower(s)) {
	case OrderStatusPending:
		return OrderStatusPending, nil
	case OrderStatusProcessing:
		return OrderStatusProcessing, nil
	case OrderStatusShipping:
		return OrderStatusShipping, nil
	case OrderStatusDelivered:
		return OrderStatusDelivered, nil
	case OrderStatusCancelled:
		return OrderStatusCancelled, nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

// ParsePaymentMethod maps a string onto the payment enumeration. The method
// is a label persisted on the order, not a transaction.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToLower(s)) {
	case PaymentCOD:
		return PaymentCOD, nil
	case PaymentBanking:
		return PaymentBanking, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// OrderItem is a denormalized snapshot of a cart item at submission time.
type OrderItem struct {
	ID        int     `json:"id"`
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// CustomerInfo is the shipping block captured during checkout.
type CustomerInfo struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Note     string `json:"note,omitempty"`
}

// Order is a row in the "orders" collection. Items, customerInfo,
// paymentMethod and totalAmount are immutable after creation; only the
// status field (and with it updatedAt) ever changes.
type Order struct {
	ID            int           `json:"id"`
	UserID        int           `json:"userId"`
	Items         []OrderItem   `json:"items"`
	CustomerInfo  CustomerInfo  `json:"customerInfo"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	TotalAmount   float64       `json:"totalAmount"`
	Status        OrderStatus   `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
