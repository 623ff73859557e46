package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	// OrderStatusPendingPayment is the initial state of every gift order.
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	// OrderStatusAwaitingAdmin means payment was asserted and the order was
	// handed off to the admin system. Fulfilment happens upstream.
	OrderStatusAwaitingAdmin OrderStatus = "awaiting_admin"
)

// GiftOrderItem carries the catalog-sourced unit price at order-creation
// time. Client-submitted prices are never trusted.
type GiftOrderItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type GiftOrder struct {
	ID          string          `json:"id"`
	SenderName  string          `json:"senderName"`
	TableNumber int             `json:"tableNumber"`
	Note        string          `json:"note"`
	Items       []GiftOrderItem `json:"items"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	PaidAt      *time.Time      `json:"paidAt,omitempty"`
}
