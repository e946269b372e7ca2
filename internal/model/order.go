package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fixed six-member lifecycle enum. The values are totally
// ordered for display; the transition policy lives in the order service.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusReceived  OrderStatus = "RECEIVED"
	StatusPrinting  OrderStatus = "PRINTING"
	StatusDone      OrderStatus = "DONE"
	StatusShipping  OrderStatus = "SHIPPING"
	StatusDelivered OrderStatus = "DELIVERED"
)

// OrderStatuses lists every legal status in display order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusReceived,
	StatusPrinting,
	StatusDone,
	StatusShipping,
	StatusDelivered,
}

// ParseOrderStatus validates a raw status token against the enum.
// Anything outside the six members is rejected.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusReceived, StatusPrinting, StatusDone, StatusShipping, StatusDelivered:
		return OrderStatus(s), nil
	default:
		return "", invalid("status", "unknown order status")
	}
}

// Order is a user's submitted print job. It owns exactly one configuration,
// zero or more uploaded files and one simulated payment; all of them share
// the order's lifetime.
type Order struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Configuration *PrintConfiguration `json:"configuration"`
	Status        OrderStatus         `json:"status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	PaymentMethod string              `json:"payment_method,omitempty"`
	Files         []File              `json:"files,omitempty"`
	Payment       *Payment            `json:"payment,omitempty"`
	Deleted       bool                `json:"deleted"`
	CreatedAt     time.Time           `json:"created_at"`
}
