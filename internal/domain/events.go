package domain

import "time"

type OrderCreatedEvent struct {
	OrderID    uint64    `json:"orderId"`
	LocationID uint64    `json:"locationId"`
	TotalPrice int64     `json:"totalPrice"`
	CreatedAt  time.Time `json:"createdAt"`
}

type StatusChangedEvent struct {
	OrderID uint64      `json:"orderId"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
}

type PaymentReconciledEvent struct {
	OrderID       uint64        `json:"orderId"`
	EventID       string        `json:"eventId"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}
