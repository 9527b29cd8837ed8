package domain

import "time"

type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusConfirmed      OrderStatus = "CONFIRMED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusReady          OrderStatus = "READY"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

type Order struct {
	ID           uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	RestaurantID uint64      `json:"restaurantId" gorm:"not null;index"`
	LocationID   uint64      `json:"locationId" gorm:"not null;index"`
	Status       OrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`

	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"type:varchar(20);not null;default:'PENDING'"`

	// PaymentRef is generated at checkout and handed to the payment
	// processor; webhook events reference the order through it.
	PaymentRef string `json:"paymentRef" gorm:"type:varchar(36);not null;uniqueIndex"`

	// ExternalPaymentReference is the processor-assigned session id,
	// recorded once when the completed event is applied.
	ExternalPaymentReference string `json:"externalPaymentReference" gorm:"type:varchar(191);index"`

	TotalPrice       int64      `json:"totalPrice" gorm:"not null"`
	EstimatedMinutes *int       `json:"estimatedMinutes"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" gorm:"autoCreateTime;index"`
}

// transitions is the full allowed-edge table: the linear happy path plus
// cancellation from every non-terminal state. DELIVERED and CANCELLED have
// no outgoing edges.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusPreparing, StatusCancelled},
	StatusPreparing:      {StatusReady, StatusCancelled},
	StatusReady:          {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusDelivered, StatusCancelled},
	StatusDelivered:      {},
	StatusCancelled:      {},
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ValidOrderStatus(s OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether an order in this status has left the kitchen
// feed for good.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}
