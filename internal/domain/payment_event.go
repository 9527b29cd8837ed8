package domain

// Payment event kinds as delivered by the processor webhook. The taxonomy
// may grow on the processor side; unknown kinds must be acknowledged
// without any state change.
const (
	EventCompleted = "checkout.completed"
	EventExpired   = "checkout.expired"
	EventRefunded  = "charge.refunded"
)

// PaymentEvent is the verified envelope handed to the reconciliation
// processor. EventID is processor-issued and used only for audit logging;
// idempotency is derived from the order's current payment status.
type PaymentEvent struct {
	EventID    string `json:"eventId"`
	Kind       string `json:"kind"`
	PaymentRef string `json:"paymentRef"`
	SessionID  string `json:"sessionId"`
	Amount     int64  `json:"amount"`
}
