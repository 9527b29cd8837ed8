package infra

import "context"

type ProcessorClientInterface interface {
	CreateCheckoutSession(ctx context.Context, paymentRef string, amount int64) (*CheckoutSession, error)
}

var _ ProcessorClientInterface = (*ProcessorClient)(nil)
