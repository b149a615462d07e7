package notifications

import "context"

type StoreAPI interface {
	CreateDelivery(ctx context.Context, delivery Delivery) error
	ListDeliveries(ctx context.Context, entityID string, limit, offset int) ([]Delivery, error)
}
