package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/materialhub-backend/pkg/db/models"
	"github.com/angelmondragon/materialhub-backend/pkg/enums"
)

// Repository persists primary order records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	// ListMissingFeed returns placed orders created before cutoff that have no feed record.
	ListMissingFeed(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
	// CancelPlaced moves the given orders to cancelled. Only rows still in
	// placed are touched; the number of updated rows is returned.
	CancelPlaced(ctx context.Context, ids []string, at time.Time) (int64, error)
}

// FeedRepository persists order feed records.
type FeedRepository interface {
	WithTx(tx *gorm.DB) FeedRepository
	Create(ctx context.Context, record *models.OrderFeedRecord) error
	FindByID(ctx context.Context, id string) (*models.OrderFeedRecord, error)
	// ListMissingOrder returns feed records created before cutoff whose order is absent.
	ListMissingOrder(ctx context.Context, cutoff time.Time, limit int) ([]models.OrderFeedRecord, error)
	CancelPlaced(ctx context.Context, ids []string, at time.Time) (int64, error)
	// ListStatusDrift returns feed records created before cutoff whose order
	// carries a different order status.
	ListStatusDrift(ctx context.Context, cutoff time.Time, limit int) ([]StatusDrift, error)
	SyncOrderStatus(ctx context.Context, id string, status enums.OrderStatus, at time.Time) error
}

// StatusDrift pairs a feed record id with the status of its order.
type StatusDrift struct {
	ID          string
	FeedStatus  enums.OrderStatus
	OrderStatus enums.OrderStatus
}
