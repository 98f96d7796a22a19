package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/materialhub-backend/pkg/db/models"
	"github.com/angelmondragon/materialhub-backend/pkg/enums"
)

type feedRepository struct {
	db *gorm.DB
}

// NewFeedRepository builds an order feed repository bound to the provided DB.
func NewFeedRepository(db *gorm.DB) FeedRepository {
	return &feedRepository{db: db}
}

func (r *feedRepository) WithTx(tx *gorm.DB) FeedRepository {
	if tx == nil {
		return r
	}
	return &feedRepository{db: tx}
}

func (r *feedRepository) Create(ctx context.Context, record *models.OrderFeedRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *feedRepository) FindByID(ctx context.Context, id string) (*models.OrderFeedRecord, error) {
	var record models.OrderFeedRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *feedRepository) ListMissingOrder(ctx context.Context, cutoff time.Time, limit int) ([]models.OrderFeedRecord, error) {
	var records []models.OrderFeedRecord
	query := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Where("NOT EXISTS (SELECT 1 FROM orders o WHERE o.id = order_feed.id)").
		Order("created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *feedRepository) CancelPlaced(ctx context.Context, ids []string, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.OrderFeedRecord{}).
		Where("id IN ?", ids).
		Where("order_status = ?", enums.OrderStatusPlaced).
		Updates(map[string]any{"order_status": enums.OrderStatusCancelled, "updated_at": at})
	return res.RowsAffected, res.Error
}

func (r *feedRepository) ListStatusDrift(ctx context.Context, cutoff time.Time, limit int) ([]StatusDrift, error) {
	var drift []StatusDrift
	query := r.db.WithContext(ctx).
		Table("order_feed AS f").
		Select("f.id AS id, f.order_status AS feed_status, o.order_status AS order_status").
		Joins("JOIN orders o ON o.id = f.id").
		Where("f.created_at < ?", cutoff).
		Where("o.order_status <> f.order_status").
		Order("f.created_at ASC, f.id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&drift).Error; err != nil {
		return nil, err
	}
	return drift, nil
}

func (r *feedRepository) SyncOrderStatus(ctx context.Context, id string, status enums.OrderStatus, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderFeedRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"order_status": status, "updated_at": at}).Error
}
