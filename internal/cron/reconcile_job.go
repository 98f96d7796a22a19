package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/materialhub-backend/internal/orders"
	"github.com/angelmondragon/materialhub-backend/pkg/db/models"
	"github.com/angelmondragon/materialhub-backend/pkg/enums"
	"github.com/angelmondragon/materialhub-backend/pkg/logger"
)

const (
	defaultReconcileGrace = 10 * time.Minute
	defaultReconcileBatch = 200
)

// OrderFeedReconcileJobParams configure the order feed reconciliation sweep.
type OrderFeedReconcileJobParams struct {
	Logger    *logger.Logger
	Orders    orphanOrderStore
	Feed      feedReconciler
	Grace     time.Duration
	BatchSize int
}

type orphanOrderStore interface {
	ListMissingFeed(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error)
	CancelPlaced(ctx context.Context, ids []string, at time.Time) (int64, error)
}

type feedReconciler interface {
	ListMissingOrder(ctx context.Context, cutoff time.Time, limit int) ([]models.OrderFeedRecord, error)
	ListStatusDrift(ctx context.Context, cutoff time.Time, limit int) ([]orders.StatusDrift, error)
	SyncOrderStatus(ctx context.Context, id string, status enums.OrderStatus, at time.Time) error
}

// NewOrderFeedReconcileJob builds the sweep over half-written orders.
// A placed order without a feed record never completed checkout: the
// operator was told it failed, so it is cancelled rather than completed.
// A feed record whose status disagrees with its order is brought back in
// line, and a feed record without an order is logged for review.
func NewOrderFeedReconcileJob(params OrderFeedReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Feed == nil {
		return nil, fmt.Errorf("order feed repository required")
	}
	grace := params.Grace
	if grace <= 0 {
		grace = defaultReconcileGrace
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultReconcileBatch
	}
	return &orderFeedReconcileJob{
		logg:   params.Logger,
		orders: params.Orders,
		feed:   params.Feed,
		grace:  grace,
		batch:  batch,
		now:    time.Now,
	}, nil
}

type orderFeedReconcileJob struct {
	logg   *logger.Logger
	orders orphanOrderStore
	feed   feedReconciler
	grace  time.Duration
	batch  int
	now    func() time.Time
}

func (j *orderFeedReconcileJob) Name() string { return "order-feed-reconcile" }

func (j *orderFeedReconcileJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	cutoff := now.Add(-j.grace)
	var errs []error
	if err := j.cancelOrphanOrders(ctx, cutoff, now); err != nil {
		errs = append(errs, err)
	}
	if err := j.resolveStatusDrift(ctx, cutoff, now); err != nil {
		errs = append(errs, err)
	}
	if err := j.reportFeedOnly(ctx, cutoff); err != nil {
		errs = append(errs, err)
	}
	return multierr.Combine(errs...)
}

func (j *orderFeedReconcileJob) cancelOrphanOrders(ctx context.Context, cutoff, now time.Time) error {
	missing, err := j.orders.ListMissingFeed(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("query orders without feed record: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}

	ids := make([]string, 0, len(missing))
	for _, order := range missing {
		ids = append(ids, order.ID)
	}
	cancelled, err := j.orders.CancelPlaced(ctx, ids, now)
	if err != nil {
		return fmt.Errorf("cancel orders without feed record: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"order_ids": ids,
		"found":     len(missing),
		"cancelled": cancelled,
	})
	j.logg.Warn(logCtx, "unconfirmed orders cancelled")
	return nil
}

func (j *orderFeedReconcileJob) resolveStatusDrift(ctx context.Context, cutoff, now time.Time) error {
	drift, err := j.feed.ListStatusDrift(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("query feed status drift: %w", err)
	}

	var errs []error
	for _, d := range drift {
		recordCtx := j.logg.WithFields(j.logg.WithOrderID(ctx, d.ID), map[string]any{
			"feed_status":  d.FeedStatus.String(),
			"order_status": d.OrderStatus.String(),
		})
		// A cancelled feed record next to a placed order is an abandoned
		// checkout whose order-side cancel did not land.
		if d.FeedStatus == enums.OrderStatusCancelled && d.OrderStatus == enums.OrderStatusPlaced {
			if _, err := j.orders.CancelPlaced(ctx, []string{d.ID}, now); err != nil {
				errs = append(errs, fmt.Errorf("cancel abandoned order %s: %w", d.ID, err))
				continue
			}
			j.logg.Warn(recordCtx, "abandoned order cancelled")
			continue
		}
		if err := j.feed.SyncOrderStatus(ctx, d.ID, d.OrderStatus, now); err != nil {
			errs = append(errs, fmt.Errorf("sync feed status %s: %w", d.ID, err))
			continue
		}
		j.logg.Warn(recordCtx, "order feed status synced to order")
	}
	return multierr.Combine(errs...)
}

func (j *orderFeedReconcileJob) reportFeedOnly(ctx context.Context, cutoff time.Time) error {
	records, err := j.feed.ListMissingOrder(ctx, cutoff, j.batch)
	if err != nil {
		return fmt.Errorf("query feed records without order: %w", err)
	}
	for _, record := range records {
		j.logg.Warn(j.logg.WithOrderID(ctx, record.ID), "order feed record has no order; needs manual review")
	}
	if len(records) > 0 {
		j.logg.Info(j.logg.WithField(ctx, "found", len(records)), "feed-only orphans reported")
	}
	return nil
}
