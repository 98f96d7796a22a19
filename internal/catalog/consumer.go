package catalog

import (
	"context"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/angelmondragon/materialhub-backend/pkg/logger"
)

type refresher interface {
	Refresh(ctx context.Context) error
}

// Consumer rebuilds the catalog whenever the vendor directory publishes a change.
// Messages carry no payload the consumer relies on; each one triggers a full reload.
type Consumer struct {
	feed         refresher
	subscription *pubsub.Subscriber
	logg         *logger.Logger
}

func NewConsumer(feed refresher, subscription *pubsub.Subscriber, logg *logger.Logger) (*Consumer, error) {
	if feed == nil {
		return nil, fmt.Errorf("catalog feed required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("catalog subscription required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{feed: feed, subscription: subscription, logg: logg}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg.ID, msg.Attributes)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, messageID string, attributes map[string]string) processResult {
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": messageID,
		"event_type": attributes["event_type"],
	})
	if err := c.feed.Refresh(ctx); err != nil {
		c.logg.Error(logCtx, "catalog refresh failed", err)
		return processResult{nack: true}
	}
	c.logg.Info(logCtx, "catalog refreshed from change feed")
	return processResult{ack: true}
}
