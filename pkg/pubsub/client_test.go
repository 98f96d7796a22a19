package pubsub

import (
	"context"
	"testing"

	"github.com/angelmondragon/materialhub-backend/pkg/config"
)

func TestSubscriptionResourceName(t *testing.T) {
	c := &Client{projectID: "hub-prod"}

	if got := c.subscriptionResourceName("catalog-updates"); got != "projects/hub-prod/subscriptions/catalog-updates" {
		t.Fatalf("unexpected resource name %s", got)
	}
	full := "projects/other/subscriptions/catalog"
	if got := c.subscriptionResourceName(full); got != full {
		t.Fatalf("full resource names should pass through, got %s", got)
	}
	if got := c.subscriptionResourceName("  "); got != "" {
		t.Fatalf("blank names should resolve to empty, got %s", got)
	}
}

func TestSubscriptionNamesSkipsBlank(t *testing.T) {
	if names := subscriptionNames(config.PubSubConfig{}); len(names) != 0 {
		t.Fatalf("expected no names, got %v", names)
	}
	names := subscriptionNames(config.PubSubConfig{CatalogSubscription: " catalog "})
	if len(names) != 1 || names[0] != "catalog" {
		t.Fatalf("unexpected names %v", names)
	}
}

func TestNewClientRequiresProject(t *testing.T) {
	if _, err := NewClient(context.Background(), config.GCPConfig{}, config.PubSubConfig{}, nil); err != errProjectIDRequired {
		t.Fatalf("expected project id error, got %v", err)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.Subscription("x") != nil {
		t.Fatal("nil client should not return a subscriber")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close on nil client: %v", err)
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("expected ping error on nil client")
	}
}
