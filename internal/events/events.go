// Package events publishes inventory notifications to an external bus.
package events

import (
	"context"
	"encoding/json"
	"log"
)

const TopicLowStock = "inventory/low_stock"

// LowStock is published when a write leaves a product at or below its threshold.
type LowStock struct {
	ProductID uint   `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	StoreID   uint   `json:"store_id"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
	Close()
}

// LogPublisher writes events to the process log.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	log.Printf("event %s: %s", topic, body)
	return nil
}

func (LogPublisher) Close() {}
