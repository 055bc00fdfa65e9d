// Package events publishes import notifications to a message broker.
package events

import (
	"context"
	"time"
)

const TypeEmissionsImported = "emissions.imported"

// EmissionsImported is emitted after an upload stored at least one record.
type EmissionsImported struct {
	ID             string    `json:"id"`
	EventType      string    `json:"event_type"`
	OrganizationID int64     `json:"organization_id"`
	Imported       int       `json:"imported"`
	Rejected       int       `json:"rejected"`
	FirstDate      time.Time `json:"first_date"`
	LastDate       time.Time `json:"last_date"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishImported(ctx context.Context, event EmissionsImported) error
	Close() error
}

// NopPublisher discards events. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishImported(context.Context, EmissionsImported) error { return nil }

func (NopPublisher) Close() error { return nil }
