package events

import (
	"context"
	"time"
)

// Type classifies what happened to an index.
type Type string

const (
	// TypeIndex signals that documents were written or updated.
	TypeIndex Type = "index"
	// TypeDelete signals that documents were removed.
	TypeDelete Type = "delete"
	// TypeInvalidate signals that cached results for the index are stale.
	TypeInvalidate Type = "invalidate"
)

// Event describes one change to a search index. Subscribers use it to drop
// stale cache entries on other nodes.
type Event struct {
	Type  Type      `json:"type"`
	Index string    `json:"index"`
	IDs   []string  `json:"ids,omitempty"`
	Tags  []string  `json:"tags,omitempty"`
	At    time.Time `json:"at"`
}

// Publisher delivers index-change events to a message broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Handler processes one received event. Returning an error requeues the
// message where the transport supports it.
type Handler func(ctx context.Context, event Event) error
