// Package pubsub distributes model lifecycle events to web clients
// over Server-Sent Events. Topics buffer recent events so a client
// connecting late still learns the current model state.
package pubsub

import (
	"context"
	"encoding/json"
)

// Event is one published message on a topic.
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"` // e.g. "loading", "ready", "invalid"
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"` // per-topic ordering
}

// Subscription delivers a topic's events to one client.
type Subscription interface {
	Topic() string
	Events() <-chan Event
	Close() error
}

// Publisher manages subscriptions and event fan-out.
type Publisher interface {
	// Subscribe registers for a topic's events. Cancelling the
	// context closes the subscription.
	Subscribe(ctx context.Context, topic string) (Subscription, error)
	Publish(topic string, eventType string, data interface{}) error
	Close() error
}

// ModelStatus is the payload on the model_status topic.
type ModelStatus struct {
	State       string `json:"state"` // loading, ready, invalid
	Message     string `json:"message"`
	Gates       int    `json:"gates"`
	BasicEvents int    `json:"basic_events"`
	HouseEvents int    `json:"house_events"`
}
