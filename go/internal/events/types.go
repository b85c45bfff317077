package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/matchbook/go/internal/models"
)

// EventType represents the kind of store change
type EventType string

const (
	EventTypeMatchAdded   EventType = "MatchAdded"
	EventTypeMatchRemoved EventType = "MatchRemoved"
)

// Event is a store-changed notification. Count is the collection size after the change.
// Events are published after the store lock is released, so concurrent mutations
// may reach subscribers out of Count order.
type Event struct {
	ID        uuid.UUID     `json:"id"`
	Type      EventType     `json:"type"`
	MatchID   string        `json:"match_id"`
	Match     *models.Match `json:"match,omitempty"`
	Count     int           `json:"count"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewEvent builds an event stamped with a fresh id
func NewEvent(eventType EventType, match models.Match, count int, at time.Time) Event {
	m := match
	return Event{
		ID:        uuid.New(),
		Type:      eventType,
		MatchID:   match.ID,
		Match:     &m,
		Count:     count,
		Timestamp: at,
	}
}

// Publisher delivers store-changed events to subscribers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
