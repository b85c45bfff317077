package events

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// Fanout delivers each event to every publisher. A failing publisher does not stop the others.
type Fanout struct {
	publishers []Publisher
}

func NewFanout(publishers ...Publisher) *Fanout {
	return &Fanout{publishers: publishers}
}

// Add registers another publisher. Not safe to call concurrently with Publish.
func (f *Fanout) Add(p Publisher) {
	f.publishers = append(f.publishers, p)
}

func (f *Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, event); err != nil {
			log.Error().
				Err(err).
				Str("event_id", event.ID.String()).
				Str("event_type", string(event.Type)).
				Msg("failed to publish store event")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
