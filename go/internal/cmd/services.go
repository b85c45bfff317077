package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/matchbook/go/internal/events"
	"github.com/mcdev12/matchbook/go/internal/gateway"
	"github.com/mcdev12/matchbook/go/internal/matches"
	"github.com/mcdev12/matchbook/go/internal/storage"
)

type Services struct {
	Matches   *matches.Service
	App       *matches.App
	WebSocket *gateway.WebSocketHandler
}

func setupServices(ctx context.Context, config *Config, slot storage.Slot, publisher events.Publisher, cm *gateway.ConnectionManager) (*Services, error) {
	// Slot → Repository → App → Service
	loc, err := config.location()
	if err != nil {
		return nil, err
	}
	slots, err := config.slotPolicy()
	if err != nil {
		return nil, err
	}
	presenter, err := matches.NewPresenter(config.Store.Language, loc)
	if err != nil {
		return nil, err
	}

	repo := matches.NewRepository(slot, loc)
	app := matches.NewApp(repo, publisher, matches.Config{
		Location: loc,
		Slots:    slots,
	})
	if err := app.Initialize(ctx); err != nil {
		var loadErr *matches.LoadError
		var persistErr *matches.PersistenceError
		switch {
		case errors.As(err, &loadErr):
			log.Warn().Err(err).Msg("stored matches could not be decoded, starting empty")
		case errors.As(err, &persistErr):
			log.Warn().Err(err).Msg("storage unreachable, serving in memory only")
		default:
			return nil, fmt.Errorf("failed to initialize match store: %w", err)
		}
	}

	return &Services{
		Matches:   matches.NewService(app, presenter),
		App:       app,
		WebSocket: gateway.NewWebSocketHandler(cm),
	}, nil
}

// setupEvents fans store events out to the gateway and, when enabled, NATS.
// The returned func closes the NATS connection.
func setupEvents(config *Config, cm *gateway.ConnectionManager) (*events.Fanout, func(), error) {
	fanout := events.NewFanout(cm)
	if !config.Events.NATS.Enabled {
		return fanout, func() {}, nil
	}

	natsConfig := events.DefaultNATSConfig()
	if config.Events.NATS.URL != "" {
		natsConfig.URL = config.Events.NATS.URL
	}
	if config.Events.NATS.SubjectPrefix != "" {
		natsConfig.SubjectPrefix = config.Events.NATS.SubjectPrefix
	}

	publisher, err := events.NewNATSPublisher(natsConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create NATS event publisher: %w", err)
	}
	fanout.Add(publisher)

	return fanout, func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close NATS event publisher")
		}
	}, nil
}
