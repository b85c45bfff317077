// Package natskv keeps slot values in a NATS JetStream key-value bucket.
package natskv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/matchbook/go/internal/storage"
)

// Config holds the connection and bucket settings
type Config struct {
	URL           string        `yaml:"url"`
	Bucket        string        `yaml:"bucket"`
	History       int           `yaml:"history"` // revisions kept per key
	Replicas      int           `yaml:"replicas"`
	MaxReconnects int           `yaml:"max_reconnects"`
	ReconnectWait time.Duration `yaml:"reconnect_wait"`
}

// DefaultConfig returns the settings used when the config file leaves them out
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		Bucket:        "MATCHBOOK",
		History:       5,
		Replicas:      1,
		MaxReconnects: -1, // Infinite
		ReconnectWait: 2 * time.Second,
	}
}

func init() {
	storage.MustRegister("nats", storage.DriverFunc(func(ctx context.Context, settings storage.Settings) (storage.Slot, error) {
		cfg := DefaultConfig()
		if err := settings.Decode(&cfg); err != nil {
			return nil, err
		}
		return Connect(ctx, cfg)
	}))
}

// bucket is the part of jetstream.KeyValue the slot uses
type bucket interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Delete(ctx context.Context, key string, opts ...jetstream.KVDeleteOpt) error
}

// Slot stores values under bucket keys
type Slot struct {
	nc *nats.Conn
	kv bucket
}

// Connect dials NATS and binds to the bucket, creating it if absent
func Connect(ctx context.Context, cfg Config) (*Slot, error) {
	opts := []nats.Option{
		nats.Name("matchbook-slot"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	kv, err := ensureBucket(ctx, js, cfg)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure bucket: %w", err)
	}

	return &Slot{nc: nc, kv: kv}, nil
}

func ensureBucket(ctx context.Context, js jetstream.JetStream, cfg Config) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, cfg.Bucket)
	if err == nil {
		return kv, nil
	}
	if !errors.Is(err, jetstream.ErrBucketNotFound) {
		return nil, err
	}

	kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "Match store snapshots",
		History:     uint8(cfg.History),
		Replicas:    cfg.Replicas,
		Storage:     jetstream.FileStorage,
	})
	if err != nil {
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	log.Info().Str("bucket", cfg.Bucket).Msg("created JetStream key-value bucket")
	return kv, nil
}

func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return entry.Value(), nil
}

func (s *Slot) Put(ctx context.Context, key string, value []byte) error {
	revision, err := s.kv.Put(ctx, key, value)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}

	log.Debug().Str("key", key).Uint64("revision", revision).Msg("slot value stored")
	return nil
}

func (s *Slot) Delete(ctx context.Context, key string) error {
	err := s.kv.Delete(ctx, key)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *Slot) Close() error {
	if s.nc != nil {
		s.nc.Close()
	}
	return nil
}
