// Package firestore keeps slot values as documents of a Firestore collection.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mcdev12/matchbook/go/internal/storage"
)

// Config holds firestore driver settings
type Config struct {
	ProjectID       string `yaml:"project_id"`
	Collection      string `yaml:"collection"`
	CredentialsFile string `yaml:"credentials_file"`
}

func init() {
	storage.MustRegister("firestore", storage.DriverFunc(func(ctx context.Context, settings storage.Settings) (storage.Slot, error) {
		cfg := Config{Collection: "slots"}
		if err := settings.Decode(&cfg); err != nil {
			return nil, err
		}
		return Open(ctx, cfg)
	}))
}

type slotDoc struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt,serverTimestamp"`
}

// Slot implements storage.Slot on a Firestore collection
type Slot struct {
	client     *firestore.Client
	collection string
}

// Open creates a Firestore client for the project
func Open(ctx context.Context, cfg Config) (*Slot, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("project_id is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	return &Slot{client: client, collection: cfg.Collection}, nil
}

func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	snap, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", key, err)
	}

	var doc slotDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", key, err)
	}
	return []byte(doc.Value), nil
}

func (s *Slot) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.client.Collection(s.collection).Doc(key).Set(ctx, slotDoc{Value: string(value)})
	if err != nil {
		return fmt.Errorf("failed to set document %s: %w", key, err)
	}
	return nil
}

func (s *Slot) Delete(ctx context.Context, key string) error {
	if _, err := s.client.Collection(s.collection).Doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", key, err)
	}
	return nil
}

func (s *Slot) Close() error {
	return s.client.Close()
}
