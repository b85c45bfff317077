// Package postgres keeps slot values in a jsonb column of the match_slots table.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"

	"github.com/mcdev12/matchbook/go/internal/dbconfig"
	"github.com/mcdev12/matchbook/go/internal/storage"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config holds postgres driver settings
type Config struct {
	DSN     string `yaml:"dsn"` // falls back to DATABASE_URL / DB_* env
	Migrate bool   `yaml:"migrate"`
}

func init() {
	storage.MustRegister("postgres", storage.DriverFunc(func(ctx context.Context, settings storage.Settings) (storage.Slot, error) {
		cfg := Config{Migrate: true}
		if err := settings.Decode(&cfg); err != nil {
			return nil, err
		}
		return Open(ctx, cfg)
	}))
}

// Slot implements storage.Slot on top of Postgres
type Slot struct {
	db *sqlx.DB
}

// New wraps an existing connection; the match_slots table must exist
func New(db *sqlx.DB) *Slot {
	return &Slot{db: db}
}

// Open connects, pings, and optionally runs the embedded migrations
func Open(ctx context.Context, cfg Config) (*Slot, error) {
	dbCfg := dbconfig.NewConfigFromEnv()
	dsn := cfg.DSN
	if dsn == "" {
		dsn = dbCfg.DSN()
	}

	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Migrate {
		if err := Migrate(db.DB); err != nil {
			db.Close()
			return nil, err
		}
	}

	log.Info().Str("driver", "postgres").Msg("connected to slot database")
	return New(db), nil
}

// Migrate applies the embedded schema migrations
func Migrate(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

const (
	getSlotQuery = `SELECT value FROM match_slots WHERE key = $1`

	upsertSlotQuery = `
		INSERT INTO match_slots (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`

	deleteSlotQuery = `DELETE FROM match_slots WHERE key = $1`
)

func (s *Slot) Get(ctx context.Context, key string) ([]byte, error) {
	var value pqtype.NullRawMessage
	err := s.db.GetContext(ctx, &value, getSlotQuery, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot %s: %w", key, err)
	}
	if !value.Valid {
		return nil, storage.ErrNotFound
	}
	return value.RawMessage, nil
}

// Put requires value to be valid JSON because the column is jsonb
func (s *Slot) Put(ctx context.Context, key string, value []byte) error {
	raw := pqtype.NullRawMessage{RawMessage: value, Valid: len(value) > 0}
	if _, err := s.db.ExecContext(ctx, upsertSlotQuery, key, raw); err != nil {
		return fmt.Errorf("failed to put slot %s: %w", key, err)
	}
	return nil
}

func (s *Slot) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, deleteSlotQuery, key); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", key, err)
	}
	return nil
}

func (s *Slot) Close() error {
	return s.db.Close()
}
