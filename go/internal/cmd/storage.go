package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/matchbook/go/internal/storage"
	_ "github.com/mcdev12/matchbook/go/internal/storage/dynamo"
	_ "github.com/mcdev12/matchbook/go/internal/storage/file"
	_ "github.com/mcdev12/matchbook/go/internal/storage/firestore"
	_ "github.com/mcdev12/matchbook/go/internal/storage/memory"
	_ "github.com/mcdev12/matchbook/go/internal/storage/natskv"
	_ "github.com/mcdev12/matchbook/go/internal/storage/postgres"
	_ "github.com/mcdev12/matchbook/go/internal/storage/s3slot"
)

func setupStorage(ctx context.Context, config *Config) (storage.Slot, error) {
	slot, err := storage.Open(ctx, config.Storage.Driver, config.driverSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", config.Storage.Driver, err)
	}

	log.Info().
		Str("driver", config.Storage.Driver).
		Strs("available", storage.Drivers()).
		Msg("storage ready")
	return slot, nil
}
