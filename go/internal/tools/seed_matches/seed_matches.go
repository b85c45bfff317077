package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcdev12/matchbook/go/internal/dbconfig"
	"github.com/mcdev12/matchbook/go/internal/matches"
)

func main() {
	path := flag.String("file", "go/internal/assets/matches.json", "JSON snapshot to load")
	zone := flag.String("location", "America/Sao_Paulo", "zone for plain yyyy-MM-dd dates")
	replace := flag.Bool("replace", false, "overwrite an existing snapshot")
	flag.Parse()

	loc, err := time.LoadLocation(*zone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load location: %v\n", err)
		os.Exit(1)
	}

	// 1) Load and normalize the JSON snapshot
	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	seed, err := matches.DecodeSnapshot(data, loc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode snapshot: %v\n", err)
		os.Exit(1)
	}
	normalized, err := matches.EncodeSnapshot(seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode snapshot: %v\n", err)
		os.Exit(1)
	}

	// 2) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 3) Upsert the slot row
	query := `
        INSERT INTO match_slots (key, value, updated_at)
        VALUES ($1, $2::jsonb, now())
        ON CONFLICT (key) DO NOTHING
    `
	if *replace {
		query = `
        INSERT INTO match_slots (key, value, updated_at)
        VALUES ($1, $2::jsonb, now())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
    `
	}

	cmdTag, err := pool.Exec(context.Background(), query, matches.SnapshotKey, string(normalized))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing snapshot: %v\n", err)
		os.Exit(1)
	}

	// 4) Print summary
	status := "written"
	if cmdTag.RowsAffected() == 0 {
		status = "skipped, snapshot already present (use -replace)"
	}
	fmt.Printf("Matches seed complete: %d matches, %s\n", len(seed), status)
}
