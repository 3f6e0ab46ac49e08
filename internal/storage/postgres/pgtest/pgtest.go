// Package pgtest runs a disposable postgres container for repository tests.
package pgtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	pgstore "chatz/internal/storage/postgres"
)

// Start launches postgres and migrates the schema. Callers skip their
// tests when it fails, which is the normal case without a container
// runtime.
func Start(ctx context.Context) (db *bun.DB, stop func(), err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("container runtime unavailable: %v", r)
		}
	}()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("chatz"),
		postgres.WithUsername("chatz"),
		postgres.WithPassword("password"),
		testcontainers.WithEnv(map[string]string{"TZ": "UTC"}),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, nil, err
	}
	terminate := func() { _ = container.Terminate(context.Background()) }

	connStr, err := container.ConnectionString(ctx, "sslmode=disable", "application_name=test")
	if err != nil {
		terminate()
		return nil, nil, err
	}

	db, err = pgstore.Open(ctx, connStr)
	if err != nil {
		terminate()
		return nil, nil, err
	}
	if err := pgstore.Migrate(ctx, db); err != nil {
		db.Close()
		terminate()
		return nil, nil, err
	}

	return db, func() {
		db.Close()
		terminate()
	}, nil
}

// Reset empties every table and restarts the sequences.
func Reset(t *testing.T, db *bun.DB) {
	t.Helper()
	if db == nil {
		t.Skip("postgres container not available")
	}
	ctx := context.Background()
	stmts := []string{
		`TRUNCATE TABLE channel_members, encrypted_messages, messages, channels, users RESTART IDENTITY CASCADE`,
		`ALTER SEQUENCE ` + pgstore.MessageIDSequence + ` RESTART WITH 1`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			t.Fatalf("reset: %v", err)
		}
	}
	if err := pgstore.ReserveGeneralID(ctx, db); err != nil {
		t.Fatalf("reset: %v", err)
	}
}
