// Package postgres holds the bun connection, schema and the helpers shared
// by the bun repositories.
package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*bun.DB, error) {
	connector := pgdriver.NewConnector(pgdriver.WithDSN(dsn))
	sqlDB := sql.OpenDB(connector)
	db := bun.NewDB(sqlDB, pgdialect.New())

	if err := sqlDB.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "postgres.Open.Ping")
	}
	return db, nil
}

// UniqueViolation reports the constraint behind a unique_violation error.
func UniqueViolation(err error) (string, bool) {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) && pgErr.Field('C') == "23505" {
		return pgErr.Field('n'), true
	}
	return "", false
}
