package postgres

import (
	"context"
	"database/sql"
)

// CreateSchema creates the PostgreSQL schema elements required by [Store].
func CreateSchema(
	ctx context.Context,
	db *sql.DB,
) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // nolint:errcheck

	if _, err := tx.ExecContext(ctx, `CREATE SCHEMA IF NOT EXISTS storagekit`); err != nil {
		return err
	}

	// Keys are compared byte-wise, which matches the ordering of
	// [kv.Reader.Range].
	if _, err := tx.ExecContext(
		ctx,
		`CREATE TABLE IF NOT EXISTS storagekit.kv (
			store TEXT NOT NULL,
			key   BYTEA NOT NULL,
			value BYTEA NOT NULL,

			PRIMARY KEY (store, key)
		)`,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// DropSchema removes the PostgreSQL schema elements created by
// [CreateSchema].
func DropSchema(
	ctx context.Context,
	db *sql.DB,
) error {
	_, err := db.ExecContext(ctx, `DROP SCHEMA IF EXISTS storagekit CASCADE`)
	return err
}
