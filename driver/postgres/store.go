// Package postgres provides an implementation of [kv.Store] backed by a
// PostgreSQL table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dogmatiq/storagekit/kv"
)

// Store is an implementation of [kv.Store] that stores key/value pairs in a
// PostgreSQL database.
//
// Many stores can share the same table. Each is identified by its name.
type Store struct {
	DB   *sql.DB
	Name string
}

// Get returns the value associated with k.
func (s *Store) Get(ctx context.Context, k []byte) ([]byte, bool, error) {
	row := s.DB.QueryRowContext(
		ctx,
		`SELECT
			value
		FROM storagekit.kv
		WHERE store = $1
		AND key = $2`,
		s.Name,
		k,
	)

	var v []byte
	err := row.Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if v == nil {
		v = []byte{}
	}

	return v, true, nil
}

// Has returns true if k is present in the store.
func (s *Store) Has(ctx context.Context, k []byte) (bool, error) {
	row := s.DB.QueryRowContext(
		ctx,
		`SELECT
			1
		FROM storagekit.kv
		WHERE store = $1
		AND key = $2`,
		s.Name,
		k,
	)

	var x int
	err := row.Scan(&x)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}

	return err == nil, err
}

// Set associates a value with k.
func (s *Store) Set(ctx context.Context, k, v []byte) error {
	if v == nil {
		v = []byte{}
	}

	_, err := s.DB.ExecContext(
		ctx,
		setQuery,
		s.Name,
		k,
		v,
	)

	return err
}

// setQuery inserts or replaces the value of a key.
const setQuery = `INSERT INTO storagekit.kv (
	store,
	key,
	value
) VALUES (
	$1, $2, $3
) ON CONFLICT (store, key) DO UPDATE SET
	value = EXCLUDED.value`

// Delete removes k from the store.
func (s *Store) Delete(ctx context.Context, k []byte) error {
	_, err := s.DB.ExecContext(
		ctx,
		`DELETE FROM storagekit.kv
		WHERE store = $1
		AND key = $2`,
		s.Name,
		k,
	)

	return err
}

// Range invokes fn for each key in [start, end).
func (s *Store) Range(
	ctx context.Context,
	start, end []byte,
	o kv.Order,
	fn kv.RangeFunc,
) error {
	query, args := rangeQuery(s.Name, start, end, o)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var k, v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return err
		}

		if v == nil {
			v = []byte{}
		}

		ok, err := fn(ctx, k, v)
		if !ok || err != nil {
			return err
		}
	}

	return rows.Err()
}

// rangeQuery returns the SQL query and arguments that select the pairs in
// [start, end) in the given order.
func rangeQuery(name string, start, end []byte, o kv.Order) (string, []any) {
	var q strings.Builder
	args := []any{name}

	q.WriteString(`SELECT
			key,
			value
		FROM storagekit.kv
		WHERE store = $1`)

	if start != nil {
		args = append(args, start)
		fmt.Fprintf(&q, "\n\t\tAND key >= $%d", len(args))
	}

	if end != nil {
		args = append(args, end)
		fmt.Fprintf(&q, "\n\t\tAND key < $%d", len(args))
	}

	if o == kv.Descending {
		q.WriteString("\n\t\tORDER BY key DESC")
	} else {
		q.WriteString("\n\t\tORDER BY key ASC")
	}

	return q.String(), args
}
