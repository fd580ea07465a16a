package postgres

import (
	"testing"

	"github.com/dogmatiq/storagekit/internal/test"
	"github.com/dogmatiq/storagekit/kv"
)

func TestRangeQuery(t *testing.T) {
	t.Parallel()

	query, args := rangeQuery("<store>", []byte("a"), []byte("b"), kv.Descending)

	test.Expect(
		t,
		"unexpected query",
		query,
		`SELECT
			key,
			value
		FROM storagekit.kv
		WHERE store = $1
		AND key >= $2
		AND key < $3
		ORDER BY key DESC`,
	)

	test.Expect(
		t,
		"unexpected arguments",
		args,
		[]any{"<store>", []byte("a"), []byte("b")},
	)

	query, args = rangeQuery("<store>", nil, []byte("b"), kv.Ascending)

	test.Expect(
		t,
		"unexpected query",
		query,
		`SELECT
			key,
			value
		FROM storagekit.kv
		WHERE store = $1
		AND key < $2
		ORDER BY key ASC`,
	)

	test.Expect(
		t,
		"unexpected arguments",
		args,
		[]any{"<store>", []byte("b")},
	)
}

func TestSetQuery(t *testing.T) {
	t.Parallel()

	test.Expect(
		t,
		"unexpected query",
		setQuery,
		`INSERT INTO storagekit.kv (
	store,
	key,
	value
) VALUES (
	$1, $2, $3
) ON CONFLICT (store, key) DO UPDATE SET
	value = EXCLUDED.value`,
	)
}
