package leveldb_test

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/dogmatiq/storagekit/driver/leveldb"
	"github.com/dogmatiq/storagekit/kv"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

func TestStore(t *testing.T) {
	kv.RunTests(
		t,
		func(t *testing.T) kv.Store {
			db, err := leveldb.Open(storage.NewMemStorage(), nil)
			if err != nil {
				t.Fatal(err)
			}

			t.Cleanup(func() {
				if err := db.Close(); err != nil {
					t.Error(err)
				}
			})

			return &Store{DB: db}
		},
	)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "db")

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Set(ctx, []byte("<key>"), []byte("<value>")); err != nil {
		t.Fatal(err)
	}

	if err := s.DB.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.DB.Close()

	v, ok, err := s.Get(ctx, []byte("<key>"))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected the value to survive reopening the database")
	}

	if string(v) != "<value>" {
		t.Fatalf("unexpected value: %q", v)
	}
}
