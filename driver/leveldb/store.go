// Package leveldb provides an implementation of [kv.Store] backed by a LevelDB
// database.
package leveldb

import (
	"context"
	"errors"

	"github.com/dogmatiq/storagekit/kv"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/exp/slices"
)

// Store is an implementation of [kv.Store] that stores key/value pairs in a
// LevelDB database.
type Store struct {
	DB *leveldb.DB

	// WriteOptions are passed to every write. If nil, writes are not synced
	// to disk before returning.
	WriteOptions *opt.WriteOptions
}

// Open opens (or creates) the LevelDB database in the directory at path.
//
// The caller is responsible for closing s.DB.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(
		path,
		&opt.Options{
			ErrorIfExist:   false,
			ErrorIfMissing: false,
		},
	)
	if err != nil {
		return nil, err
	}

	return &Store{DB: db}, nil
}

// Get returns the value associated with k.
func (s *Store) Get(ctx context.Context, k []byte) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	v, err := s.DB.Get(k, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
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
	if err := ctx.Err(); err != nil {
		return false, err
	}

	return s.DB.Has(k, nil)
}

// Set associates a value with k.
func (s *Store) Set(ctx context.Context, k, v []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.DB.Put(k, v, s.WriteOptions)
}

// Delete removes k from the store.
func (s *Store) Delete(ctx context.Context, k []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.DB.Delete(k, s.WriteOptions)
}

// Range invokes fn for each key in [start, end).
func (s *Store) Range(
	ctx context.Context,
	start, end []byte,
	o kv.Order,
	fn kv.RangeFunc,
) error {
	iter := s.DB.NewIterator(
		&util.Range{
			Start: start, // included
			Limit: end,   // excluded
		},
		nil,
	)
	defer iter.Release()

	next := iter.Next
	ok := iter.First()

	if o == kv.Descending {
		next = iter.Prev
		ok = iter.Last()
	}

	for ; ok; ok = next() {
		if err := ctx.Err(); err != nil {
			return err
		}

		// The iterator's key and value are only valid until it moves.
		k := slices.Clone(iter.Key())
		v := slices.Clone(iter.Value())
		if v == nil {
			v = []byte{}
		}

		cont, err := fn(ctx, k, v)
		if !cont || err != nil {
			return err
		}
	}

	return iter.Error()
}
