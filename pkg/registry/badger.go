package registry

import (
	"context"
	"encoding/json"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"
)

// ============================================================================
// Database Key Namespace
// ============================================================================
//
// The registry is a flat key-value catalogue, so a single prefix is enough
// to separate it from any other data a caller might store in the same
// badger directory:
//
// Data Type   Prefix   Key Format           Value Type
// ============================================================
// Archive     "a:"     a:<path>             Record (JSON)

const prefixArchive = "a:"

func keyArchive(path string) []byte {
	return []byte(prefixArchive + path)
}

// badgerRegistry is a Registry backed by an embedded badger database,
// grounded on the same single-writer transaction and prefixed-key
// conventions the metadata store uses for file records.
type badgerRegistry struct {
	db *badgerdb.DB
}

// NewBadger opens (creating if necessary) a badger-backed Registry rooted
// at dir.
func NewBadger(dir string) (Registry, error) {
	opts := badgerdb.DefaultOptions(dir).WithLogger(nil)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry database: %w", err)
	}

	return &badgerRegistry{db: db}, nil
}

func (r *badgerRegistry) Put(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	return r.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(keyArchive(rec.Path), data)
	})
}

func (r *badgerRegistry) Get(ctx context.Context, path string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	var rec Record
	err := r.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(keyArchive(path))
		if err == badgerdb.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return Record{}, err
	}

	return rec, nil
}

func (r *badgerRegistry) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return r.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(keyArchive(path))
	})
}

func (r *badgerRegistry) List(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []Record

	err := r.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(prefixArchive)
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var rec Record
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list registry records: %w", err)
	}

	return records, nil
}

func (r *badgerRegistry) Close() error {
	return r.db.Close()
}
