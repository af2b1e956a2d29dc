// Package storage provides the BadgerDB-backed document store. Documents
// are JSON-encoded under "{collection}/{key}" so that one prefix scan
// covers a whole collection.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"chatkit/contract"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type BadgerStore struct {
	db  *badger.DB
	log *slog.Logger
}

func NewBadgerStore(db *badger.DB, log *slog.Logger) *BadgerStore {
	return &BadgerStore{db: db, log: log}
}

func documentKey(collection, key string) []byte {
	return []byte(collection + "/" + key)
}

func (s *BadgerStore) Get(ctx context.Context, collection, key string) (contract.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var doc contract.Document
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(documentKey(collection, key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return doc, true, nil
}

// Set writes the document. With merge, fields absent from the update keep
// their stored value; a field explicitly present with a nil value is
// stored as null, which is how callers reset a field.
func (s *BadgerStore) Set(ctx context.Context, collection, key string, fields contract.Document, merge bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		doc := contract.Document{}
		if merge {
			item, err := txn.Get(documentKey(collection, key))
			switch err {
			case nil:
				if err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &doc)
				}); err != nil {
					return err
				}
			case badger.ErrKeyNotFound:
				// merge into nothing is a plain write
			default:
				return err
			}
		}
		for k, v := range fields {
			doc[k] = v
		}
		bytes, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		return txn.Set(documentKey(collection, key), bytes)
	})
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, key, err)
	}
	return nil
}

// Find scans the collection prefix, filters in memory, then orders and
// paginates. Collections here are small enough (channels per user, one
// conversation's messages) that a scan beats maintaining secondary
// indexes in lockstep.
func (s *BadgerStore) Find(ctx context.Context, collection string, q contract.Query) ([]contract.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var records []contract.Record
	prefix := []byte(collection + "/")
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := strings.TrimPrefix(string(item.Key()), collection+"/")
			err := item.Value(func(val []byte) error {
				var doc contract.Document
				if err := json.Unmarshal(val, &doc); err != nil {
					s.log.Warn("skipping undecodable document", "collection", collection, "key", key, "error", err)
					return nil
				}
				if matches(doc, q) {
					records = append(records, contract.Record{Key: key, Fields: doc})
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}

	if q.OrderBy != "" {
		slices.SortStableFunc(records, func(a, b contract.Record) int {
			c := compareValues(a.Fields[q.OrderBy], b.Fields[q.OrderBy])
			if q.Descending {
				return -c
			}
			return c
		})
	}
	if q.StartAfter != "" {
		if i := slices.IndexFunc(records, func(r contract.Record) bool {
			return r.Key == q.StartAfter
		}); i >= 0 {
			records = records[i+1:]
		}
	}
	if q.Limit > 0 && len(records) > q.Limit {
		records = records[:q.Limit]
	}
	return records, nil
}

// NewKey reserves a fresh store key. Purely local, mirroring document
// references that are minted before any write happens.
func (s *BadgerStore) NewKey(string) string {
	return uuid.NewString()
}

func matches(doc contract.Document, q contract.Query) bool {
	if q.Field == "" {
		return true
	}
	value, ok := doc[q.Field]
	if !ok {
		return false
	}
	if q.Contains != nil {
		array, ok := value.([]any)
		if !ok {
			return false
		}
		return slices.ContainsFunc(array, func(v any) bool {
			return compareValues(v, q.Contains) == 0
		})
	}
	return compareValues(value, q.Equals) == 0
}

// compareValues orders JSON scalars. Numbers decoded from JSON arrive as
// float64, so every numeric input is normalized before comparing. Nulls
// and missing fields sort first.
func compareValues(a, b any) int {
	af, aNum := asFloat(a)
	bf, bNum := asFloat(b)
	switch {
	case aNum && bNum:
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
