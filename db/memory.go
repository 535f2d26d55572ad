package db

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// MemoryStore is a process-local Store. Documents are kept BSON-normalised so
// they decode exactly like documents read back from MongoDB.
type MemoryStore struct {
	mutex  sync.RWMutex
	tables map[string][]bson.M
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	tables := make(map[string][]bson.M, len(Collections))
	for _, c := range Collections {
		tables[c] = nil
	}
	return &MemoryStore{tables: tables}
}

func toBSON(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MemoryStore) InsertMany(ctx context.Context, collection string, docs []any) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	batch := make([]bson.M, 0, len(docs))
	for _, d := range docs {
		m, err := toBSON(d)
		if err != nil {
			return errors.Wrapf(err, "encoding %s document", collection)
		}
		if id, _ := m["_id"].(string); id == "" {
			m["_id"] = uuid.NewString()
		}
		batch = append(batch, m)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tables[collection] = append(s.tables[collection], batch...)
	return nil
}

func (s *MemoryStore) FindAll(ctx context.Context, collection, sortKey string, out any) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.RLock()
	docs := make([]bson.M, len(s.tables[collection]))
	copy(docs, s.tables[collection])
	s.mutex.RUnlock()

	if sortKey != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			return compareValues(docs[i][sortKey], docs[j][sortKey]) < 0
		})
	}

	return decodeInto(out, len(docs), func(i int, dst any) error {
		raw, err := bson.Marshal(docs[i])
		if err != nil {
			return errors.Wrapf(err, "decoding %s", collection)
		}
		return errors.Wrapf(bson.Unmarshal(raw, dst), "decoding %s", collection)
	})
}

func (s *MemoryStore) DeleteAll(ctx context.Context, collection string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.tables[collection] = nil
	return nil
}

func (s *MemoryStore) Upsert(ctx context.Context, collection string, match Filter, set any) error {
	if err := checkCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	fields, err := toBSON(set)
	if err != nil {
		return errors.Wrapf(err, "encoding %s document", collection)
	}
	delete(fields, "_id")
	filter, err := toBSON(bson.M(match))
	if err != nil {
		return errors.Wrapf(err, "encoding %s filter", collection)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// the stored maps are replaced, never mutated, so FindAll copies stay valid
	for i, doc := range s.tables[collection] {
		if matches(doc, filter) {
			updated := make(bson.M, len(doc)+len(fields))
			for k, v := range doc {
				updated[k] = v
			}
			for k, v := range fields {
				updated[k] = v
			}
			s.tables[collection][i] = updated
			return nil
		}
	}

	doc := make(bson.M, len(filter)+len(fields)+1)
	for k, v := range filter {
		doc[k] = v
	}
	for k, v := range fields {
		doc[k] = v
	}
	doc["_id"] = uuid.NewString()
	s.tables[collection] = append(s.tables[collection], doc)
	return nil
}

// Count returns the number of documents in collection matching filter.
func (s *MemoryStore) Count(collection string, filter Filter) int {
	f, err := toBSON(bson.M(filter))
	if err != nil {
		return 0
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	n := 0
	for _, doc := range s.tables[collection] {
		if matches(doc, f) {
			n++
		}
	}
	return n
}

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) Name() string { return "Memory" }

func (s *MemoryStore) Close(context.Context) error { return nil }

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || compareValues(got, want) != 0 {
			return false
		}
	}
	return true
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// compareValues orders numbers numerically whatever their width, strings
// lexically, and missing values first.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if na, ok := asNumber(a); ok {
		if nb, ok := asNumber(b); ok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			}
			return 0
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			switch {
			case sa < sb:
				return -1
			case sa > sb:
				return 1
			}
			return 0
		}
	}
	if reflect.DeepEqual(a, b) {
		return 0
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	}
	return 0
}
