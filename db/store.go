package db

import (
	"context"

	"attendance_api/config"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	StudentsCollection   = "students"
	WeeksCollection      = "weeks"
	AttendanceCollection = "attendance"
)

// Collections lists every collection the store manages, in reset order.
var Collections = []string{StudentsCollection, WeeksCollection, AttendanceCollection}

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnsupportedDriver = errors.New("unsupported store driver")
)

// Filter matches documents whose fields equal every entry.
type Filter map[string]any

// Store is a document collection backend. Operations on different
// collections are independent; nothing spans two collections atomically.
// Backend errors are returned wrapped, never swallowed.
type Store interface {
	InsertMany(ctx context.Context, collection string, docs []any) error
	// FindAll decodes every document of collection into out, a pointer to a
	// slice. Documents are ordered ascending by sortKey unless it is empty.
	FindAll(ctx context.Context, collection, sortKey string, out any) error
	DeleteAll(ctx context.Context, collection string) error
	// Upsert overwrites the fields of set on the first document matching
	// match, or inserts match merged with set when none does.
	Upsert(ctx context.Context, collection string, match Filter, set any) error
	Ping(ctx context.Context) error
	Name() string
	Close(ctx context.Context) error
}

// Open connects to the backend selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN(), log)
	case config.DriverMemory:
		return NewMemoryStore(), nil
	}
	return nil, errors.Wrap(ErrUnsupportedDriver, cfg.StoreDriver)
}

func checkCollection(collection string) error {
	for _, c := range Collections {
		if c == collection {
			return nil
		}
	}
	return errors.Wrap(ErrUnknownCollection, collection)
}
