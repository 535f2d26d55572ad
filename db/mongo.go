package db

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoStore keeps each collection as a MongoDB collection of the same name.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ Store = (*MongoStore)(nil)

// OpenMongo builds a client for uri. Only a malformed uri is an error: the
// driver connects lazily, so an unreachable server is logged and every
// request reports it until the server comes up.
func OpenMongo(ctx context.Context, uri, database string, log *zap.Logger) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "error connecting to mongodb")
	}
	store := &MongoStore{client: client, db: client.Database(database)}
	if err := store.Ping(ctx); err != nil {
		log.Warn("mongodb not reachable, starting anyway", zap.String("database", database), zap.Error(err))
		return store, nil
	}
	log.Info("connected to mongodb", zap.String("database", database))
	return store, nil
}

func (s *MongoStore) collection(name string) (*mongo.Collection, error) {
	if err := checkCollection(name); err != nil {
		return nil, err
	}
	return s.db.Collection(name), nil
}

func (s *MongoStore) InsertMany(ctx context.Context, collection string, docs []any) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		return errors.Wrapf(err, "inserting into %s", collection)
	}
	return nil
}

func (s *MongoStore) FindAll(ctx context.Context, collection, sortKey string, out any) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}
	opts := options.Find()
	if sortKey != "" {
		opts.SetSort(bson.D{{Key: sortKey, Value: 1}})
	}
	cur, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return errors.Wrapf(err, "querying %s", collection)
	}
	if err := cur.All(ctx, out); err != nil {
		return errors.Wrapf(err, "decoding %s", collection)
	}
	return nil
}

func (s *MongoStore) DeleteAll(ctx context.Context, collection string) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}
	if _, err := coll.DeleteMany(ctx, bson.D{}); err != nil {
		return errors.Wrapf(err, "clearing %s", collection)
	}
	return nil
}

func (s *MongoStore) Upsert(ctx context.Context, collection string, match Filter, set any) error {
	coll, err := s.collection(collection)
	if err != nil {
		return err
	}
	_, err = coll.UpdateOne(ctx, bson.M(match), bson.M{"$set": set}, options.Update().SetUpsert(true))
	if err != nil {
		return errors.Wrapf(err, "upserting into %s", collection)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return errors.Wrap(s.client.Ping(ctx, nil), "error pinging mongodb")
}

func (s *MongoStore) Name() string { return "MongoDB" }

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
