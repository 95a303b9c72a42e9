package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/dcpatrol/patrol/internal/config"
	"github.com/dcpatrol/patrol/internal/domain/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// document is the stored shape of one key-value entry
type document struct {
	Key string `bson:"_id"`
	Doc []byte `bson:"doc"`
}

// Store is a MongoDB-backed document store
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ ports.DocumentStore = (*Store)(nil)

// Connect opens a MongoDB client and returns a store over the
// configured collection
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	var doc document
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrKeyNotFound
		}
		return nil, fmt.Errorf("find document %s: %w", key, err)
	}
	return doc.Doc, nil
}

func (s *Store) Save(ctx context.Context, key string, doc []byte) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, document{Key: key, Doc: doc}, opts)
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
