package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marketboost/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStorage keeps the record as one document whose _id is Key.
type MongoStorage struct {
	collection *mongo.Collection
}

type cartDocument struct {
	ID          string              `bson:"_id"`
	Items       []domain.RecordItem `bson:"items"`
	LastUpdated int64               `bson:"lastUpdated"`
}

func NewMongoStorage(db *mongo.Database) *MongoStorage {
	return &MongoStorage{collection: db.Collection("carts")}
}

// ConnectMongo dials MongoDB and verifies the connection.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func (m *MongoStorage) Load(ctx context.Context) (*domain.CartRecord, error) {
	var doc cartDocument
	err := m.collection.FindOne(ctx, bson.M{"_id": Key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart document: %w", err)
	}

	return &domain.CartRecord{Items: doc.Items, LastUpdated: doc.LastUpdated}, nil
}

func (m *MongoStorage) Save(ctx context.Context, rec domain.CartRecord) error {
	doc := cartDocument{ID: Key, Items: rec.Items, LastUpdated: rec.LastUpdated}

	opts := options.Replace().SetUpsert(true)
	if _, err := m.collection.ReplaceOne(ctx, bson.M{"_id": Key}, doc, opts); err != nil {
		return fmt.Errorf("failed to upsert cart document: %w", err)
	}
	return nil
}
