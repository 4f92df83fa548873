// Package mongo is the document-store backend. Every index is its own
// collection holding either EOD bar or news documents.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"markets-engine/internal/metrics"
	"markets-engine/internal/model"
)

const backend = "mongo"

// Store implements model.Store over a MongoDB database.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
	metrics  *metrics.Metrics
}

var _ model.Store = (*Store)(nil)

// Connect dials uri, verifies the connection with a ping and selects
// dbName. m may be nil.
func Connect(ctx context.Context, uri, dbName string, m *metrics.Metrics) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: MONGODB_URI not set")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(30 * time.Second).
		SetConnectTimeout(30 * time.Second).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	slog.Info("mongo store connected", "database", dbName)
	return &Store{client: client, database: client.Database(dbName), metrics: m}, nil
}

// EnsureBarIndexes creates the (key_ticker, date_reference) index on each
// bar collection.
func (s *Store) EnsureBarIndexes(ctx context.Context, indexes ...string) error {
	for _, idx := range indexes {
		_, err := s.database.Collection(idx).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "key_ticker", Value: 1}, {Key: "date_reference", Value: 1}},
		})
		if err != nil {
			return fmt.Errorf("mongo create bar index on %s: %w", idx, err)
		}
	}
	return nil
}

// EnsureNewsIndexes creates the keyset sort index on each news collection.
func (s *Store) EnsureNewsIndexes(ctx context.Context, indexes ...string) error {
	for _, idx := range indexes {
		_, err := s.database.Collection(idx).Indexes().CreateMany(ctx, []mongo.IndexModel{
			{Keys: bson.D{{Key: "date_reference", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "key_ticker", Value: 1}, {Key: "date_reference", Value: -1}}},
		})
		if err != nil {
			return fmt.Errorf("mongo create news indexes on %s: %w", idx, err)
		}
	}
	return nil
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
