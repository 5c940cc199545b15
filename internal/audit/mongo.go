package audit

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"tguardian/monitor-api/internal/domain"
	"tguardian/monitor-api/internal/logging"
)

// EventsCollection holds one document per VerdictEvent, keyed by event id.
const EventsCollection = "verdict_events"

// ---- Abstractions for Testability ----

// DataStore is the subset of *mongo.Collection the sink uses.
type DataStore interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// CollectionProvider hands out collections by name.
type CollectionProvider interface {
	Collection(name string) DataStore
}

// Pinger checks server reachability. *mongo.Client satisfies it.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// MongoProvider adapts *mongo.Client to CollectionProvider for one database.
type MongoProvider struct {
	client   *mongo.Client
	database string
}

// NewMongoProvider creates a provider over database.
func NewMongoProvider(client *mongo.Client, database string) *MongoProvider {
	return &MongoProvider{client: client, database: database}
}

// Collection returns the named collection.
func (p *MongoProvider) Collection(name string) DataStore {
	return p.client.Database(p.database).Collection(name)
}

// ConnectMongo dials uri and pings the primary.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	logger := logging.FromContext(ctx)
	logger.DebugContext(ctx, "connecting to MongoDB")

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	logger.InfoContext(ctx, "connected to MongoDB")
	return client, nil
}

// MongoSink inserts events into EventsCollection.
type MongoSink struct {
	provider CollectionProvider
	pinger   Pinger
}

// NewMongoSink creates a sink. pinger may be nil, in which case Ping always succeeds.
func NewMongoSink(provider CollectionProvider, pinger Pinger) *MongoSink {
	return &MongoSink{provider: provider, pinger: pinger}
}

func (s *MongoSink) Name() string { return "mongo" }

func (s *MongoSink) Record(ctx context.Context, ev domain.VerdictEvent) error {
	if _, err := s.provider.Collection(EventsCollection).InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("insert %s event for %s: %w", ev.Kind, ev.TransactionID, err)
	}
	return nil
}

func (s *MongoSink) Ping(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	if err := s.pinger.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping MongoDB: %w", err)
	}
	return nil
}
