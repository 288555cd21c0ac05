package database

import (
	"context"
	"time"

	"estate-crm/internal/config"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
)

// MongodbDB is the shared handle every repository takes its collection from.
type MongodbDB struct {
	DB *mongo.Database
}

// NewDatabase creates a new MongoDB database connection with lifecycle management
func NewDatabase(lc fx.Lifecycle, cfg *config.Config) (*MongodbDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetAppName(cfg.AppId)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}

	db := client.Database(cfg.DBName)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return &MongodbDB{DB: db}, nil
}

// Ping reports whether the primary is reachable.
func (m *MongodbDB) Ping(ctx context.Context) error {
	return m.DB.Client().Ping(ctx, readpref.Primary())
}

// NewID returns a fresh opaque identifier for a document.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
