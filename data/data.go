// Package data manages the MongoDB connection and owns the repositories.
package data

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eventhub/eventhub/config"
	"github.com/eventhub/eventhub/data/repository"
	"github.com/eventhub/eventhub/logging/logger"
)

// Data encapsulates all data layer dependencies.
type Data struct {
	client    *mongo.Client
	db        *mongo.Database
	UserRepo  repository.UserRepository
	EventRepo repository.EventRepository
}

// New creates a new Data instance with MongoDB connection.
func New(cfg *config.MongoDB, log *logger.Logger) (*Data, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info(ctx, "Connected to MongoDB successfully", "database", cfg.Database)

	db := client.Database(cfg.Database)

	return &Data{
		client:    client,
		db:        db,
		UserRepo:  repository.NewUserRepository(db, log),
		EventRepo: repository.NewEventRepository(db, log),
	}, nil
}

// Close closes the MongoDB connection.
func (d *Data) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}

// DB returns the MongoDB database instance.
func (d *Data) DB() *mongo.Database {
	return d.db
}
