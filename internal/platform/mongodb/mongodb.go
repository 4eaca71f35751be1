package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Config holds the connection settings for the document store.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connection is the process-wide client pool plus the selected database.
type Connection struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect opens the client pool once at startup and verifies it with a ping.
func Connect(ctx context.Context, cfg Config, log *zap.Logger) (*Connection, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info("connected to mongodb", zap.String("database", cfg.Database))
	return &Connection{Client: client, Database: client.Database(cfg.Database)}, nil
}

// Ping reports whether the primary is reachable.
func (c *Connection) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client pool.
func (c *Connection) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
