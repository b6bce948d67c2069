package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const pingTimeout = 5 * time.Second

// Config holds MongoDB connection configuration
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	MinPoolSize    uint64
}

func DefaultConfig() *Config {
	return &Config{
		URI:            "mongodb://localhost:27017",
		Database:       "fulfillment_db",
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    100,
		MinPoolSize:    5,
	}
}

// Validate checks the fields NewClient needs
func (c *Config) Validate() error {
	switch {
	case c == nil:
		return errors.New("mongodb: config is required")
	case c.URI == "":
		return errors.New("mongodb: URI is required")
	case c.Database == "":
		return errors.New("mongodb: database is required")
	case c.MinPoolSize > c.MaxPoolSize && c.MaxPoolSize > 0:
		return fmt.Errorf("mongodb: min pool size %d exceeds max %d", c.MinPoolSize, c.MaxPoolSize)
	}
	return nil
}

// The directory is read-only to this service, so any replica member may answer
func (c *Config) clientOptions() *options.ClientOptions {
	return options.Client().
		ApplyURI(c.URI).
		SetConnectTimeout(c.ConnectTimeout).
		SetMaxPoolSize(c.MaxPoolSize).
		SetMinPoolSize(c.MinPoolSize).
		SetReadPreference(readpref.PrimaryPreferred())
}

// Client is a connected handle on one database
type Client struct {
	conn *mongo.Client
	db   *mongo.Database
}

// NewClient connects and pings before returning
func NewClient(ctx context.Context, config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	conn, err := mongo.Connect(ctx, config.clientOptions())
	if err != nil {
		return nil, fmt.Errorf("mongodb: connect: %w", err)
	}

	c := &Client{conn: conn, db: conn.Database(config.Database)}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.HealthCheck(pingCtx); err != nil {
		_ = conn.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: ping %s: %w", config.Database, err)
	}
	return c, nil
}

func (c *Client) Database() *mongo.Database {
	return c.db
}

func (c *Client) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

func (c *Client) Close(ctx context.Context) error {
	return c.conn.Disconnect(ctx)
}

// HealthCheck pings the preferred member
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.conn.Ping(ctx, readpref.PrimaryPreferred())
}
