// Package store owns the MongoDB connection used by the order ledger.
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/canteenhq/restro/internal/config"
)

// Store bundles the Mongo client and the selected database.
type Store struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Module registers the document store with Fx.
var Module = fx.Provide(New)

// New connects the Mongo client and ties it to the Fx lifecycle.
func New(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*Store, error) {
	opts := options.Client().ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(cfg.Mongo.ConnectTimeout).
		SetServerSelectionTimeout(cfg.Mongo.ConnectTimeout)

	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	st := &Store{
		Client:   client,
		Database: client.Database(cfg.Mongo.Database),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx, nil); err != nil {
				return fmt.Errorf("ping mongo: %w", err)
			}
			logger.Info("mongo connected", zap.String("database", cfg.Mongo.Database))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("disconnecting mongo")
			return client.Disconnect(ctx)
		},
	})

	return st, nil
}
