package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Lawrence9908/ecommerce-backend-api/config"
	"github.com/Lawrence9908/ecommerce-backend-api/logger"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// ConnectMongo opens a client against database.uri and returns the
// database named database.name.
func ConnectMongo() (*mongo.Client, *mongo.Database, error) {
	cfg := config.AppConfig.Database

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.URI))
	if err != nil {
		logger.Log.WithError(err).Error("Failed to create MongoDB client")
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Log.WithError(err).Error("Failed to ping MongoDB")
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Log.WithField("database", cfg.Name).Info("MongoDB connection established successfully")
	return client, client.Database(cfg.Name), nil
}
