// file: db/redis.go

package db

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Lawrence9908/ecommerce-backend-api/config"
	"github.com/Lawrence9908/ecommerce-backend-api/logger"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the client that holds refresh tokens and the featured
// products snapshot, and fails fast if the server does not answer a PING.
func ConnectRedis() (*redis.Client, error) {
	cfg := config.AppConfig.Redis
	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.WithError(err).WithField("address", addr).Error("Failed to ping Redis")
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	logger.Log.WithField("address", addr).Info("Redis connection established successfully")
	return rdb, nil
}
