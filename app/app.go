// File: app/app.go
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lawrence9908/ecommerce-backend-api/cache"
	"github.com/Lawrence9908/ecommerce-backend-api/config"
	"github.com/Lawrence9908/ecommerce-backend-api/db"
	"github.com/Lawrence9908/ecommerce-backend-api/handler"
	"github.com/Lawrence9908/ecommerce-backend-api/logger"
	"github.com/Lawrence9908/ecommerce-backend-api/model"
	"github.com/Lawrence9908/ecommerce-backend-api/repository"
	"github.com/Lawrence9908/ecommerce-backend-api/router"
	"github.com/Lawrence9908/ecommerce-backend-api/service"
	"github.com/Lawrence9908/ecommerce-backend-api/storage"

	"github.com/sirupsen/logrus"
)

// stores bundles the backends selected by configuration.
type stores struct {
	users    repository.IUserRepository
	products repository.IProductRepository
	cache    service.ICacheClient
	closers  []io.Closer
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			logger.Log.WithError(err).Warn("Error while closing a backend connection")
		}
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func loadConfig() (*config.Config, error) {
	logger.Init()
	if err := config.LoadConfig("."); err != nil {
		return nil, err
	}
	cfg := &config.AppConfig
	logger.SetLevel(cfg.App.LogLevel)
	logger.Log.WithFields(logrus.Fields{
		"env":          cfg.App.Env,
		"db_driver":    cfg.Database.Driver,
		"cache_driver": cfg.Redis.Driver,
	}).Info("Configuration loaded successfully")
	return cfg, nil
}

func Run() {
	cfg, err := loadConfig()
	if err != nil {
		logger.Log.Fatalf("Error loading configuration: %v", err)
	}

	s, err := openStores(cfg)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the backends: %v", err)
	}
	defer s.Close()

	assets, err := storage.NewLocalStore(cfg.Assets.Dir, cfg.Assets.BaseURL)
	if err != nil {
		logger.Log.Fatalf("Error preparing the asset store: %v", err)
	}

	r := buildRouter(cfg, s.users, s.products, s.cache, assets)

	// --- Start the Server with Graceful Shutdown ---
	port := cfg.Server.Port
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Server forced to shutdown: %v", err)
		return
	}

	logger.Log.Info("Server exited properly")
}

// GrantRole assigns role to the already registered user with email. Admin
// accounts can only be created this way.
func GrantRole(email string, role model.Role) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return service.NewUserService(s.users).SetRole(ctx, email, role)
}

func openStores(cfg *config.Config) (*stores, error) {
	s := &stores{}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Migrate {
			if err := db.Migrate(db.PostgresURL()); err != nil {
				return nil, err
			}
		}
		database, err := db.Connect()
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, database)
		s.users = repository.NewUserRepository(database)
		s.products = repository.NewProductRepository(database)

	case "mongo":
		client, database, err := db.ConnectMongo()
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, closerFunc(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Disconnect(ctx)
		}))

		users := repository.NewMongoUserRepository(database)
		products := repository.NewMongoProductRepository(database)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := users.EnsureIndexes(ctx); err != nil {
			s.Close()
			return nil, err
		}
		if err := products.EnsureIndexes(ctx); err != nil {
			s.Close()
			return nil, err
		}
		s.users, s.products = users, products

	case "memory":
		logger.Log.Warn("Using the in-memory store, data is lost on restart")
		s.users = repository.NewMemoryUserRepository()
		s.products = repository.NewMemoryProductRepository()

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	switch cfg.Redis.Driver {
	case "redis":
		rdb, err := db.ConnectRedis()
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, rdb)
		s.cache = rdb
	default:
		s.cache = cache.NewMemoryClient()
	}

	return s, nil
}

// buildRouter wires services, handlers and middleware over the given backends.
func buildRouter(cfg *config.Config, users repository.IUserRepository, products repository.IProductRepository, cacheClient service.ICacheClient, assets storage.AssetStore) http.Handler {
	tokens := service.NewTokenService(cacheClient, service.TokenConfig{
		AccessSecret:  cfg.JWT.AccessSecret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
	})
	authService := service.NewAuthService(users, tokens).WithBcryptCost(cfg.Auth.BcryptCost)
	productService := service.NewProductService(products, cacheClient, assets)

	return router.NewRouter(
		handler.NewAuthHandler(authService),
		handler.NewProductHandler(productService),
		handler.NewAuthMiddleware(authService),
		router.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AssetsDir:      cfg.Assets.Dir,
			AssetsURL:      cfg.Assets.BaseURL,
		},
	)
}

// TestApp is the full HTTP stack over in-memory backends.
type TestApp struct {
	Router   http.Handler
	Users    *repository.MemoryUserRepository
	Products *repository.MemoryProductRepository
	Cache    *cache.MemoryClient
}

// NewTestApp builds the router from config.AppConfig with in-memory
// repositories, an in-memory cache and a local asset store under assetsDir.
func NewTestApp(assetsDir string) (*TestApp, error) {
	assets, err := storage.NewLocalStore(assetsDir, "/uploads")
	if err != nil {
		return nil, err
	}

	t := &TestApp{
		Users:    repository.NewMemoryUserRepository(),
		Products: repository.NewMemoryProductRepository(),
		Cache:    cache.NewMemoryClient(),
	}
	cfg := config.AppConfig
	cfg.Assets.Dir, cfg.Assets.BaseURL = assetsDir, "/uploads"
	t.Router = buildRouter(&cfg, t.Users, t.Products, t.Cache, assets)
	return t, nil
}
