package router

import (
	"net/http"
	"strings"

	"github.com/Lawrence9908/ecommerce-backend-api/common"
	"github.com/Lawrence9908/ecommerce-backend-api/handler"

	_ "github.com/Lawrence9908/ecommerce-backend-api/docs"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// Options carries the router settings that come from configuration.
type Options struct {
	AllowedOrigins []string
	// AssetsDir is served under AssetsURL when AssetsURL is a local path.
	AssetsDir string
	AssetsURL string
}

func NewRouter(authHandler *handler.AuthHandler, productHandler *handler.ProductHandler, authMiddleware *handler.AuthMiddleware, opts Options) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	if prefix := strings.TrimSuffix(opts.AssetsURL, "/"); strings.HasPrefix(prefix, "/") && opts.AssetsDir != "" {
		mux.Handle("GET "+prefix+"/", http.StripPrefix(prefix, http.FileServer(http.Dir(opts.AssetsDir))))
	}

	protected := func(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return authMiddleware.Protect(handler.ErrorHandlingMiddleware(h))
	}
	adminOnly := func(h func(http.ResponseWriter, *http.Request) *common.AppError) http.Handler {
		return authMiddleware.Protect(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(h)))
	}

	// Auth
	mux.Handle("POST /api/auth/signup", handler.ErrorHandlingMiddleware(authHandler.Signup))
	mux.Handle("POST /api/auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /api/auth/logout", handler.ErrorHandlingMiddleware(authHandler.Logout))
	mux.Handle("POST /api/auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("GET /api/auth/profile", protected(authHandler.Profile))

	// Products
	mux.Handle("GET /api/product", handler.ErrorHandlingMiddleware(productHandler.ListProducts))
	mux.Handle("GET /api/product/category/{category}", handler.ErrorHandlingMiddleware(productHandler.ListByCategory))
	mux.Handle("GET /api/product/featured", handler.ErrorHandlingMiddleware(productHandler.Featured))
	mux.Handle("GET /api/product/recommended", handler.ErrorHandlingMiddleware(productHandler.Recommended))
	mux.Handle("POST /api/product", adminOnly(productHandler.CreateProduct))
	mux.Handle("POST /api/product/import", adminOnly(productHandler.ImportProducts))
	mux.Handle("PATCH /api/product/{id}/toggle-featured", adminOnly(productHandler.ToggleFeatured))
	mux.Handle("DELETE /api/product/{id}", adminOnly(productHandler.DeleteProduct))

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	return handler.RequestLogger(c.Handler(mux))
}
