// Package api serves the ledger and the tax computations over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/etnz/satstack"
	"github.com/etnz/satstack/internal/config"
	"github.com/etnz/satstack/price"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Repository is the transaction storage behind the API.
type Repository interface {
	List(ctx context.Context) ([]satstack.Transaction, error)
	Get(ctx context.Context, id string) (satstack.Transaction, error)
	Add(ctx context.Context, tx satstack.Transaction) (satstack.Transaction, error)
	Update(ctx context.Context, tx satstack.Transaction) error
	Remove(ctx context.Context, id string) error
	Settings(ctx context.Context) (satstack.TaxConfiguration, error)
	SaveSettings(ctx context.Context, cfg satstack.TaxConfiguration) error
	HealthCheck(ctx context.Context) error
}

// NewRouter creates and configures the HTTP router. The oracle may be nil,
// price endpoints then answer 503.
func NewRouter(repo Repository, oracle price.Oracle, cfg *config.Config, log *zap.SugaredLogger) http.Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := &Handler{repo: repo, oracle: oracle, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(newCORS(cfg.Server.AllowedOrigins).Handler)
	if cfg.Server.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.ListTransactions)
			r.Post("/", h.CreateTransaction)
			r.Get("/{id}", h.GetTransaction)
			r.Put("/{id}", h.UpdateTransaction)
			r.Delete("/{id}", h.DeleteTransaction)
		})

		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)

		r.Get("/disposals", h.Disposals)
		r.Get("/reports/{year}", h.Report)
		r.Get("/reports/{year}/quarterly", h.Quarterly)
		r.Get("/summaries", h.Summaries)
		r.Get("/holding", h.Holding)
		r.Get("/price", h.Price)
	})
	return r
}

// newCORS creates the CORS middleware for the given allowed origins.
func newCORS(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// requestLogger logs every request once served.
func requestLogger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"requestId", middleware.GetReqID(r.Context()),
			)
		})
	}
}
