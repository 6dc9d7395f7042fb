package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"video-insight/internal/infra/logging"
	"video-insight/internal/usecase"
)

// Dispatcher hands an accepted job to the background workers.
type Dispatcher interface {
	Dispatch(jobID string) error
}

// RateLimiter guards the submission endpoint per user.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	analysisUC usecase.AnalysisUseCase
	dispatcher Dispatcher
	limiter    RateLimiter
	auth       *AuthManager
	rateLimit  int
	rateWindow time.Duration
	log        *zerolog.Logger
}

func NewServer(
	analysisUC usecase.AnalysisUseCase,
	dispatcher Dispatcher,
	limiter RateLimiter,
	auth *AuthManager,
	rateLimit int,
	rateWindow time.Duration,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		analysisUC: analysisUC,
		dispatcher: dispatcher,
		limiter:    limiter,
		auth:       auth,
		rateLimit:  rateLimit,
		rateWindow: rateWindow,
		log:        logger,
	}
}

// RegisterRoutes sets up routing for the analysis API.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/analyses", func(r chi.Router) {
		r.Use(s.traceMiddleware)
		r.Use(s.authMiddleware)
		r.Post("/", s.createAnalysisHandler())
		r.Get("/", s.listAnalysesHandler())
		r.Get("/{id}", s.getAnalysisHandler())
	})
}

type ctxClaimsKey struct{}

// traceMiddleware assigns each request a trace id and logs it on completion.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Request-Id")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		ctx := logging.WithTraceID(r.Context(), traceID)
		w.Header().Set("X-Request-Id", traceID)

		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))
		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request handled")
	})
}

// authMiddleware validates the bearer token and stores the claims in context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxClaimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFrom(ctx context.Context) (*UserClaims, bool) {
	c, ok := ctx.Value(ctxClaimsKey{}).(*UserClaims)
	return c, ok
}
