package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/campusnest/accommodation-service/internal/auth"
	"github.com/campusnest/accommodation-service/internal/platform/logger"
	"github.com/campusnest/accommodation-service/internal/platform/metrics"
)

// ContextKey is the type for values this package stores in request contexts.
type ContextKey string

const (
	ContextKeyUserID   ContextKey = "user_id"
	ContextKeyUsername ContextKey = "username"
	ContextKeyRole     ContextKey = "role"
)

// UsernameFromContext returns the authenticated caller's username, if any.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ContextKeyUsername).(string)
	return username, ok && username != ""
}

// JWTAuth verifies the Bearer token and stores the caller's identity in the
// request context. Requests without a valid token get 401.
func JWTAuth(tokens *auth.TokenManager, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing or malformed Authorization header"})
				return
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				log.Debug("Token rejected", zap.Error(err))
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid or expired token"})
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, ContextKeyUsername, claims.Username)
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Metrics records request latency and error counts per chi route pattern.
// A nil manager disables collection.
func Metrics(mm *metrics.MetricsManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if mm == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			mm.APILatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
			if ww.Status() >= http.StatusBadRequest {
				mm.APIErrorsTotal.WithLabelValues(route, errorClass(ww.Status())).Inc()
			}
		})
	}
}

func errorClass(status int) string {
	if status >= http.StatusInternalServerError {
		return "server"
	}
	return "client"
}
