package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spendwise/spendwise/internal/auth"
	"github.com/spendwise/spendwise/internal/metrics"
	"github.com/spendwise/spendwise/internal/model"
)

// AuthConfig holds configuration for the session verifier middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Tokens  *auth.TokenManager
	Metrics metrics.Recorder
}

// Auth returns a middleware that verifies the bearer session token on
// protected routes. Verification is a pure local check against the
// shared signing secret; no store access happens here, which is why
// this runs synchronously ahead of every protected handler.
//
// On success the decoded identity is injected into the request context
// for downstream handlers. On failure the request never reaches the
// handler.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncTokenRejected()
				writeAuthError(w, "MISSING_TOKEN", "Missing or malformed Authorization header")
				return
			}

			claims, err := cfg.Tokens.Verify(token)
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, auth.ErrTokenExpired) {
					reason = "expired_token"
				}
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				recorder.IncTokenRejected()
				writeAuthError(w, "INVALID_TOKEN", "Invalid or expired token")
				return
			}

			identity := &model.Identity{
				UserID: claims.Subject,
				Email:  claims.Email,
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken reads the Authorization header and returns the
// token part of a "Bearer <token>" value. The second return is false
// when the header is absent or uses another scheme.
func extractBearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// writeAuthError writes a 401 Unauthorized envelope.
func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"message":"` + message + `","error":{"code":"` + code + `"}}`))
}
