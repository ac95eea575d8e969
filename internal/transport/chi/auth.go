package chi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/jeffMauritius/ai-project-v1-sub000/internal/logger"
)

// exemptPaths are routes that bypass authentication (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// SessionValidator reports whether a front-end session token is live.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (bool, error)
}

// AuthOptions configures AuthMiddleware.
type AuthOptions struct {
	APIKeys       []string
	SessionCookie string
	Sessions      SessionValidator // nil disables session lookup
	Logger        *zap.Logger
}

// AuthMiddleware accepts a request carrying a static api key or a live session
// token, either as a Bearer header or in the session cookie.
// With no api keys and no session validator it is a pass-through.
func AuthMiddleware(opts AuthOptions) func(http.Handler) http.Handler {
	validKeys := make(map[string]struct{}, len(opts.APIKeys))
	for _, k := range opts.APIKeys {
		if k != "" {
			validKeys[k] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		if len(validKeys) == 0 && opts.Sessions == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token, msg := credential(r, opts.SessionCookie)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized", msg)
				return
			}

			if _, ok := validKeys[token]; ok {
				next.ServeHTTP(w, r)
				return
			}

			if opts.Sessions != nil {
				ok, err := opts.Sessions.Validate(r.Context(), token)
				if err != nil {
					logger.FromContext(r.Context(), opts.Logger).Error("session lookup failed", zap.Error(err))
					writeError(w, http.StatusInternalServerError, "Internal server error", err.Error())
					return
				}
				if ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
		})
	}
}

// credential extracts the bearer token, falling back to the session cookie.
// The second value explains an empty token.
func credential(r *http.Request, cookieName string) (string, string) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(auth, bearerPrefix) {
			return "", "authorization header must use Bearer scheme"
		}
		return strings.TrimSpace(auth[len(bearerPrefix):]), "empty bearer token"
	}
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value, ""
		}
	}
	return "", "missing credentials"
}
