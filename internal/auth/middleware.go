package auth

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Middleware handles authentication for HTTP requests
type Middleware struct {
	issuer  *TokenIssuer
	require bool
	logger  *zap.Logger
}

// NewMiddleware creates a new authentication middleware. When require is false
// requests without a token pass through unauthenticated.
func NewMiddleware(issuer *TokenIssuer, require bool, logger *zap.Logger) *Middleware {
	return &Middleware{
		issuer:  issuer,
		require: require,
		logger:  logger,
	}
}

// Authenticate validates the bearer token issued by /login
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			if !m.require {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		userCtx, err := m.issuer.Validate(token)
		if err != nil {
			if !m.require {
				m.logger.Debug("optional auth: token validation failed, continuing unauthenticated",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("user", userCtx.Username),
			zap.Duration("auth_duration", time.Since(start)),
		)

		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
