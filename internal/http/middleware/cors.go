package middleware

import (
	"net/http"
	"slices"

	"github.com/forumdash/amo-analytics-api/internal/config"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// CORS returns the cross-origin middleware for the dashboard front-end.
// "*" in AllowedOrigins (the default) accepts any origin; an empty list
// denies cross-origin requests outside development.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	isDev := environment == "" || environment == "development" || environment == "local"

	switch {
	case slices.Contains(cfg.AllowedOrigins, "*"):
		if !isDev {
			logger.Warn("CORS allows every origin", zap.String("environment", environment))
		}
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return origin != ""
		}
	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins", zap.Strings("origins", cfg.AllowedOrigins))
	case isDev:
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return origin != ""
		}
	default:
		// an empty AllowedOrigins means "*" to go-chi/cors
		options.AllowOriginFunc = func(r *http.Request, origin string) bool {
			return false
		}
		logger.Warn("CORS configured with no allowed origins", zap.String("environment", environment))
	}

	return cors.Handler(options)
}
