package middleware

import (
	"net/http"

	"github.com/rs/zerolog"
)

// RequestLogger logs incoming HTTP requests.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			logger.Debug().Msgf("%s %s", r.Method, r.URL.RequestURI())
		})
	}
}
