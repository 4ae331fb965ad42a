package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// allowedOrigins lists the exact origins permitted to send credentialed
// requests; localhost/127.0.0.1 are allowed on any port for local dev.
var allowedOrigins = []string{
	"https://elvis1056.github.io",
}

// CORS returns middleware applying the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowOriginFunc:  allowOrigin,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-XSRF-TOKEN", "X-Requested-With"},
		ExposedHeaders:   []string{"X-XSRF-TOKEN"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

func allowOrigin(r *http.Request, origin string) bool {
	for _, allowed := range allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return strings.HasPrefix(origin, "http://localhost:") ||
		origin == "http://localhost" ||
		strings.HasPrefix(origin, "http://127.0.0.1:") ||
		origin == "http://127.0.0.1"
}
