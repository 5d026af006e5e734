package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Dashboard origins allowed by default. Deployments can extend the list via
// configuration at the router.
var defaultCORSOrigins = []string{
	"http://localhost:4200", // local Angular dashboard
	"http://localhost:3000", // local dev
}

// CORS returns middleware that applies the dashboard's allowed origin policy.
func CORS(extraOrigins ...string) func(http.Handler) http.Handler {
	origins := append(append([]string(nil), defaultCORSOrigins...), extraOrigins...)
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
