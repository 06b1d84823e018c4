package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors allows the listed origins. An empty list, or allowAll, admits every
// origin.
func Cors(allowAll bool, origins []string) Middleware {
	options := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	if allowAll {
		options.AllowOriginFunc = func(origin string) bool {
			return true
		}
	}
	return cors.New(options).Handler
}
