package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows the public site and the admin dashboard to call the API from the browser.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, o := range origins {
		if o == "*" {
			allowCredentials = false
			break
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", TraceHeader, "X-Checkout-Session"},
		ExposedHeaders:   []string{TraceHeader, "X-Checkout-Session"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}
