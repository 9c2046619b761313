package middleware

import (
	"net/http"

	"github.com/frahmantamala/ngo-donations/internal"
	"github.com/frahmantamala/ngo-donations/pkg/logger"
)

// AdminContext tags the request logger with the signed-in admin. It runs after the auth middleware.
func AdminContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := internal.AdminEmailFromContext(r.Context())
		if email == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "admin", email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
