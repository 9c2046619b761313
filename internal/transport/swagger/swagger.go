package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func Handler() http.Handler {
	// The document itself is served by the router at /openapi.yml.
	return httpSwagger.Handler(
		httpSwagger.URL("/openapi.yml"),
	)
}
