package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/gosquare/infra/middle"
	v1 "github.com/mstgnz/gosquare/router/v1"

	// Import for side-effect registration
	_ "github.com/mstgnz/gosquare/provider/square"
)

// Routes mounts the authenticated API under /v1
func Routes(r chi.Router, apiKey string, h v1.Handlers) {
	r.Route("/v1", func(r chi.Router) {
		r.Use(middle.AuthMiddleware(apiKey))
		v1.Routes(r, h)
	})
}
