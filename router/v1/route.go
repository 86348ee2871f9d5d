package v1

import (
	"github.com/go-chi/chi/v5"
	"github.com/mstgnz/gosquare/handler"
	"github.com/mstgnz/gosquare/infra/middle"
)

// Handlers groups the handlers mounted under /v1
type Handlers struct {
	Payment *handler.PaymentHandler
	Logs    *handler.LogsHandler
	Config  *handler.ConfigHandler
}

// Routes registers all v1 API routes
func Routes(r chi.Router, h Handlers) {
	r.Route("/{provider}", func(r chi.Router) {
		r.Get("/info", h.Payment.Info)
		r.Get("/config", h.Config.GetConfig)

		// Payment operations take JSON bodies only
		r.Group(func(r chi.Router) {
			r.Use(middle.RequestValidationMiddleware())

			r.Post("/purchase", h.Payment.Purchase)
			r.Post("/authorize", h.Payment.Authorize)
			r.Post("/capture", h.Payment.Capture)
			r.Post("/refund", h.Payment.Refund)
			r.Post("/void", h.Payment.Void)
			r.Post("/verify", h.Payment.Verify)
		})

		r.Get("/transcripts", h.Logs.ListTranscripts)
		r.Get("/transcripts/{id}", h.Logs.GetTranscript)
		r.Get("/operations", h.Logs.ListOperations)
	})
}
