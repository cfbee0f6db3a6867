package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeSuccess(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	// Public redirect edge. No auth: the short code is the capability.
	r.Get("/r/{key}", handler.redirect)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Post("/creators", handler.applyCreator)
			r.Get("/creators/{creator_id}", handler.getCreator)
			r.Get("/creators/{creator_id}/metrics", handler.getCreatorMetrics)
			r.Get("/creators/{creator_id}/links", handler.listLinks)
			r.Get("/creators/{creator_id}/transactions", handler.listTransactions)

			r.Post("/links", handler.createLink)
			r.Get("/links/{link_id}/stats", handler.getLinkStats)
			r.Delete("/links/{link_id}", handler.deactivateLink)

			r.Post("/clicks", handler.recordClick)
			r.Post("/conversions", handler.attributeConversion)
			r.Get("/transactions/{transaction_id}", handler.getTransaction)

			r.Post("/admin/creators/{creator_id}/status", handler.setCreatorStatus)
			r.Post("/admin/creators/{creator_id}/rate", handler.overrideCommissionRate)
			r.Post("/admin/creators/{creator_id}/recompute-tier", handler.recomputeTier)
			r.Post("/admin/transactions/{transaction_id}/status", handler.advanceTransaction)
		})
	})

	return r
}
