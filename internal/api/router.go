// Package api serves reports and the reconciliation toggle over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cleared-dev/books/internal/recon"
	"github.com/cleared-dev/books/internal/report"
	"github.com/cleared-dev/books/internal/source"
)

// Dependencies are the collaborators of the router.
type Dependencies struct {
	Logger  *zap.Logger
	Source  source.Source
	Recon   *recon.Service
	Options report.Options
}

// NewRouter builds the HTTP handler.
func NewRouter(deps Dependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	h := &handlers{deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(deps.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/reports", func(r chi.Router) {
			r.Get("/trial-balance", h.trialBalance)
			r.Get("/balance-sheet", h.balanceSheet)
			r.Get("/profit-loss", h.profitLoss)
			r.Get("/ageing", h.ageing)
		})
		r.Get("/ledgers/{id}/statement", h.ledgerStatement)

		r.Route("/reconciliations", func(r chi.Router) {
			r.Get("/", h.listSessions)
			r.Get("/{id}", h.getSession)
			r.Put("/{id}/items/{itemID}", h.setReconciled)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" not allowed")
	})
	return r
}
