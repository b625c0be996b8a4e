package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"verivote/internal/roster"
)

// NewRouter wires all endpoints. Voter and admin routes sit behind the token
// middleware for their role; health and metrics stay open.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/auth/voter", h.handleVoterLogin)
	r.Post("/auth/admin", h.handleAdminLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.requireRole(roster.RoleVoter))
		r.Post("/vote", h.handleVote)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.requireRole(roster.RoleAdmin))
		r.Post("/enroll", h.handleEnroll)
		r.Get("/results", h.handleResults)
		r.Get("/ledger", h.handleLedgerExport)
		r.Post("/admin/wipe", h.handleWipe)
	})

	return r
}
