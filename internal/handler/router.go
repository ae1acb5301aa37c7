package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitapp/backend/internal/auth"
	"github.com/splitapp/backend/internal/middleware"
)

// NewRouter builds the full route tree. Auth endpoints are open; everything
// under /api/groups and /api/expenses requires a bearer token.
func NewRouter(h *Handler, jwtManager *auth.JWTManager) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger)

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		respondMessage(w, http.StatusOK, "pong")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.HandleRegister)
		r.Post("/verify", h.HandleVerify)
		r.Post("/login", h.HandleLogin)
	})

	r.Route("/api/groups", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtManager))

		r.Get("/search", h.HandleSearchUsers)
		r.Post("/create", h.HandleCreateGroup)
		r.Get("/user/{userID}", h.HandleUserGroups)
		r.Get("/notifications/{userID}", h.HandleNotifications)
		r.Post("/notifications/respond", h.HandleRespondNotification)
		r.Post("/notifications/create", h.HandleCreateNotification)
		r.Put("/add-member", h.HandleAddMember)
		r.Put("/remove-member", h.HandleRemoveMember)
	})

	r.Route("/api/expenses", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtManager))

		r.Post("/add", h.HandleAddExpense)
		r.Post("/settle", h.HandleSettle)
		r.Get("/balance/{userID}", h.HandleBalance)
		r.Get("/group/{groupID}", h.HandleGroupExpenses)
		r.Get("/history/{userID}", h.HandleUserHistory)
	})

	return r
}
