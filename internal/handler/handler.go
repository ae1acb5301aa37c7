// Package handler exposes the REST JSON API: request parsing, response
// shaping and the mapping from service errors to HTTP status codes.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/splitapp/backend/internal/auth"
	"github.com/splitapp/backend/internal/ledger"
	"github.com/splitapp/backend/internal/service"
	"github.com/splitapp/backend/internal/storage"
)

// Handler holds the services the HTTP layer fronts.
type Handler struct {
	auth     *service.AuthService
	groups   *service.GroupService
	expenses *service.ExpenseService
	logger   *slog.Logger
}

// New creates a Handler.
func New(authSvc *service.AuthService, groupSvc *service.GroupService, expenseSvc *service.ExpenseService, logger *slog.Logger) *Handler {
	return &Handler{
		auth:     authSvc,
		groups:   groupSvc,
		expenses: expenseSvc,
		logger:   logger,
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondError maps a service error onto an HTTP status and a JSON
// `{"error": …}` body. Unrecognized errors become opaque 500s; the detail
// goes to the log, not the client.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrNotVerified),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, auth.ErrUserExists),
		errors.Is(err, storage.ErrDuplicate),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidOTP),
		errors.Is(err, service.ErrAlreadyMember),
		errors.Is(err, service.ErrInvalidResponse),
		errors.Is(err, service.ErrGroupRequired),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidSplitType),
		errors.Is(err, ledger.ErrNoSplits):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	respondJSON(w, status, map[string]string{"error": message})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

// badRequest writes a 400 with the given message.
func badRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}
