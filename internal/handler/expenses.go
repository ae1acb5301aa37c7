package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/splitapp/backend/internal/ledger"
	"github.com/splitapp/backend/internal/models"
	"github.com/splitapp/backend/internal/service"
)

type addExpenseRequest struct {
	Description string              `json:"description"`
	Amount      decimal.Decimal     `json:"amount"`
	Payer       string              `json:"payer"`
	Group       string              `json:"group"`
	SplitType   string              `json:"splitType"`
	SplitData   []ledger.SplitInput `json:"splitData"`
}

type settleRequest struct {
	Payer    string          `json:"payer"`
	Receiver string          `json:"receiver"`
	Amount   decimal.Decimal `json:"amount"`
	Group    string          `json:"group"`
}

type splitResponse struct {
	UserID   string  `json:"userId"`
	Username string  `json:"username,omitempty"`
	Amount   string  `json:"amount"`
	Percent  float64 `json:"percent,omitempty"`
}

type expenseResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      string          `json:"amount"`
	PayerID     string          `json:"payerId"`
	PayerName   string          `json:"payerName,omitempty"`
	GroupID     string          `json:"groupId"`
	GroupName   string          `json:"groupName,omitempty"`
	SplitType   string          `json:"splitType"`
	Splits      []splitResponse `json:"splits"`
	Settled     bool            `json:"settled"`
	CreatedAt   int64           `json:"createdAt"`
}

func toExpenseResponse(e *models.Expense) expenseResponse {
	out := expenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		PayerID:     e.PayerID,
		GroupID:     e.GroupID,
		SplitType:   string(e.SplitType),
		Settled:     e.Settled,
		CreatedAt:   e.CreatedAt,
	}
	for _, sp := range e.Splits {
		out.Splits = append(out.Splits, splitResponse{
			UserID:  sp.UserID,
			Amount:  sp.Amount.StringFixed(2),
			Percent: sp.Percent,
		})
	}
	return out
}

func toExpenseViewResponse(v service.ExpenseView) expenseResponse {
	out := toExpenseResponse(v.Expense)
	out.PayerName = v.PayerName
	out.GroupName = v.GroupName
	for i := range out.Splits {
		out.Splits[i].Username = v.SplitNames[out.Splits[i].UserID]
	}
	return out
}

// HandleAddExpense records a new expense.
func (h *Handler) HandleAddExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	expense, err := h.expenses.AddExpense(r.Context(), req.Description, req.Amount,
		req.Payer, req.Group, models.SplitType(req.SplitType), req.SplitData)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

// HandleSettle records a settlement between two users.
func (h *Handler) HandleSettle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := decodeBody(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.Payer == "" || req.Receiver == "" {
		badRequest(w, "payer and receiver are required")
		return
	}

	settlement, err := h.expenses.SettleDebt(r.Context(), req.Payer, req.Receiver, req.Group, req.Amount)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toExpenseResponse(settlement))
}

// HandleBalance returns the user's netted per-counterparty balances.
func (h *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	balance, err := h.expenses.UserBalance(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, balance)
}

// HandleGroupExpenses lists one group's expense records.
func (h *Handler) HandleGroupExpenses(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	views, err := h.expenses.GroupExpenses(r.Context(), groupID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	out := make([]expenseResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toExpenseViewResponse(v))
	}
	respondJSON(w, http.StatusOK, out)
}

// HandleUserHistory lists every record the user participated in.
func (h *Handler) HandleUserHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	views, err := h.expenses.UserHistory(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	out := make([]expenseResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toExpenseViewResponse(v))
	}
	respondJSON(w, http.StatusOK, out)
}
