package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
)

type budgetRequest struct {
	Limit decimal.Decimal `json:"limit"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.tracker.Budgets(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	if budgets == nil {
		budgets = []core.BudgetStatus{}
	}
	respondJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if category == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "missing category"})
		return
	}

	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := s.tracker.SetBudget(r.Context(), category, req.Limit); err != nil {
		respondError(w, r, err)
		return
	}

	remaining, err := s.tracker.BudgetRemaining(r.Context(), category)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, core.BudgetStatus{
		Category:  category,
		Limit:     req.Limit,
		Remaining: remaining,
	})
}

func (s *Server) handleResetBudget(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if category == "" {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "missing category"})
		return
	}

	if err := s.tracker.ResetBudget(r.Context(), category); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
