package http

import (
	"net/http"

	"moneta/internal/core"
	"moneta/internal/currency"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	totals, err := s.tracker.Summary(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, totals)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := s.tracker.Breakdown(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, breakdown)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if txType := r.URL.Query().Get("type"); txType != "" {
		t := core.TransactionType(txType)
		if !t.Valid() {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid transaction type: " + txType})
			return
		}
		respondJSON(w, http.StatusOK, core.CategoriesFor(t))
		return
	}

	all := map[core.TransactionType][]core.Category{}
	for _, t := range []core.TransactionType{core.Income, core.Expense, core.Debt, core.DebtPayment} {
		all[t] = core.CategoriesFor(t)
	}
	respondJSON(w, http.StatusOK, all)
}

func (s *Server) handleCurrencies(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, currency.Supported())
}

type currencyResponse struct {
	Currency string `json:"currency"`
}

func (s *Server) handleGetCurrency(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, currencyResponse{Currency: s.tracker.SelectedCurrency(r.Context())})
}

func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var req currencyResponse
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	if err := s.tracker.SetSelectedCurrency(r.Context(), req.Currency); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, currencyResponse{Currency: req.Currency})
}
