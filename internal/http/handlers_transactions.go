package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"moneta/internal/core"
	"moneta/internal/recurrence"
)

// transactionRequest is the write payload. Date is ISO-8601 (date or
// full timestamp), amount a decimal string or number.
type transactionRequest struct {
	Type                   string          `json:"type"`
	Category               string          `json:"category"`
	Amount                 decimal.Decimal `json:"amount"`
	Currency               string          `json:"currency"`
	Date                   string          `json:"date"`
	Notes                  string          `json:"notes"`
	RecurrenceIntervalDays int             `json:"recurrenceIntervalDays"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	tx := core.Transaction{
		Type:                   core.TransactionType(req.Type),
		Category:               req.Category,
		Amount:                 req.Amount,
		Currency:               req.Currency,
		Notes:                  req.Notes,
		RecurrenceIntervalDays: req.RecurrenceIntervalDays,
	}

	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			return core.Transaction{}, err
		}
		tx.Date = date
	}

	return tx, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.tracker.Load(r.Context(), recurrence.Today())
	if err != nil {
		respondError(w, r, err)
		return
	}

	if txType := r.URL.Query().Get("type"); txType != "" {
		filtered := make([]core.Transaction, 0, len(txs))
		for _, tx := range txs {
			if tx.Type == core.TransactionType(txType) {
				filtered = append(filtered, tx)
			}
		}
		txs = filtered
	}

	if txs == nil {
		txs = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	tx, err := req.toTransaction()
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date: " + err.Error()})
		return
	}

	saved, err := s.tracker.Add(r.Context(), tx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid transaction id"})
		return
	}

	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	tx, err := req.toTransaction()
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date: " + err.Error()})
		return
	}

	saved, err := s.tracker.Update(r.Context(), id, tx)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid transaction id"})
		return
	}

	if err := s.tracker.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleClearTransactions(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Clear(r.Context()); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
