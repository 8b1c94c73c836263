package http

import (
	"net/http"
	"time"

	"github.com/coder-dipesh/equilo/internal/core"
	"github.com/coder-dipesh/equilo/internal/services"
)

type expenseRequest struct {
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Date        core.Date  `json:"date"`
	PaidBy      int64      `json:"paid_by"`
	CategoryID  int64      `json:"category_id"`
	Splits      []int64    `json:"splits"`
}

type expenseResponse struct {
	ID          int64      `json:"id"`
	PlaceID     int64      `json:"place_id"`
	Description string     `json:"description"`
	Amount      core.Money `json:"amount"`
	Date        core.Date  `json:"date"`
	PaidBy      int64      `json:"paid_by"`
	AddedBy     int64      `json:"added_by"`
	CategoryID  int64      `json:"category_id,omitempty"`
	Splits      []int64    `json:"splits"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toExpenseResponse(e *core.Expense) expenseResponse {
	splits := e.Splits
	if splits == nil {
		splits = []int64{}
	}
	return expenseResponse{
		ID:          e.ID,
		PlaceID:     e.PlaceID,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
		PaidBy:      e.PaidBy,
		AddedBy:     e.AddedBy,
		CategoryID:  e.CategoryID,
		Splits:      splits,
		CreatedAt:   e.CreatedAt,
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}

	expenses, err := s.svc.ListExpenses(r.Context(), currentUserID(r), placeID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for i := range expenses {
		out = append(out, toExpenseResponse(&expenses[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := s.svc.CreateExpense(r.Context(), currentUserID(r), placeID, services.ExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		PaidBy:      req.PaidBy,
		CategoryID:  req.CategoryID,
		Splits:      req.Splits,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toExpenseResponse(expense))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	expense, err := s.svc.GetExpense(r.Context(), currentUserID(r), placeID, expenseID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense, err := s.svc.UpdateExpense(r.Context(), currentUserID(r), placeID, expenseID, services.ExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		PaidBy:      req.PaidBy,
		CategoryID:  req.CategoryID,
		Splits:      req.Splits,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathID(r, "placeID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid place id")
		return
	}
	expenseID, err := pathID(r, "expenseID")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := s.svc.DeleteExpense(r.Context(), currentUserID(r), placeID, expenseID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
