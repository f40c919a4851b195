package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"expense-tracker/constants"
	"expense-tracker/internal/entity"
	"expense-tracker/internal/pipeline"
	"expense-tracker/internal/repository"
)

type rejectionResponse struct {
	Error     string                  `json:"error"`
	Rejection *entity.RejectionReason `json:"rejection"`
}

func overridesFrom(r *http.Request) entity.FormOverrides {
	return entity.FormOverrides{
		Date:     r.FormValue("date"),
		Cost:     r.FormValue("cost"),
		Vendor:   r.FormValue("vendor"),
		Location: r.FormValue("location"),
		Category: r.FormValue("category"),
		Trip:     r.FormValue("trip"),
	}
}

// handleCreateExpense accepts a multipart form with an optional receipt file
// plus field overrides, merges the two, and persists the result. A draft that
// still lacks a date or positive cost is rejected with 422.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	doc, _, err := s.readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	strat, err := s.strategies.New(selectorFrom(r))
	if err != nil {
		if errors.Is(err, pipeline.ErrMissingCredential) || errors.Is(err, pipeline.ErrUnknownStrategy) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("server.expenses.strategy", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	draft, rejection := s.orchestrator.ExtractAndMerge(r.Context(), doc, strat, overridesFrom(r))
	if rejection != nil {
		writeJSON(w, http.StatusUnprocessableEntity, rejectionResponse{
			Error:     "expense needs a date and a positive cost",
			Rejection: rejection,
		})
		return
	}

	expense, err := expenseFromDraft(userIDFrom(r.Context()), draft)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.expenses.Create(r.Context(), expense); err != nil {
		s.logger.Error("server.expenses.create", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func expenseFromDraft(userID uuid.UUID, draft *entity.MergedExpenseDraft) (*entity.Expense, error) {
	cost, err := strconv.ParseFloat(deref(draft.Fields.Cost), 64)
	if err != nil {
		return nil, errors.New("cost is not a number")
	}
	return &entity.Expense{
		UserID:   userID,
		Trip:     draft.Trip,
		Date:     deref(draft.Fields.Date),
		Cost:     cost,
		Vendor:   deref(draft.Fields.Vendor),
		Location: deref(draft.Fields.Location),
		Category: draft.Fields.Category,
		Method:   draft.Method,
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type updateExpenseRequest struct {
	Trip     string  `json:"trip"`
	Date     string  `json:"date"`
	Cost     float64 `json:"cost"`
	Vendor   string  `json:"vendor"`
	Location string  `json:"location"`
	Category string  `json:"category"`
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Date == "" || req.Cost <= 0 {
		writeJSON(w, http.StatusUnprocessableEntity, rejectionResponse{
			Error: "expense needs a date and a positive cost",
			Rejection: &entity.RejectionReason{
				MissingDate: req.Date == "",
				MissingCost: req.Cost <= 0,
			},
		})
		return
	}

	userID := userIDFrom(r.Context())
	existing, err := s.expenses.GetByID(r.Context(), userID, id)
	if err != nil {
		s.respondRepoError(w, err, "server.expenses.get")
		return
	}

	existing.Trip = req.Trip
	existing.Date = req.Date
	existing.Cost = req.Cost
	existing.Vendor = req.Vendor
	existing.Location = req.Location
	existing.Category = req.Category
	if existing.Category == "" || !constants.IsCategory(existing.Category) {
		existing.Category = string(constants.DefaultCategory)
	}

	if err := s.expenses.Update(r.Context(), existing); err != nil {
		s.respondRepoError(w, err, "server.expenses.update")
		return
	}
	writeJSON(w, http.StatusOK, existing)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	expense, err := s.expenses.GetByID(r.Context(), userIDFrom(r.Context()), id)
	if err != nil {
		s.respondRepoError(w, err, "server.expenses.get")
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.List(r.Context(), userIDFrom(r.Context()), r.URL.Query().Get("trip"))
	if err != nil {
		s.respondRepoError(w, err, "server.expenses.list")
		return
	}
	if expenses == nil {
		expenses = []*entity.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}
	if err := s.expenses.Delete(r.Context(), userIDFrom(r.Context()), id); err != nil {
		s.respondRepoError(w, err, "server.expenses.delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportExpenses(w http.ResponseWriter, r *http.Request) {
	trip := r.URL.Query().Get("trip")
	out, err := s.exporter.ExportExpensesXLSX(r.Context(), userIDFrom(r.Context()), trip)
	if err != nil {
		s.logger.Error("server.expenses.export", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	name := "expenses.xlsx"
	if trip != "" {
		name = "expenses-" + trip + ".xlsx"
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) respondRepoError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "expense not found")
		return
	}
	s.logger.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
