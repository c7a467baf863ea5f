package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/messmate/messmate/internal/models"
	"github.com/messmate/messmate/internal/service"
)

func (s *Server) handleCreateMealSystem(w http.ResponseWriter, r *http.Request) {
	var in service.CreateMealSystemInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ms, err := s.meals.CreateMealSystem(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ms)
}

func (s *Server) handleListMealSystems(w http.ResponseWriter, r *http.Request) {
	systems, err := s.meals.ListMealSystems(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if systems == nil {
		systems = []*models.MealSystem{}
	}
	writeJSON(w, http.StatusOK, systems)
}

func (s *Server) handleGetMealSystem(w http.ResponseWriter, r *http.Request) {
	detail, err := s.meals.GetMealSystem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteMealSystem(w http.ResponseWriter, r *http.Request) {
	if err := s.meals.DeleteMealSystem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleReactivate(w http.ResponseWriter, r *http.Request) {
	ms, err := s.meals.Reactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.meals.ClearHistory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleLogMeal(w http.ResponseWriter, r *http.Request) {
	var in service.LogMealInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := s.meals.LogMeal(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleBulkAdd(w http.ResponseWriter, r *http.Request) {
	var in service.BulkAddInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := s.meals.BulkAdd(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleEditRecord(w http.ResponseWriter, r *http.Request) {
	var in service.EditRecordInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, err := s.meals.EditRecord(r.Context(), chi.URLParam(r, "recordID"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.meals.DeleteRecord(r.Context(), chi.URLParam(r, "recordID")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	var in service.ExpenseInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	exp, err := s.meals.AddExpense(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, exp)
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	var in service.ExpenseInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	exp, err := s.meals.EditExpense(r.Context(), chi.URLParam(r, "expenseID"), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exp)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.meals.DeleteExpense(r.Context(), chi.URLParam(r, "expenseID")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleComputeSettlement(w http.ResponseWriter, r *http.Request) {
	rows, err := s.meals.ComputeSettlement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleAddFinalSettlement(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Entries []service.FinalEntryInput `json:"entries"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	results, err := s.meals.AddFinalSettlementEntries(r.Context(), chi.URLParam(r, "id"), in.Entries)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, results)
}

func (s *Server) handleEditFinalSettlement(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Bills []models.Bill `json:"bills"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fs, err := s.meals.EditFinalSettlementBills(r.Context(), chi.URLParam(r, "finalID"), in.Bills)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fs)
}
