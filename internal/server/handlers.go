package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/apex/log"

	"github.com/openvillage/reportd/internal/reports"
)

type errorBody struct {
	Error string `json:"error"`
}

type fundingUpdate struct {
	Amount float64 `json:"amount"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"cache":  s.store.State().String(),
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.FetchReports(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleReportBySlug(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.ReportBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReportByHypercertID(w http.ResponseWriter, r *http.Request) {
	report, err := s.store.ReportByHypercertID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleFundingUpdate(w http.ResponseWriter, r *http.Request) {
	var update fundingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	if err := s.store.UpdateFundedAmount(r.PathValue("id"), update.Amount); err != nil {
		writeError(w, err)
		return
	}

	// Updates referencing unknown hypercerts are accepted no-ops.
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Error("write response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway // remote collaborator failure
	switch {
	case errors.Is(err, reports.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, reports.ErrMissingOwner):
		status = http.StatusInternalServerError
	case errors.Is(err, reports.ErrNoMatch):
		status = http.StatusBadGateway
	}

	log.WithError(err).WithField("status", status).Error("request failed")
	writeJSON(w, status, errorBody{Error: err.Error()})
}
