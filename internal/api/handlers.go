// internal/api/handlers.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "prospector/internal/common/errors"
	"prospector/internal/export"
	"prospector/internal/models"
	"prospector/internal/prospecting"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Code    apperrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Details string              `json:"details,omitempty"`
}

// writeError maps the error taxonomy onto HTTP statuses. Validation is a 400,
// malformed model output a 502 (the upstream misbehaved, not the client),
// everything else a 503 so clients know a retry may help.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := http.StatusServiceUnavailable
	switch code {
	case apperrors.ErrCodeValidationFailed:
		status = http.StatusBadRequest
	case apperrors.ErrCodeMalformedAIResponse:
		status = http.StatusBadGateway
	case "":
		code = "INTERNAL"
		status = http.StatusInternalServerError
	}

	resp := errorResponse{Code: code, Message: err.Error()}
	if se, ok := err.(*apperrors.StandardError); ok {
		resp.Message = se.Message
		resp.Details = se.Details
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- Profile ---

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.Profile(r.Context()))
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var p models.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, apperrors.NewValidationError("invalid JSON body"))
		return
	}
	s.repo.SetProfile(r.Context(), p)
	writeJSON(w, http.StatusOK, p)
}

// --- Services ---

func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.Services(r.Context()))
}

func (s *Server) handleCreateService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid JSON body"))
		return
	}
	if req.Name == "" {
		writeError(w, apperrors.NewValidationError("name is required"))
		return
	}
	svc := s.repo.AddService(r.Context(), req.Name, req.Description)
	writeJSON(w, http.StatusCreated, svc)
}

func (s *Server) handleDeleteService(w http.ResponseWriter, r *http.Request) {
	s.repo.RemoveService(r.Context(), chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// --- Prospects ---

func (s *Server) handleListProspects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.ProspectsByProbability(r.Context()))
}

func (s *Server) handleGetProspect(w http.ResponseWriter, r *http.Request) {
	p, ok := s.repo.GetProspectByID(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "NOT_FOUND", Message: "prospect not found"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

func (r idsRequest) set() map[string]bool {
	set := make(map[string]bool, len(r.IDs))
	for _, id := range r.IDs {
		set[id] = true
	}
	return set
}

func (s *Server) handleDeleteProspects(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid JSON body"))
		return
	}
	s.repo.RemoveProspects(r.Context(), req.set())
	w.WriteHeader(http.StatusNoContent)
}

// --- Search ---

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ServiceID string `json:"serviceId"`
		Sector    string `json:"sector"`
		Location  string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	svc, ok := s.repo.ServiceByID(r.Context(), req.ServiceID)
	if !ok {
		writeError(w, apperrors.NewValidationError("unknown service id"))
		return
	}

	start := time.Now()
	batch, err := s.prospecting.Execute(r.Context(), &prospecting.Input{
		Service:  svc,
		Sector:   req.Sector,
		Location: req.Location,
	})
	s.recordOperation(r.Context(), "search", err, time.Since(start))
	if err != nil {
		writeError(w, err)
		return
	}

	s.repo.AddProspects(r.Context(), batch)
	writeJSON(w, http.StatusOK, batch)
}

// recordOperation feeds the optional OTel meter.
func (s *Server) recordOperation(ctx context.Context, operation string, err error, d time.Duration) {
	if s.obs == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	s.obs.RecordOperation(ctx, operation, status)
	s.obs.RecordDuration(ctx, operation, d)
}

// --- Emails ---

func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.Emails(r.Context()))
}

func (s *Server) handleDeleteEmails(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid JSON body"))
		return
	}
	s.repo.RemoveEmails(r.Context(), req.set())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportEmails(w http.ResponseWriter, r *http.Request) {
	data, err := export.EmailsCSV(s.repo.Emails(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="emails.csv"`)
	_, _ = w.Write(data)
}

// --- Outreach ---

func (s *Server) handleDraftOne(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProspectID string `json:"prospectId"`
		ServiceID  string `json:"serviceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	prospect, ok := s.repo.GetProspectByID(r.Context(), req.ProspectID)
	if !ok {
		writeError(w, apperrors.NewValidationError("unknown prospect id"))
		return
	}
	svc, ok := s.repo.ServiceByID(r.Context(), req.ServiceID)
	if !ok {
		writeError(w, apperrors.NewValidationError("unknown service id"))
		return
	}

	summary, err := s.outreach.DraftBatch(r.Context(),
		[]models.Prospect{prospect}, svc, s.repo.Profile(r.Context()), nil)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleDraftBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProspectIDs []string `json:"prospectIds"`
		ServiceID   string   `json:"serviceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	svc, ok := s.repo.ServiceByID(r.Context(), req.ServiceID)
	if !ok {
		writeError(w, apperrors.NewValidationError("unknown service id"))
		return
	}

	// Unknown ids are not dropped: they count as failed items so the summary
	// always accounts for every id the client submitted.
	var prospects []models.Prospect
	unknown := 0
	for _, id := range req.ProspectIDs {
		p, ok := s.repo.GetProspectByID(r.Context(), id)
		if !ok {
			unknown++
			s.logger.Warn("unknown prospect id in batch request", map[string]interface{}{"id": id})
			continue
		}
		prospects = append(prospects, p)
	}

	start := time.Now()
	summary, err := s.outreach.DraftBatch(r.Context(), prospects, svc,
		s.repo.Profile(r.Context()), func(status string) {
			s.logger.Info("batch progress", map[string]interface{}{"status": status})
		})
	s.recordOperation(r.Context(), "outreach_batch", err, time.Since(start))
	if err != nil {
		writeError(w, err)
		return
	}

	summary.Failed += unknown
	summary.Total += unknown
	writeJSON(w, http.StatusOK, summary)
}

// --- Calls ---

func (s *Server) handleListCalls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.repo.Calls(r.Context()))
}

func (s *Server) handleLogCall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProspectID string `json:"prospectId"`
		Notes      string `json:"notes"`
		Outcome    string `json:"outcome"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid JSON body"))
		return
	}

	prospect, ok := s.repo.GetProspectByID(r.Context(), req.ProspectID)
	if !ok {
		writeError(w, apperrors.NewValidationError("unknown prospect id"))
		return
	}

	call := s.repo.AddCall(r.Context(), prospect, req.Notes, req.Outcome)
	writeJSON(w, http.StatusCreated, call)
}

func (s *Server) handleDeleteCalls(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.NewValidationError("invalid JSON body"))
		return
	}
	s.repo.RemoveCalls(r.Context(), req.set())
	w.WriteHeader(http.StatusNoContent)
}
