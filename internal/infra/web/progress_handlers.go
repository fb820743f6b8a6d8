package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type recordViewRequest struct {
	WatchTime float64 `json:"watchTime"`
	Completed bool    `json:"completed"`
}

func (s *Server) handleRecordView(w http.ResponseWriter, r *http.Request) {
	var req recordViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims := ClaimsFrom(r.Context())

	cp, err := s.progressUC.RecordView(r.Context(), claims.Subject, chi.URLParam(r, "courseID"), chi.URLParam(r, "lectureID"), req.WatchTime, req.Completed)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cp)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	cp, err := s.progressUC.Get(r.Context(), claims.Subject, chi.URLParam(r, "courseID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, cp)
}

func (s *Server) handleStreamLecture(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFrom(r.Context())
	url, err := s.lectureUC.StreamURL(r.Context(), claims.Subject, chi.URLParam(r, "lectureID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
