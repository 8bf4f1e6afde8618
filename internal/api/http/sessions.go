package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cleverbadge/cleverbadge/internal/quiz"
	"github.com/cleverbadge/cleverbadge/internal/session"
)

// Resumable-session endpoints. The store is a server-side mirror of what the
// SPA used to keep in localStorage: progress keyed by test slug + candidate.
// Freshness here is advisory; GET re-validates the assessment row and
// distinguishes expired from abandoned so the UI can phrase the restart
// prompt.

func sessionKeyFromRequest(r *http.Request) (string, string, bool) {
	slug := chi.URLParam(r, "slug")
	candidate := strings.TrimSpace(r.URL.Query().Get("candidate"))
	if slug == "" || candidate == "" {
		return "", "", false
	}
	return session.Key(slug, candidate), candidate, true
}

// GET /api/tests/{slug}/session?candidate=...
func GetSessionHandler(store quiz.Store, sessions session.Store, guard *session.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, _, ok := sessionKeyFromRequest(r)
		if !ok {
			writeErr(w, http.StatusBadRequest, CodeValidation, "candidate required")
			return
		}
		s, ok, err := guard.LoadIfFresh(r.Context(), sessions, key)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		if !ok {
			writeErr(w, http.StatusNotFound, CodeNotFound, "no resumable session")
			return
		}
		// Server-side confirmation: the cache can't know the assessment was
		// independently completed or swept.
		a, err := store.GetAssessment(r.Context(), s.AssessmentID)
		if err != nil {
			_ = sessions.Clear(r.Context(), key)
			writeDomainErr(w, err)
			return
		}
		if err := a.ActiveErr(time.Now(), guard.TTL); err != nil {
			_ = sessions.Clear(r.Context(), key)
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"session": s, "resumable": true})
	}
}

// PUT /api/tests/{slug}/session?candidate=... {assessment_id, current_question}
func PutSessionHandler(store quiz.Store, sessions session.Store, guard *session.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, candidate, ok := sessionKeyFromRequest(r)
		if !ok {
			writeErr(w, http.StatusBadRequest, CodeValidation, "candidate required")
			return
		}
		var req struct {
			AssessmentID    string `json:"assessment_id"`
			CurrentQuestion int    `json:"current_question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, "bad json")
			return
		}
		if req.AssessmentID == "" {
			writeErr(w, http.StatusBadRequest, CodeValidation, "assessment_id required")
			return
		}
		a, err := store.GetAssessment(r.Context(), req.AssessmentID)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		if a.Status != quiz.StatusStarted {
			writeErr(w, http.StatusConflict, CodeValidation, "assessment is not in progress")
			return
		}
		s := session.Session{
			AssessmentID:    req.AssessmentID,
			CandidateName:   candidate,
			CurrentQuestion: req.CurrentQuestion,
			SavedAt:         time.Now(),
		}
		if err := sessions.Put(r.Context(), key, s, guard.TTL); err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"saved": true})
	}
}

// DELETE /api/tests/{slug}/session?candidate=...
func ClearSessionHandler(sessions session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, _, ok := sessionKeyFromRequest(r)
		if !ok {
			writeErr(w, http.StatusBadRequest, CodeValidation, "candidate required")
			return
		}
		if err := sessions.Clear(r.Context(), key); err != nil {
			writeDomainErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
