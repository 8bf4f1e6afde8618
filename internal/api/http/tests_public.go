package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cleverbadge/cleverbadge/internal/quiz"
)

// GET /api/tests/{slug} — candidate-facing test metadata behind the share
// link. Disabled tests look like they don't exist; protected tests require
// the X-Access-Code header.
func GetPublicTestHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		t, err := store.GetTestBySlug(r.Context(), slug)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		if !t.IsEnabled {
			writeErr(w, http.StatusNotFound, CodeTestDisabled, "test disabled")
			return
		}
		if err := checkAccessCode(t, r.Header.Get("X-Access-Code")); err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"slug":           t.Slug,
			"title":          t.Title,
			"description":    t.Description,
			"question_count": len(t.Questions),
			"is_protected":   t.AccessCodeHash != "",
			"test": testPolicy{
				ShowExplanations: t.ShowExplanations,
				ExplanationScope: t.ExplanationScope,
				PassThreshold:    t.PassThreshold,
			},
		})
	}
}
