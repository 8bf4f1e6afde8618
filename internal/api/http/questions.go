package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cleverbadge/cleverbadge/internal/quiz"
)

type questionReq struct {
	Type    quiz.QuestionType `json:"type"`
	Prompt  string            `json:"prompt"`
	Options []quiz.Option     `json:"options"`
}

// POST /api/questions
func CreateQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req questionReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, "bad json")
			return
		}
		q := quiz.Question{ID: uuid.NewString(), Type: req.Type, Prompt: req.Prompt, Options: req.Options}
		// Assign stable index-based IDs when the client sent none.
		for i := range q.Options {
			if q.Options[i].ID == "" {
				q.Options[i].ID = strconv.Itoa(i)
			}
		}
		if err := store.PutQuestion(r.Context(), q); err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

// PUT /api/questions/{questionID}
func UpdateQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "questionID")
		if _, err := store.GetQuestion(r.Context(), id); err != nil {
			writeDomainErr(w, err)
			return
		}
		var req questionReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, "bad json")
			return
		}
		q := quiz.Question{ID: id, Type: req.Type, Prompt: req.Prompt, Options: req.Options}
		if err := store.PutQuestion(r.Context(), q); err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// GET /api/questions/{questionID}
func GetQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.GetQuestion(r.Context(), chi.URLParam(r, "questionID"))
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// GET /api/questions?q=...&limit=...&offset=...
func ListQuestionsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := quiz.ListOpts{
			Q:      strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		list, err := store.ListQuestions(r.Context(), opts)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"questions": list})
	}
}

// DELETE /api/questions/{questionID}
func DeleteQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteQuestion(r.Context(), chi.URLParam(r, "questionID")); err != nil {
			writeDomainErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /api/questions/import — YAML question bank in the request body.
func ImportQuestionsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs, err := quiz.ParseQuestionsYAML(r.Body)
		if err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, err.Error())
			return
		}
		for _, q := range qs {
			if err := store.PutQuestion(r.Context(), q); err != nil {
				writeErr(w, http.StatusInternalServerError, CodeInternal, err.Error())
				return
			}
		}
		writeJSON(w, http.StatusCreated, map[string]any{"imported": len(qs)})
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
