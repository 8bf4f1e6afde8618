package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cleverbadge/cleverbadge/internal/quiz"
)

type testQuestionReq struct {
	QuestionID string `json:"question_id"`
	Weight     int    `json:"weight"`
}

type testReq struct {
	Slug             string                `json:"slug"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	IsEnabled        bool                  `json:"is_enabled"`
	PassThreshold    int                   `json:"pass_threshold"`
	ShowExplanations quiz.ShowExplanations `json:"show_explanations"`
	ExplanationScope quiz.ExplanationScope `json:"explanation_scope"`
	AccessCode       *string               `json:"access_code"` // nil keeps current; "" clears
	Questions        []testQuestionReq     `json:"questions"`
}

// buildTest resolves question links against the bank and applies defaults.
func buildTest(r *http.Request, store quiz.Store, id string, req testReq, currentHash string) (quiz.Test, error) {
	if req.ShowExplanations == "" {
		req.ShowExplanations = quiz.ShowNever
	}
	if req.ExplanationScope == "" {
		req.ExplanationScope = quiz.ScopeSelectedOnly
	}
	t := quiz.Test{
		ID:               id,
		Slug:             req.Slug,
		Title:            req.Title,
		Description:      req.Description,
		IsEnabled:        req.IsEnabled,
		PassThreshold:    req.PassThreshold,
		ShowExplanations: req.ShowExplanations,
		ExplanationScope: req.ExplanationScope,
		AccessCodeHash:   currentHash,
	}
	if t.Slug == "" {
		t.Slug = quiz.NewSlug()
	}
	if req.AccessCode != nil {
		if *req.AccessCode == "" {
			t.AccessCodeHash = ""
		} else {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.AccessCode), bcrypt.DefaultCost)
			if err != nil {
				return quiz.Test{}, err
			}
			t.AccessCodeHash = string(hash)
		}
	}
	for _, link := range req.Questions {
		q, err := store.GetQuestion(r.Context(), link.QuestionID)
		if err != nil {
			return quiz.Test{}, err
		}
		w := link.Weight
		if w == 0 {
			w = 1
		}
		t.Questions = append(t.Questions, quiz.TestQuestion{Question: q, Weight: w})
	}
	return t, nil
}

// POST /api/tests
func CreateTestHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req testReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, "bad json")
			return
		}
		t, err := buildTest(r, store, uuid.NewString(), req, "")
		if err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, err.Error())
			return
		}
		if err := store.PutTest(r.Context(), t); err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, t)
	}
}

// PUT /api/tests/{testID}
func UpdateTestHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "testID")
		cur, err := store.GetTest(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		var req testReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, "bad json")
			return
		}
		if req.Slug == "" {
			req.Slug = cur.Slug
		}
		t, err := buildTest(r, store, id, req, cur.AccessCodeHash)
		if err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, err.Error())
			return
		}
		if err := store.PutTest(r.Context(), t); err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// GET /api/tests/{testID} — full test including answer keys, admin only.
func GetTestHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := store.GetTest(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	}
}

// GET /api/tests
func ListTestsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := quiz.ListOpts{
			Q:      strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		list, err := store.ListTests(r.Context(), opts)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"tests": list})
	}
}

// DELETE /api/tests/{testID}
func DeleteTestHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteTest(r.Context(), chi.URLParam(r, "testID")); err != nil {
			writeDomainErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /api/tests/{testID}/assessments?status=...
func ListTestAssessmentsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := quiz.AssessmentListOpts{
			TestID: chi.URLParam(r, "testID"),
			Status: strings.TrimSpace(r.URL.Query().Get("status")),
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		list, err := store.ListAssessments(r.Context(), opts)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"assessments": list})
	}
}

// GET /api/tests/{testID}/stats
func TestStatsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := store.GetTestStats(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

// GET /api/assessments/{assessmentID} — admin detail view: snapshot,
// selections, per-question correctness.
func GetAssessmentDetailHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assessmentID")
		a, err := store.GetAssessment(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		answers, err := store.ListAnswers(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"assessment": a, "answers": answers})
	}
}
