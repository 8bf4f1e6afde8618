package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cleverbadge/cleverbadge/internal/events"
	"github.com/cleverbadge/cleverbadge/internal/quiz"
)

// candidateOption strips answer keys and explanations from options served to
// a candidate mid-attempt.
type candidateOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type candidateQuestion struct {
	ID      string            `json:"id"`
	Type    quiz.QuestionType `json:"type"`
	Prompt  string            `json:"prompt"`
	Options []candidateOption `json:"options"`
	Weight  int               `json:"weight"`
}

func sanitizeQuestions(tqs []quiz.TestQuestion) []candidateQuestion {
	out := make([]candidateQuestion, 0, len(tqs))
	for _, tq := range tqs {
		cq := candidateQuestion{
			ID:     tq.Question.ID,
			Type:   tq.Question.Type,
			Prompt: tq.Question.Prompt,
			Weight: tq.Weight,
		}
		for _, o := range tq.Question.Options {
			cq.Options = append(cq.Options, candidateOption{ID: o.ID, Text: o.Text})
		}
		out = append(out, cq)
	}
	return out
}

type testPolicy struct {
	ShowExplanations quiz.ShowExplanations `json:"show_explanations"`
	ExplanationScope quiz.ExplanationScope `json:"explanation_scope"`
	PassThreshold    int                   `json:"pass_threshold"`
}

// checkAccessCode gates protected tests. An empty hash means open access.
func checkAccessCode(t quiz.Test, code string) error {
	if t.AccessCodeHash == "" {
		return nil
	}
	if code == "" {
		return quiz.ErrProtected
	}
	if bcrypt.CompareHashAndPassword([]byte(t.AccessCodeHash), []byte(code)) != nil {
		return quiz.ErrProtected
	}
	return nil
}

// POST /api/assessments/start {test_slug, candidate_name, access_code?}
func StartAssessmentHandler(store quiz.Store, ev *events.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			TestSlug      string `json:"test_slug"`
			CandidateName string `json:"candidate_name"`
			AccessCode    string `json:"access_code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, "bad json")
			return
		}
		req.CandidateName = strings.TrimSpace(req.CandidateName)
		if req.TestSlug == "" || req.CandidateName == "" {
			writeErr(w, http.StatusBadRequest, CodeValidation, "test_slug and candidate_name required")
			return
		}
		t, err := store.GetTestBySlug(r.Context(), req.TestSlug)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		if !t.IsEnabled {
			writeErr(w, http.StatusNotFound, CodeTestDisabled, "test disabled")
			return
		}
		if err := checkAccessCode(t, req.AccessCode); err != nil {
			writeDomainErr(w, err)
			return
		}
		a, err := store.StartAssessment(r.Context(), t.ID, req.CandidateName)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		if ev != nil {
			_ = ev.Append(r.Context(), events.TypeAssessmentStarted, a.ID,
				map[string]string{"test_id": t.ID, "candidate": a.CandidateName})
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"assessment_id": a.ID,
			"questions":     sanitizeQuestions(a.Questions),
			"test": testPolicy{
				ShowExplanations: t.ShowExplanations,
				ExplanationScope: t.ExplanationScope,
				PassThreshold:    t.PassThreshold,
			},
		})
	}
}

// POST /api/assessments/{assessmentID}/answer {question_id, selected_options}
// Feedback rides along only under the after_each_question policy.
func SaveAnswerHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assessmentID")
		var req struct {
			QuestionID      string   `json:"question_id"`
			SelectedOptions []string `json:"selected_options"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, CodeValidation, "bad json")
			return
		}
		if req.QuestionID == "" {
			writeErr(w, http.StatusBadRequest, CodeValidation, "question_id required")
			return
		}
		ans, err := store.SaveAnswer(r.Context(), id, req.QuestionID, req.SelectedOptions)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		resp := map[string]any{"saved": true}
		a, err := store.GetAssessment(r.Context(), id)
		if err == nil {
			if t, terr := store.GetTest(r.Context(), a.TestID); terr == nil {
				policy := t.Policy()
				if policy.Reveals(quiz.ContextAfterQuestion) {
					if tq, ok := a.QuestionByID(req.QuestionID); ok {
						resp["is_correct"] = ans.IsCorrect
						resp["feedback"] = quiz.ProjectFeedback(tq.Question, ans.Selected, policy, quiz.ContextAfterQuestion)
					}
				}
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GET /api/assessments/{assessmentID}/answers — saved selections, for resume.
// Correctness is not included: disclosure stays with the projector.
func ListAnswersHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assessmentID")
		a, err := store.GetAssessment(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		if a.Status == quiz.StatusAbandoned {
			writeErr(w, http.StatusGone, CodeAssessmentAbandoned, "assessment abandoned")
			return
		}
		answers, err := store.ListAnswers(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		type item struct {
			QuestionID      string   `json:"question_id"`
			SelectedOptions []string `json:"selected_options"`
		}
		out := make([]item, 0, len(answers))
		for _, ans := range answers {
			out = append(out, item{QuestionID: ans.QuestionID, SelectedOptions: ans.Selected})
		}
		writeJSON(w, http.StatusOK, map[string]any{"answers": out})
	}
}

// POST /api/assessments/{assessmentID}/submit — scores exactly once.
func SubmitAssessmentHandler(store quiz.Store, ev *events.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assessmentID")
		a, err := store.SubmitAssessment(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		t, err := store.GetTest(r.Context(), a.TestID)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		score := 0.0
		if a.ScorePercentage != nil {
			score = *a.ScorePercentage
		}
		if ev != nil {
			_ = ev.Append(r.Context(), events.TypeAssessmentSubmitted, a.ID,
				map[string]any{"test_id": a.TestID, "score_percentage": score})
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"score_percentage": score,
			"pass_threshold":   t.PassThreshold,
			"verdict":          quiz.PassVerdict(score, t.PassThreshold),
			"status":           a.Status,
		})
	}
}

// GET /api/assessments/{assessmentID}/feedback — post-submit review.
func AssessmentFeedbackHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assessmentID")
		a, err := store.GetAssessment(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		switch a.Status {
		case quiz.StatusCompleted:
		case quiz.StatusAbandoned:
			writeErr(w, http.StatusGone, CodeAssessmentAbandoned, "assessment abandoned")
			return
		default:
			writeErr(w, http.StatusConflict, CodeValidation, "assessment not submitted yet")
			return
		}
		t, err := store.GetTest(r.Context(), a.TestID)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		answers, err := store.ListAnswers(r.Context(), id)
		if err != nil {
			writeDomainErr(w, err)
			return
		}
		selected := map[string][]string{}
		for _, ans := range answers {
			selected[ans.QuestionID] = ans.Selected
		}
		score := 0.0
		if a.ScorePercentage != nil {
			score = *a.ScorePercentage
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"score_percentage": score,
			"pass_threshold":   t.PassThreshold,
			"verdict":          quiz.PassVerdict(score, t.PassThreshold),
			"questions":        quiz.ProjectSubmitFeedback(a.Questions, selected, t.Policy()),
		})
	}
}
