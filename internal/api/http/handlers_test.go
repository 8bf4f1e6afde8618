package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cleverbadge/cleverbadge/internal/auth"
	"github.com/cleverbadge/cleverbadge/internal/quiz"
	"github.com/cleverbadge/cleverbadge/internal/session"
)

type testEnv struct {
	store    quiz.Store
	sessions session.Store
	auth     *auth.AuthService
	handler  http.Handler
	test     quiz.Test
}

func opt(id, text string, correct bool) quiz.Option {
	return quiz.Option{ID: id, Text: text, IsCorrect: correct, Explanation: "because " + text}
}

// newTestEnv seeds a three-question test: weights 1/2/2, pass threshold 60,
// explanations after submit over all answers. mutate can tweak the test
// before it is stored.
func newTestEnv(t *testing.T, mutate func(*quiz.Test)) *testEnv {
	t.Helper()
	store := quiz.NewInMemoryStore(2 * time.Hour)
	sessions := session.NewMemoryStore()
	authsvc := auth.NewAuthService("test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("adminpass"), bcrypt.MinCost)
	require.NoError(t, err)

	ctx := context.Background()
	questions := []quiz.Question{
		{ID: "q1", Type: quiz.TypeSingle, Prompt: "2+2?",
			Options: []quiz.Option{opt("a", "3", false), opt("b", "4", true), opt("c", "5", false)}},
		{ID: "q2", Type: quiz.TypeSingle, Prompt: "Capital of France?",
			Options: []quiz.Option{opt("a", "Paris", true), opt("b", "Lyon", false)}},
		{ID: "q3", Type: quiz.TypeMultiple, Prompt: "Which are primes?",
			Options: []quiz.Option{opt("a", "2", true), opt("b", "4", false), opt("c", "6", false), opt("d", "7", true)}},
	}
	for _, q := range questions {
		require.NoError(t, store.PutQuestion(ctx, q))
	}
	tt := quiz.Test{
		ID:               "t1",
		Slug:             "math-geo",
		Title:            "Math & Geography",
		IsEnabled:        true,
		PassThreshold:    60,
		ShowExplanations: quiz.ShowAfterSubmit,
		ExplanationScope: quiz.ScopeAllAnswers,
		Questions: []quiz.TestQuestion{
			{Question: questions[0], Weight: 1},
			{Question: questions[1], Weight: 2},
			{Question: questions[2], Weight: 2},
		},
	}
	if mutate != nil {
		mutate(&tt)
	}
	require.NoError(t, store.PutTest(ctx, tt))

	h := NewRouter(RouterDeps{
		Store:    store,
		Sessions: sessions,
		Guard:    session.NewGuard(2 * time.Hour),
		Auth:     authsvc,
		Admin:    auth.AdminCredentials{Username: "admin", PassHash: string(hash)},
	})
	return &testEnv{store: store, sessions: sessions, auth: authsvc, handler: h, test: tt}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, w)
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, "no error envelope in %s", w.Body.String())
	code, _ := e["code"].(string)
	return code
}

func (e *testEnv) startAssessment(t *testing.T, candidate string) string {
	t.Helper()
	w := e.do(t, "POST", "/api/assessments/start",
		map[string]any{"test_slug": e.test.Slug, "candidate_name": candidate}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, _ := decodeBody(t, w)["assessment_id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestCandidateFlow(t *testing.T) {
	e := newTestEnv(t, nil)

	w := e.do(t, "GET", "/api/tests/math-geo", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	meta := decodeBody(t, w)
	assert.Equal(t, "Math & Geography", meta["title"])
	assert.Equal(t, float64(3), meta["question_count"])
	assert.Equal(t, false, meta["is_protected"])

	w = e.do(t, "POST", "/api/assessments/start",
		map[string]any{"test_slug": "math-geo", "candidate_name": "Dana"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	// Candidate payloads never carry answer keys or explanations.
	assert.NotContains(t, w.Body.String(), "is_correct")
	assert.NotContains(t, w.Body.String(), "explanation")
	id, _ := decodeBody(t, w)["assessment_id"].(string)
	require.NotEmpty(t, id)

	// Right answer on q1; feedback is withheld because the test is
	// after_submit.
	w = e.do(t, "POST", "/api/assessments/"+id+"/answer",
		map[string]any{"question_id": "q1", "selected_options": []string{"b"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	ans := decodeBody(t, w)
	assert.Equal(t, true, ans["saved"])
	assert.NotContains(t, ans, "is_correct")
	assert.NotContains(t, ans, "feedback")

	// Wrong answer on q2. q3 stays unanswered and still counts toward the
	// denominator.
	w = e.do(t, "POST", "/api/assessments/"+id+"/answer",
		map[string]any{"question_id": "q2", "selected_options": []string{"b"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, "GET", "/api/assessments/"+id+"/answers", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	saved, _ := decodeBody(t, w)["answers"].([]any)
	assert.Len(t, saved, 2)

	w = e.do(t, "POST", "/api/assessments/"+id+"/submit", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody(t, w)
	assert.Equal(t, 20.0, res["score_percentage"]) // 1 of 5 weight points
	assert.Equal(t, "not_passed", res["verdict"])
	assert.Equal(t, "completed", res["status"])

	// Submit is exactly-once.
	w = e.do(t, "POST", "/api/assessments/"+id+"/submit", nil, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeAssessmentCompleted, errCode(t, w))

	// So is answering after completion.
	w = e.do(t, "POST", "/api/assessments/"+id+"/answer",
		map[string]any{"question_id": "q3", "selected_options": []string{"a", "d"}}, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeAssessmentCompleted, errCode(t, w))
}

func TestStartValidation(t *testing.T) {
	e := newTestEnv(t, nil)

	w := e.do(t, "POST", "/api/assessments/start",
		map[string]any{"test_slug": "math-geo", "candidate_name": "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidation, errCode(t, w))

	w = e.do(t, "POST", "/api/assessments/start",
		map[string]any{"test_slug": "no-such-test", "candidate_name": "Dana"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, errCode(t, w))
}

func TestDisabledTestLooksAbsent(t *testing.T) {
	e := newTestEnv(t, func(tt *quiz.Test) { tt.IsEnabled = false })

	w := e.do(t, "GET", "/api/tests/math-geo", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeTestDisabled, errCode(t, w))

	w = e.do(t, "POST", "/api/assessments/start",
		map[string]any{"test_slug": "math-geo", "candidate_name": "Dana"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeTestDisabled, errCode(t, w))
}

func TestProtectedTest(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	e := newTestEnv(t, func(tt *quiz.Test) { tt.AccessCodeHash = string(hash) })

	w := e.do(t, "GET", "/api/tests/math-geo", nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, CodeProtectedTest, errCode(t, w))

	w = e.do(t, "GET", "/api/tests/math-geo", nil, map[string]string{"X-Access-Code": "wrong"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, "GET", "/api/tests/math-geo", nil, map[string]string{"X-Access-Code": "open-sesame"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["is_protected"])

	w = e.do(t, "POST", "/api/assessments/start",
		map[string]any{"test_slug": "math-geo", "candidate_name": "Dana"}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, CodeProtectedTest, errCode(t, w))

	w = e.do(t, "POST", "/api/assessments/start",
		map[string]any{"test_slug": "math-geo", "candidate_name": "Dana", "access_code": "open-sesame"}, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAnswerFeedbackAfterEachQuestion(t *testing.T) {
	e := newTestEnv(t, func(tt *quiz.Test) {
		tt.ShowExplanations = quiz.ShowAfterEachQuestion
		tt.ExplanationScope = quiz.ScopeSelectedOnly
	})
	id := e.startAssessment(t, "Dana")

	w := e.do(t, "POST", "/api/assessments/"+id+"/answer",
		map[string]any{"question_id": "q1", "selected_options": []string{"a"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	ans := decodeBody(t, w)
	assert.Equal(t, false, ans["is_correct"])
	fb, ok := ans["feedback"].([]any)
	require.True(t, ok, "feedback missing: %s", w.Body.String())
	// selected_only: feedback covers just the one picked option.
	require.Len(t, fb, 1)
	entry := fb[0].(map[string]any)
	assert.Equal(t, "a", entry["id"])
	assert.Equal(t, false, entry["is_correct"])
	assert.Equal(t, true, entry["was_selected"])
	assert.Equal(t, "because 3", entry["explanation"])
}

func TestSubmitFeedbackReview(t *testing.T) {
	e := newTestEnv(t, nil)
	id := e.startAssessment(t, "Dana")

	// Review before submit is a conflict.
	w := e.do(t, "GET", "/api/assessments/"+id+"/feedback", nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	for qid, sel := range map[string][]string{
		"q1": {"b"}, "q2": {"a"}, "q3": {"a"},
	} {
		w = e.do(t, "POST", "/api/assessments/"+id+"/answer",
			map[string]any{"question_id": qid, "selected_options": sel}, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = e.do(t, "POST", "/api/assessments/"+id+"/submit", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 60.0, decodeBody(t, w)["score_percentage"]) // q3 partial set is wrong
	assert.Equal(t, "passed", decodeBody(t, w)["verdict"])

	w = e.do(t, "GET", "/api/assessments/"+id+"/feedback", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody(t, w)
	qs, _ := res["questions"].([]any)
	require.Len(t, qs, 3)
	// all_answers scope: every option of q3 is covered, selected or not.
	var q3 map[string]any
	for _, raw := range qs {
		q := raw.(map[string]any)
		if q["question_id"] == "q3" {
			q3 = q
		}
	}
	require.NotNil(t, q3)
	assert.Equal(t, false, q3["is_correct"])
	assert.Len(t, q3["options"].([]any), 4)
}

func TestFeedbackHiddenWhenPolicyNever(t *testing.T) {
	e := newTestEnv(t, func(tt *quiz.Test) { tt.ShowExplanations = quiz.ShowNever })
	id := e.startAssessment(t, "Dana")

	w := e.do(t, "POST", "/api/assessments/"+id+"/submit", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, "GET", "/api/assessments/"+id+"/feedback", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody(t, w)
	assert.NotNil(t, res["score_percentage"])
	assert.Nil(t, res["questions"])
}

func TestSessionLifecycle(t *testing.T) {
	e := newTestEnv(t, nil)
	id := e.startAssessment(t, "Dana")
	path := "/api/tests/math-geo/session?candidate=Dana"

	// Nothing saved yet.
	w := e.do(t, "GET", path, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, "PUT", path, map[string]any{"assessment_id": id, "current_question": 2}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, "GET", path, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decodeBody(t, w)
	assert.Equal(t, true, res["resumable"])
	s := res["session"].(map[string]any)
	assert.Equal(t, id, s["assessment_id"])
	assert.Equal(t, float64(2), s["current_question"])

	// Candidate is part of the key; a different name sees nothing.
	w = e.do(t, "GET", "/api/tests/math-geo/session?candidate=Eve", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Once the assessment completes, the cached session is stale: the GET
	// re-validates, reports the conflict, and purges the entry.
	w = e.do(t, "POST", "/api/assessments/"+id+"/submit", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, "GET", path, nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, CodeAssessmentCompleted, errCode(t, w))
	w = e.do(t, "GET", path, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionSaveRejectsFinishedAssessment(t *testing.T) {
	e := newTestEnv(t, nil)
	id := e.startAssessment(t, "Dana")
	w := e.do(t, "POST", "/api/assessments/"+id+"/submit", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, "PUT", "/api/tests/math-geo/session?candidate=Dana",
		map[string]any{"assessment_id": id, "current_question": 1}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSessionClear(t *testing.T) {
	e := newTestEnv(t, nil)
	id := e.startAssessment(t, "Dana")
	path := "/api/tests/math-geo/session?candidate=Dana"

	w := e.do(t, "PUT", path, map[string]any{"assessment_id": id}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, "DELETE", path, nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = e.do(t, "GET", path, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Missing candidate is a validation error, not a 404.
	w = e.do(t, "GET", "/api/tests/math-geo/session", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (e *testEnv) login(t *testing.T, user, pass string) (string, int) {
	t.Helper()
	w := e.do(t, "POST", "/auth/login", map[string]string{"username": user, "password": pass}, nil)
	if w.Code != http.StatusOK {
		return "", w.Code
	}
	tok, _ := decodeBody(t, w)["access_token"].(string)
	return tok, w.Code
}

func TestAdminAuth(t *testing.T) {
	e := newTestEnv(t, nil)

	w := e.do(t, "GET", "/api/questions", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, code := e.login(t, "admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, code)

	tok, code := e.login(t, "admin", "adminpass")
	require.Equal(t, http.StatusOK, code)
	bearer := map[string]string{"Authorization": "Bearer " + tok}

	w = e.do(t, "GET", "/api/questions", nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	qs, _ := decodeBody(t, w)["questions"].([]any)
	assert.Len(t, qs, 3)
}

func TestRBACEditorCannotViewResults(t *testing.T) {
	e := newTestEnv(t, nil)
	tok, err := e.auth.IssueJWT("sam", "editor")
	require.NoError(t, err)
	bearer := map[string]string{"Authorization": "Bearer " + tok}

	// Editors manage the bank...
	w := e.do(t, "POST", "/api/questions", map[string]any{
		"type":   "single",
		"prompt": "Largest ocean?",
		"options": []map[string]any{
			{"text": "Pacific", "is_correct": true},
			{"text": "Atlantic"},
		},
	}, bearer)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// ...but results are admin-only.
	w = e.do(t, "GET", "/api/tests/id/"+e.test.ID+"/stats", nil, bearer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = e.do(t, "DELETE", "/api/tests/id/"+e.test.ID, nil, bearer)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminTestCRUDAndStats(t *testing.T) {
	e := newTestEnv(t, nil)
	tok, err := e.auth.IssueJWT("admin", "admin")
	require.NoError(t, err)
	bearer := map[string]string{"Authorization": "Bearer " + tok}

	w := e.do(t, "POST", "/api/questions/import", `
questions:
  - prompt: "Boiling point of water at sea level?"
    options:
      - text: "90C"
      - text: "100C"
        correct: true
  - type: multiple
    prompt: "Even numbers?"
    options:
      - text: "2"
        correct: true
      - text: "3"
      - text: "8"
        correct: true
`, bearer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(2), decodeBody(t, w)["imported"])

	// Create a protected test over two bank questions; slug is generated.
	w = e.do(t, "POST", "/api/tests", map[string]any{
		"title":             "Physics quick check",
		"is_enabled":        true,
		"pass_threshold":    50,
		"show_explanations": "after_submit",
		"explanation_scope": "all_answers",
		"access_code":       "letmein",
		"questions": []map[string]any{
			{"question_id": "q1"},
			{"question_id": "q2", "weight": 3},
		},
	}, bearer)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody(t, w)
	slug, _ := created["slug"].(string)
	require.NotEmpty(t, slug)
	testID, _ := created["id"].(string)

	// The hash never serializes.
	assert.NotContains(t, w.Body.String(), "access_code")
	w = e.do(t, "GET", "/api/tests/"+slug, nil, map[string]string{"X-Access-Code": "letmein"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["is_protected"])

	// Drive two attempts through the seeded test, then read stats.
	for i, sel := range [][]string{{"b"}, {"a"}} {
		id := e.startAssessment(t, fmt.Sprintf("cand-%d", i))
		w = e.do(t, "POST", "/api/assessments/"+id+"/answer",
			map[string]any{"question_id": "q1", "selected_options": sel}, nil)
		require.Equal(t, http.StatusOK, w.Code)
		w = e.do(t, "POST", "/api/assessments/"+id+"/submit", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w = e.do(t, "GET", "/api/tests/id/"+e.test.ID+"/stats", nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decodeBody(t, w)
	assert.Equal(t, float64(2), stats["completed"])
	perQ, _ := stats["per_question"].([]any)
	require.Len(t, perQ, 3)
	first := perQ[0].(map[string]any)
	assert.Equal(t, "q1", first["question_id"])
	assert.Equal(t, float64(2), first["answered"])
	assert.Equal(t, 50.0, first["correct_rate"])

	w = e.do(t, "GET", "/api/tests/id/"+testID+"/assessments", nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	as, _ := decodeBody(t, w)["assessments"].([]any)
	assert.Len(t, as, 0)

	w = e.do(t, "DELETE", "/api/tests/id/"+testID, nil, bearer)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = e.do(t, "GET", "/api/tests/id/"+testID, nil, bearer)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExpiredAssessmentIsGone(t *testing.T) {
	// A tiny TTL stands in for the clock: anything older than it is expired.
	store := quiz.NewInMemoryStore(time.Nanosecond)
	authsvc := auth.NewAuthService("test-secret")
	ctx := context.Background()
	q := quiz.Question{ID: "q1", Type: quiz.TypeSingle, Prompt: "p",
		Options: []quiz.Option{opt("a", "x", true), opt("b", "y", false)}}
	require.NoError(t, store.PutQuestion(ctx, q))
	require.NoError(t, store.PutTest(ctx, quiz.Test{
		ID: "t1", Slug: "s", Title: "T", IsEnabled: true,
		ShowExplanations: quiz.ShowNever, ExplanationScope: quiz.ScopeSelectedOnly,
		Questions:        []quiz.TestQuestion{{Question: q, Weight: 1}},
	}))
	e := &testEnv{store: store, sessions: session.NewMemoryStore(), auth: authsvc, test: quiz.Test{Slug: "s"}}
	e.handler = NewRouter(RouterDeps{
		Store:    store,
		Sessions: e.sessions,
		Guard:    session.NewGuard(time.Nanosecond),
		Auth:     authsvc,
	})

	id := e.startAssessment(t, "Dana")
	time.Sleep(2 * time.Millisecond)

	w := e.do(t, "POST", "/api/assessments/"+id+"/answer",
		map[string]any{"question_id": "q1", "selected_options": []string{"a"}}, nil)
	require.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, CodeAssessmentExpired, errCode(t, w))

	// The expiry write-through flips the row; later calls see abandoned.
	w = e.do(t, "POST", "/api/assessments/"+id+"/submit", nil, nil)
	require.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, CodeAssessmentAbandoned, errCode(t, w))

	w = e.do(t, "GET", "/api/assessments/"+id+"/answers", nil, nil)
	require.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, CodeAssessmentAbandoned, errCode(t, w))
}

func TestImportRejectsBadYAML(t *testing.T) {
	e := newTestEnv(t, nil)
	tok, err := e.auth.IssueJWT("admin", "admin")
	require.NoError(t, err)
	bearer := map[string]string{"Authorization": "Bearer " + tok}

	w := e.do(t, "POST", "/api/questions/import", "questions: []", bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeValidation, errCode(t, w))

	w = e.do(t, "POST", "/api/questions/import", strings.TrimSpace(`
questions:
  - type: single
    prompt: "p"
    options:
      - text: "a"
`), bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
