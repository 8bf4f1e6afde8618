package quiz

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// memoryStore keeps everything in maps. Used in handler tests and as a
// zero-dependency dev fallback; the SQL store is the production path.
type memoryStore struct {
	mu          sync.RWMutex
	questions   map[string]Question
	tests       map[string]Test
	assessments map[string]Assessment
	answers     map[string]map[string]Answer // assessmentID -> questionID -> answer
	ttl         time.Duration
	now         func() time.Time
}

func NewInMemoryStore(ttl time.Duration) Store {
	return &memoryStore{
		questions:   map[string]Question{},
		tests:       map[string]Test{},
		assessments: map[string]Assessment{},
		answers:     map[string]map[string]Answer{},
		ttl:         ttl,
		now:         time.Now,
	}
}

func (m *memoryStore) PutQuestion(_ context.Context, q Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().Unix()
	if old, ok := m.questions[q.ID]; ok {
		q.CreatedAt = old.CreatedAt
	} else {
		q.CreatedAt = now
	}
	q.UpdatedAt = now
	m.questions[q.ID] = q
	return nil
}

func (m *memoryStore) GetQuestion(_ context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return q, nil
}

func (m *memoryStore) ListQuestions(_ context.Context, opts ListOpts) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Question
	for _, q := range m.questions {
		if opts.Q != "" && !strings.Contains(q.Prompt, opts.Q) {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return page(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) DeleteQuestion(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return ErrNotFound
	}
	delete(m.questions, id)
	return nil
}

func (m *memoryStore) PutTest(_ context.Context, t Test) error {
	if err := t.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.tests[t.ID]; ok {
		t.CreatedAt = old.CreatedAt
	} else {
		t.CreatedAt = m.now().Unix()
	}
	m.tests[t.ID] = t
	return nil
}

func (m *memoryStore) GetTest(_ context.Context, id string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok {
		return Test{}, ErrNotFound
	}
	return m.resolveQuestions(t), nil
}

func (m *memoryStore) GetTestBySlug(_ context.Context, slug string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tests {
		if t.Slug == slug {
			return m.resolveQuestions(t), nil
		}
	}
	return Test{}, ErrNotFound
}

// resolveQuestions swaps each link's question for the live bank copy when the
// bank has it; callers see current content the way the SQL join does.
func (m *memoryStore) resolveQuestions(t Test) Test {
	out := make([]TestQuestion, 0, len(t.Questions))
	for _, tq := range t.Questions {
		if q, ok := m.questions[tq.Question.ID]; ok {
			tq.Question = q
		}
		out = append(out, tq)
	}
	t.Questions = out
	return t
}

func (m *memoryStore) ListTests(_ context.Context, opts ListOpts) ([]TestSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []TestSummary
	for _, t := range m.tests {
		if opts.Q != "" && !strings.Contains(t.Title, opts.Q) {
			continue
		}
		out = append(out, TestSummary{
			ID:            t.ID,
			Slug:          t.Slug,
			Title:         t.Title,
			IsEnabled:     t.IsEnabled,
			PassThreshold: t.PassThreshold,
			QuestionCount: len(t.Questions),
			CreatedAt:     t.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return page(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) DeleteTest(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tests[id]; !ok {
		return ErrNotFound
	}
	delete(m.tests, id)
	return nil
}

func (m *memoryStore) StartAssessment(_ context.Context, testID, candidateName string) (Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tests[testID]
	if !ok {
		return Assessment{}, ErrNotFound
	}
	if !t.IsEnabled {
		return Assessment{}, ErrDisabled
	}
	t = m.resolveQuestions(t)
	a := Assessment{
		ID:            uuid.NewString(),
		TestID:        t.ID,
		CandidateName: candidateName,
		Status:        StatusStarted,
		Questions:     t.Questions,
		StartedAt:     m.now().Unix(),
	}
	m.assessments[a.ID] = a
	m.answers[a.ID] = map[string]Answer{}
	return a, nil
}

func (m *memoryStore) GetAssessment(_ context.Context, id string) (Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.assessments[id]
	if !ok {
		return Assessment{}, ErrNotFound
	}
	return a, nil
}

func (m *memoryStore) SaveAnswer(_ context.Context, assessmentID, questionID string, selected []string) (Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessments[assessmentID]
	if !ok {
		return Answer{}, ErrNotFound
	}
	if err := a.ActiveErr(m.now(), m.ttl); err != nil {
		if err == ErrExpired {
			a.Status = StatusAbandoned
			m.assessments[assessmentID] = a
		}
		return Answer{}, err
	}
	tq, ok := a.QuestionByID(questionID)
	if !ok {
		return Answer{}, ErrNotFound
	}
	if selected == nil {
		selected = []string{}
	}
	ans := Answer{
		QuestionID: questionID,
		Selected:   selected,
		IsCorrect:  IsQuestionCorrect(tq.Question, selected),
		AnsweredAt: m.now().Unix(),
	}
	m.answers[assessmentID][questionID] = ans
	return ans, nil
}

func (m *memoryStore) ListAnswers(_ context.Context, assessmentID string) ([]Answer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byQ, ok := m.answers[assessmentID]
	if !ok {
		return nil, nil
	}
	out := make([]Answer, 0, len(byQ))
	for _, ans := range byQ {
		out = append(out, ans)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AnsweredAt < out[j].AnsweredAt })
	return out, nil
}

func (m *memoryStore) SubmitAssessment(_ context.Context, id string) (Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assessments[id]
	if !ok {
		return Assessment{}, ErrNotFound
	}
	if err := a.ActiveErr(m.now(), m.ttl); err != nil {
		if err == ErrExpired {
			a.Status = StatusAbandoned
			m.assessments[id] = a
		}
		return Assessment{}, err
	}
	selected := map[string][]string{}
	for qid, ans := range m.answers[id] {
		selected[qid] = ans.Selected
	}
	score := ComputeScore(a.Questions, selected)
	completedAt := m.now().Unix()
	a.Status = StatusCompleted
	a.ScorePercentage = &score
	a.CompletedAt = &completedAt
	m.assessments[id] = a
	return a, nil
}

func (m *memoryStore) ListAssessments(_ context.Context, opts AssessmentListOpts) ([]Assessment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Assessment
	for _, a := range m.assessments {
		if opts.TestID != "" && a.TestID != opts.TestID {
			continue
		}
		if opts.Status != "" && string(a.Status) != opts.Status {
			continue
		}
		a.Questions = nil // list view carries no snapshot
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt > out[j].StartedAt })
	return page(out, opts.Limit, opts.Offset), nil
}

func (m *memoryStore) AbandonStale(_ context.Context, cutoff time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, a := range m.assessments {
		if a.Status == StatusStarted && a.StartedAt < cutoff.Unix() {
			a.Status = StatusAbandoned
			m.assessments[id] = a
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *memoryStore) GetTestStats(ctx context.Context, testID string) (TestStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[testID]
	if !ok {
		return TestStats{}, ErrNotFound
	}
	st := TestStats{TestID: testID}
	var scoreSum float64
	var passed int
	answered := map[string]int{}
	correct := map[string]int{}
	for id, a := range m.assessments {
		if a.TestID != testID {
			continue
		}
		switch a.Status {
		case StatusStarted:
			st.Started++
		case StatusAbandoned:
			st.Abandoned++
		case StatusCompleted:
			st.Completed++
			if a.ScorePercentage != nil {
				scoreSum += *a.ScorePercentage
				if t.PassThreshold > 0 && *a.ScorePercentage >= float64(t.PassThreshold) {
					passed++
				}
			}
			for qid, ans := range m.answers[id] {
				answered[qid]++
				if ans.IsCorrect {
					correct[qid]++
				}
			}
		}
	}
	if st.Completed > 0 {
		st.AverageScore = round1(scoreSum / float64(st.Completed))
		if t.PassThreshold > 0 {
			st.PassRate = round1(float64(passed) / float64(st.Completed) * 100)
		}
	}
	for _, tq := range t.Questions {
		item := QuestionStatsItem{QuestionID: tq.Question.ID, Answered: answered[tq.Question.ID]}
		if item.Answered > 0 {
			item.CorrectRate = round1(float64(correct[tq.Question.ID]) / float64(item.Answered) * 100)
		}
		st.PerQuestion = append(st.PerQuestion, item)
	}
	return st, nil
}

func page[T any](in []T, limit, offset int) []T {
	limit, offset = clampPage(limit, offset)
	if offset >= len(in) {
		return nil
	}
	end := offset + limit
	if end > len(in) {
		end = len(in)
	}
	return in[offset:end]
}
