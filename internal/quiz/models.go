package quiz

import (
	"errors"
	"fmt"
	"time"
)

type QuestionType string

const (
	TypeSingle   QuestionType = "single"
	TypeMultiple QuestionType = "multiple"
)

// Option IDs are stable strings assigned at creation time (stringified
// indices for imported questions). They are never re-derived from array
// position after edits.
type Option struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
}

type Question struct {
	ID        string       `json:"id"`
	Type      QuestionType `json:"type"`
	Prompt    string       `json:"prompt"`
	Options   []Option     `json:"options"`
	CreatedAt int64        `json:"created_at,omitempty"`
	UpdatedAt int64        `json:"updated_at,omitempty"`
}

// CorrectOptionIDs returns the IDs of options flagged correct, in option order.
func (q Question) CorrectOptionIDs() []string {
	var out []string
	for _, o := range q.Options {
		if o.IsCorrect {
			out = append(out, o.ID)
		}
	}
	return out
}

// Validate enforces the question shape: at least two options, unique option
// IDs, and exactly one correct option for single-choice (one or more for
// multiple-choice).
func (q Question) Validate() error {
	if q.Prompt == "" {
		return errors.New("question prompt required")
	}
	if len(q.Options) < 2 {
		return errors.New("question needs at least two options")
	}
	seen := map[string]bool{}
	correct := 0
	for _, o := range q.Options {
		if o.ID == "" {
			return errors.New("option id required")
		}
		if seen[o.ID] {
			return fmt.Errorf("duplicate option id %q", o.ID)
		}
		seen[o.ID] = true
		if o.IsCorrect {
			correct++
		}
	}
	switch q.Type {
	case TypeSingle:
		if correct != 1 {
			return fmt.Errorf("single-choice question must have exactly one correct option, has %d", correct)
		}
	case TypeMultiple:
		if correct < 1 {
			return errors.New("multiple-choice question must have at least one correct option")
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}

type ShowExplanations string

const (
	ShowNever             ShowExplanations = "never"
	ShowAfterEachQuestion ShowExplanations = "after_each_question"
	ShowAfterSubmit       ShowExplanations = "after_submit"
)

type ExplanationScope string

const (
	ScopeSelectedOnly ExplanationScope = "selected_only"
	ScopeAllAnswers   ExplanationScope = "all_answers"
)

// TestQuestion binds a question into a test with its weight. Inside an
// assessment snapshot the embedded question carries full content including
// answer keys.
type TestQuestion struct {
	Question Question `json:"question"`
	Weight   int      `json:"weight"`
}

type Test struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	IsEnabled    bool   `json:"is_enabled"`
	PassThreshold int   `json:"pass_threshold"` // 0 means neutral: no pass/fail framing

	ShowExplanations ShowExplanations `json:"show_explanations"`
	ExplanationScope ExplanationScope `json:"explanation_scope"`

	// Bcrypt hash of the access code; empty means the test is open.
	AccessCodeHash string `json:"-"`

	Questions []TestQuestion `json:"questions,omitempty"`
	CreatedAt int64          `json:"created_at,omitempty"`
}

// Policy extracts the disclosure policy callers feed into the projector.
func (t Test) Policy() DisclosurePolicy {
	return DisclosurePolicy{Show: t.ShowExplanations, Scope: t.ExplanationScope}
}

func (t Test) Validate() error {
	if t.Title == "" {
		return errors.New("test title required")
	}
	if t.PassThreshold < 0 || t.PassThreshold > 100 {
		return errors.New("pass_threshold must be 0-100")
	}
	switch t.ShowExplanations {
	case ShowNever, ShowAfterEachQuestion, ShowAfterSubmit:
	default:
		return fmt.Errorf("unknown show_explanations %q", t.ShowExplanations)
	}
	switch t.ExplanationScope {
	case ScopeSelectedOnly, ScopeAllAnswers:
	default:
		return fmt.Errorf("unknown explanation_scope %q", t.ExplanationScope)
	}
	for _, tq := range t.Questions {
		if tq.Weight <= 0 {
			return fmt.Errorf("question %s weight must be positive", tq.Question.ID)
		}
	}
	return nil
}

type AssessmentStatus string

const (
	StatusStarted   AssessmentStatus = "started"
	StatusCompleted AssessmentStatus = "completed"
	StatusAbandoned AssessmentStatus = "abandoned"
)

// Assessment is a candidate's attempt at a test. Question content (including
// weights and answer keys) is snapshotted into the assessment at start time,
// so mid-assessment edits to the question bank never change scoring.
type Assessment struct {
	ID            string           `json:"id"`
	TestID        string           `json:"test_id"`
	CandidateName string           `json:"candidate_name"`
	Status        AssessmentStatus `json:"status"`

	Questions []TestQuestion `json:"questions,omitempty"`

	ScorePercentage *float64 `json:"score_percentage,omitempty"`
	StartedAt       int64    `json:"started_at"`
	CompletedAt     *int64   `json:"completed_at,omitempty"`
}

// QuestionByID looks up a snapshotted question.
func (a Assessment) QuestionByID(id string) (TestQuestion, bool) {
	for _, tq := range a.Questions {
		if tq.Question.ID == id {
			return tq, true
		}
	}
	return TestQuestion{}, false
}

// ActiveErr reports whether the assessment can still accept answer writes.
// A started assessment past the TTL is expired; the caller is expected to
// flip it to abandoned.
func (a Assessment) ActiveErr(now time.Time, ttl time.Duration) error {
	switch a.Status {
	case StatusCompleted:
		return ErrCompleted
	case StatusAbandoned:
		return ErrAbandoned
	}
	if now.Sub(time.Unix(a.StartedAt, 0)) > ttl {
		return ErrExpired
	}
	return nil
}

type Answer struct {
	QuestionID string   `json:"question_id"`
	Selected   []string `json:"selected_options"`
	IsCorrect  bool     `json:"is_correct"`
	AnsweredAt int64    `json:"answered_at"`
}
