package quiz

import (
	"context"
	"time"
)

type ListOpts struct {
	Q      string // substring match on title/prompt
	Limit  int
	Offset int
}

type AssessmentListOpts struct {
	TestID string
	Status string // optional: started|completed|abandoned
	Limit  int
	Offset int
}

// TestSummary is the list-view row for the admin dashboard: no question
// bodies, just the link metadata and counters.
type TestSummary struct {
	ID            string `json:"id"`
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	IsEnabled     bool   `json:"is_enabled"`
	PassThreshold int    `json:"pass_threshold"`
	QuestionCount int    `json:"question_count"`
	CreatedAt     int64  `json:"created_at"`
}

// TestStats is the aggregate analytics block for one test.
type TestStats struct {
	TestID       string              `json:"test_id"`
	Started      int                 `json:"started"`
	Completed    int                 `json:"completed"`
	Abandoned    int                 `json:"abandoned"`
	AverageScore float64             `json:"average_score"`
	PassRate     float64             `json:"pass_rate"` // completed only; 0 when threshold is neutral
	PerQuestion  []QuestionStatsItem `json:"per_question,omitempty"`
}

type QuestionStatsItem struct {
	QuestionID  string  `json:"question_id"`
	Answered    int     `json:"answered"`
	CorrectRate float64 `json:"correct_rate"`
}

type Store interface {
	// Question bank.
	PutQuestion(ctx context.Context, q Question) error
	GetQuestion(ctx context.Context, id string) (Question, error)
	ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error)
	DeleteQuestion(ctx context.Context, id string) error

	// Tests.
	PutTest(ctx context.Context, t Test) error
	GetTest(ctx context.Context, id string) (Test, error)
	GetTestBySlug(ctx context.Context, slug string) (Test, error)
	ListTests(ctx context.Context, opts ListOpts) ([]TestSummary, error)
	DeleteTest(ctx context.Context, id string) error

	// Assessment lifecycle. StartAssessment snapshots the test's questions
	// into the new assessment. SaveAnswer upserts per (assessment, question)
	// and rejects writes once the assessment is no longer active. Submit
	// scores the snapshot exactly once and transitions started -> completed
	// atomically.
	StartAssessment(ctx context.Context, testID, candidateName string) (Assessment, error)
	GetAssessment(ctx context.Context, id string) (Assessment, error)
	SaveAnswer(ctx context.Context, assessmentID, questionID string, selected []string) (Answer, error)
	ListAnswers(ctx context.Context, assessmentID string) ([]Answer, error)
	SubmitAssessment(ctx context.Context, id string) (Assessment, error)
	ListAssessments(ctx context.Context, opts AssessmentListOpts) ([]Assessment, error)

	// AbandonStale flips started assessments whose window lapsed before
	// cutoff to abandoned, returning the affected IDs.
	AbandonStale(ctx context.Context, cutoff time.Time) ([]string, error)

	GetTestStats(ctx context.Context, testID string) (TestStats, error)
}
