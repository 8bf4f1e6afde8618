package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLStore persists the question bank, tests and assessments in Postgres or
// SQLite. Question content and assessment snapshots are stored as JSON
// columns; relational rows carry only what queries filter on.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
	ttl    time.Duration
	now    func() time.Time
}

func NewSQLStore(db *sql.DB, driver string, ttl time.Duration) *SQLStore {
	return &SQLStore{db: db, driver: driver, ttl: ttl, now: time.Now}
}

/* ---- question bank ---- */

func (s *SQLStore) PutQuestion(ctx context.Context, q Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	oj, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	now := s.now().Unix()
	_, err = s.db.ExecContext(ctx, `INSERT INTO questions (id,qtype,prompt,options_json,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$5)
		ON CONFLICT (id) DO UPDATE SET qtype=EXCLUDED.qtype, prompt=EXCLUDED.prompt,
			options_json=EXCLUDED.options_json, updated_at=EXCLUDED.updated_at`,
		q.ID, string(q.Type), q.Prompt, string(oj), now)
	return err
}

func (s *SQLStore) GetQuestion(ctx context.Context, id string) (Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,qtype,prompt,options_json,created_at,updated_at FROM questions WHERE id=$1`, id)
	return scanQuestion(row)
}

func scanQuestion(row *sql.Row) (Question, error) {
	var q Question
	var ojson string
	if err := row.Scan(&q.ID, &q.Type, &q.Prompt, &ojson, &q.CreatedAt, &q.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	if err := json.Unmarshal([]byte(ojson), &q.Options); err != nil {
		return Question{}, fmt.Errorf("decode options: %w", err)
	}
	return q, nil
}

func (s *SQLStore) ListQuestions(ctx context.Context, opts ListOpts) ([]Question, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)
	rows, err := s.db.QueryContext(ctx, `SELECT id,qtype,prompt,options_json,created_at,updated_at FROM questions
		WHERE ($1 = '' OR prompt LIKE '%' || $1 || '%')
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, opts.Q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Question
	for rows.Next() {
		var q Question
		var ojson string
		if err := rows.Scan(&q.ID, &q.Type, &q.Prompt, &ojson, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ojson), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for %s: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

/* ---- tests ---- */

func (s *SQLStore) PutTest(ctx context.Context, t Test) error {
	if err := t.Validate(); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO tests
		(id,slug,title,description,is_enabled,pass_threshold,show_explanations,explanation_scope,access_code_hash,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET slug=EXCLUDED.slug, title=EXCLUDED.title, description=EXCLUDED.description,
			is_enabled=EXCLUDED.is_enabled, pass_threshold=EXCLUDED.pass_threshold,
			show_explanations=EXCLUDED.show_explanations, explanation_scope=EXCLUDED.explanation_scope,
			access_code_hash=EXCLUDED.access_code_hash`,
		t.ID, t.Slug, t.Title, t.Description, t.IsEnabled, t.PassThreshold,
		string(t.ShowExplanations), string(t.ExplanationScope), t.AccessCodeHash, s.now().Unix())
	if err != nil {
		return err
	}
	// Re-link questions: position and weight come from the caller's order.
	if _, err := tx.ExecContext(ctx, `DELETE FROM test_questions WHERE test_id=$1`, t.ID); err != nil {
		return err
	}
	for i, tq := range t.Questions {
		if _, err := tx.ExecContext(ctx, `INSERT INTO test_questions (test_id,question_id,position,weight)
			VALUES ($1,$2,$3,$4)`, t.ID, tq.Question.ID, i, tq.Weight); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	return s.getTest(ctx, `id=$1`, id)
}

func (s *SQLStore) GetTestBySlug(ctx context.Context, slug string) (Test, error) {
	return s.getTest(ctx, `slug=$1`, slug)
}

func (s *SQLStore) getTest(ctx context.Context, where, arg string) (Test, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,slug,title,description,is_enabled,pass_threshold,
		show_explanations,explanation_scope,access_code_hash,created_at FROM tests WHERE `+where, arg)
	var t Test
	if err := row.Scan(&t.ID, &t.Slug, &t.Title, &t.Description, &t.IsEnabled, &t.PassThreshold,
		&t.ShowExplanations, &t.ExplanationScope, &t.AccessCodeHash, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Test{}, ErrNotFound
		}
		return Test{}, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT q.id,q.qtype,q.prompt,q.options_json,tq.weight
		FROM test_questions tq JOIN questions q ON q.id = tq.question_id
		WHERE tq.test_id=$1 ORDER BY tq.position`, t.ID)
	if err != nil {
		return Test{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var tq TestQuestion
		var ojson string
		if err := rows.Scan(&tq.Question.ID, &tq.Question.Type, &tq.Question.Prompt, &ojson, &tq.Weight); err != nil {
			return Test{}, err
		}
		if err := json.Unmarshal([]byte(ojson), &tq.Question.Options); err != nil {
			return Test{}, fmt.Errorf("decode options for %s: %w", tq.Question.ID, err)
		}
		t.Questions = append(t.Questions, tq)
	}
	return t, rows.Err()
}

func (s *SQLStore) ListTests(ctx context.Context, opts ListOpts) ([]TestSummary, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)
	rows, err := s.db.QueryContext(ctx, `SELECT t.id,t.slug,t.title,t.is_enabled,t.pass_threshold,t.created_at,
		(SELECT COUNT(*) FROM test_questions tq WHERE tq.test_id=t.id)
		FROM tests t
		WHERE ($1 = '' OR t.title LIKE '%' || $1 || '%')
		ORDER BY t.created_at DESC LIMIT $2 OFFSET $3`, opts.Q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TestSummary
	for rows.Next() {
		var ts TestSummary
		if err := rows.Scan(&ts.ID, &ts.Slug, &ts.Title, &ts.IsEnabled, &ts.PassThreshold, &ts.CreatedAt, &ts.QuestionCount); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteTest(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

/* ---- assessments ---- */

func (s *SQLStore) StartAssessment(ctx context.Context, testID, candidateName string) (Assessment, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return Assessment{}, err
	}
	if !t.IsEnabled {
		return Assessment{}, ErrDisabled
	}
	// Snapshot question content at start time so edits to the bank never
	// change scoring mid-attempt.
	qj, err := json.Marshal(t.Questions)
	if err != nil {
		return Assessment{}, err
	}
	a := Assessment{
		ID:            uuid.NewString(),
		TestID:        t.ID,
		CandidateName: candidateName,
		Status:        StatusStarted,
		Questions:     t.Questions,
		StartedAt:     s.now().Unix(),
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO assessments
		(id,test_id,candidate_name,status,questions_json,started_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.TestID, a.CandidateName, string(a.Status), string(qj), a.StartedAt)
	if err != nil {
		return Assessment{}, err
	}
	return a, nil
}

func (s *SQLStore) GetAssessment(ctx context.Context, id string) (Assessment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,test_id,candidate_name,status,questions_json,score_percentage,started_at,completed_at
		FROM assessments WHERE id=$1`, id)
	var a Assessment
	var qjson string
	if err := row.Scan(&a.ID, &a.TestID, &a.CandidateName, &a.Status, &qjson, &a.ScorePercentage, &a.StartedAt, &a.CompletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, ErrNotFound
		}
		return Assessment{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &a.Questions); err != nil {
		return Assessment{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return a, nil
}

// activeAssessment loads an assessment and verifies it still accepts writes,
// lazily flipping a lapsed one to abandoned.
func (s *SQLStore) activeAssessment(ctx context.Context, id string) (Assessment, error) {
	a, err := s.GetAssessment(ctx, id)
	if err != nil {
		return Assessment{}, err
	}
	if err := a.ActiveErr(s.now(), s.ttl); err != nil {
		if errors.Is(err, ErrExpired) {
			_, _ = s.db.ExecContext(ctx, `UPDATE assessments SET status=$1 WHERE id=$2 AND status=$3`,
				string(StatusAbandoned), id, string(StatusStarted))
		}
		return Assessment{}, err
	}
	return a, nil
}

func (s *SQLStore) SaveAnswer(ctx context.Context, assessmentID, questionID string, selected []string) (Answer, error) {
	a, err := s.activeAssessment(ctx, assessmentID)
	if err != nil {
		return Answer{}, err
	}
	tq, ok := a.QuestionByID(questionID)
	if !ok {
		return Answer{}, fmt.Errorf("question %s: %w", questionID, ErrNotFound)
	}
	if selected == nil {
		selected = []string{}
	}
	sj, err := json.Marshal(selected)
	if err != nil {
		return Answer{}, err
	}
	ans := Answer{
		QuestionID: questionID,
		Selected:   selected,
		IsCorrect:  IsQuestionCorrect(tq.Question, selected),
		AnsweredAt: s.now().Unix(),
	}
	// Upsert: client retries and auto-save races overwrite, never duplicate.
	_, err = s.db.ExecContext(ctx, `INSERT INTO assessment_answers
		(assessment_id,question_id,selected_json,is_correct,answered_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (assessment_id,question_id) DO UPDATE SET
			selected_json=EXCLUDED.selected_json, is_correct=EXCLUDED.is_correct, answered_at=EXCLUDED.answered_at`,
		assessmentID, questionID, string(sj), ans.IsCorrect, ans.AnsweredAt)
	if err != nil {
		return Answer{}, err
	}
	return ans, nil
}

func (s *SQLStore) ListAnswers(ctx context.Context, assessmentID string) ([]Answer, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question_id,selected_json,is_correct,answered_at
		FROM assessment_answers WHERE assessment_id=$1 ORDER BY answered_at`, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Answer
	for rows.Next() {
		var ans Answer
		var sjson string
		if err := rows.Scan(&ans.QuestionID, &sjson, &ans.IsCorrect, &ans.AnsweredAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(sjson), &ans.Selected); err != nil {
			return nil, fmt.Errorf("decode selection for %s: %w", ans.QuestionID, err)
		}
		out = append(out, ans)
	}
	return out, rows.Err()
}

func (s *SQLStore) SubmitAssessment(ctx context.Context, id string) (Assessment, error) {
	a, err := s.activeAssessment(ctx, id)
	if err != nil {
		return Assessment{}, err
	}
	answers, err := s.ListAnswers(ctx, id)
	if err != nil {
		return Assessment{}, err
	}
	selected := map[string][]string{}
	for _, ans := range answers {
		selected[ans.QuestionID] = ans.Selected
	}
	score := ComputeScore(a.Questions, selected)
	completedAt := s.now().Unix()

	// Guarded transition: only a started assessment can complete, and only
	// once. A lost race surfaces as zero affected rows.
	res, err := s.db.ExecContext(ctx, `UPDATE assessments
		SET status=$1, score_percentage=$2, completed_at=$3
		WHERE id=$4 AND status=$5`,
		string(StatusCompleted), score, completedAt, id, string(StatusStarted))
	if err != nil {
		return Assessment{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		cur, err := s.GetAssessment(ctx, id)
		if err != nil {
			return Assessment{}, err
		}
		if cur.Status == StatusCompleted {
			return Assessment{}, ErrCompleted
		}
		return Assessment{}, ErrAbandoned
	}
	a.Status = StatusCompleted
	a.ScorePercentage = &score
	a.CompletedAt = &completedAt
	return a, nil
}

func (s *SQLStore) ListAssessments(ctx context.Context, opts AssessmentListOpts) ([]Assessment, error) {
	limit, offset := clampPage(opts.Limit, opts.Offset)
	rows, err := s.db.QueryContext(ctx, `SELECT id,test_id,candidate_name,status,score_percentage,started_at,completed_at
		FROM assessments
		WHERE ($1 = '' OR test_id=$1) AND ($2 = '' OR status=$2)
		ORDER BY started_at DESC LIMIT $3 OFFSET $4`,
		opts.TestID, opts.Status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Assessment
	for rows.Next() {
		var a Assessment
		if err := rows.Scan(&a.ID, &a.TestID, &a.CandidateName, &a.Status, &a.ScorePercentage, &a.StartedAt, &a.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) AbandonStale(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM assessments WHERE status=$1 AND started_at < $2`,
		string(StatusStarted), cutoff.Unix())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, err := s.db.ExecContext(ctx, `UPDATE assessments SET status=$1 WHERE id=$2 AND status=$3`,
			string(StatusAbandoned), id, string(StatusStarted)); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (s *SQLStore) GetTestStats(ctx context.Context, testID string) (TestStats, error) {
	st := TestStats{TestID: testID}
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return TestStats{}, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM assessments WHERE test_id=$1 GROUP BY status`, testID)
	if err != nil {
		return TestStats{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return TestStats{}, err
		}
		switch AssessmentStatus(status) {
		case StatusStarted:
			st.Started = n
		case StatusCompleted:
			st.Completed = n
		case StatusAbandoned:
			st.Abandoned = n
		}
	}
	if err := rows.Err(); err != nil {
		return TestStats{}, err
	}

	if st.Completed > 0 {
		var avg sql.NullFloat64
		if err := s.db.QueryRowContext(ctx, `SELECT AVG(score_percentage) FROM assessments WHERE test_id=$1 AND status=$2`,
			testID, string(StatusCompleted)).Scan(&avg); err != nil {
			return TestStats{}, err
		}
		st.AverageScore = round1(avg.Float64)
		if t.PassThreshold > 0 {
			var passed int
			if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assessments WHERE test_id=$1 AND status=$2 AND score_percentage >= $3`,
				testID, string(StatusCompleted), t.PassThreshold).Scan(&passed); err != nil {
				return TestStats{}, err
			}
			st.PassRate = round1(float64(passed) / float64(st.Completed) * 100)
		}
	}

	qrows, err := s.db.QueryContext(ctx, `SELECT aa.question_id, COUNT(*),
			SUM(CASE WHEN aa.is_correct THEN 1 ELSE 0 END)
		FROM assessment_answers aa
		JOIN assessments a ON a.id = aa.assessment_id
		WHERE a.test_id=$1 AND a.status=$2
		GROUP BY aa.question_id`, testID, string(StatusCompleted))
	if err != nil {
		return TestStats{}, err
	}
	defer qrows.Close()
	byID := map[string]QuestionStatsItem{}
	for qrows.Next() {
		var item QuestionStatsItem
		var correct int
		if err := qrows.Scan(&item.QuestionID, &item.Answered, &correct); err != nil {
			return TestStats{}, err
		}
		if item.Answered > 0 {
			item.CorrectRate = round1(float64(correct) / float64(item.Answered) * 100)
		}
		byID[item.QuestionID] = item
	}
	if err := qrows.Err(); err != nil {
		return TestStats{}, err
	}
	// Keep test question order; questions nobody answered show zero.
	for _, tq := range t.Questions {
		item, ok := byID[tq.Question.ID]
		if !ok {
			item = QuestionStatsItem{QuestionID: tq.Question.ID}
		}
		st.PerQuestion = append(st.PerQuestion, item)
	}
	return st, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
