package quiz

// FeedbackContext is the moment feedback is being asked for: right after a
// single question was answered, or after the whole test was submitted.
type FeedbackContext string

const (
	ContextAfterQuestion FeedbackContext = "after_question"
	ContextAfterSubmit   FeedbackContext = "after_submit"
)

// DisclosurePolicy is the test's feedback policy: when per-option correctness
// is revealed, and which options within a revealed question get annotated.
type DisclosurePolicy struct {
	Show  ShowExplanations
	Scope ExplanationScope
}

// Reveals dispatches the (show_explanations, context) state machine. Every
// combination is handled explicitly so the matrix stays exhaustively testable.
func (p DisclosurePolicy) Reveals(ctx FeedbackContext) bool {
	switch p.Show {
	case ShowAfterEachQuestion:
		return ctx == ContextAfterQuestion
	case ShowAfterSubmit:
		return ctx == ContextAfterSubmit
	case ShowNever:
		return false
	default:
		// Unknown policy values disclose nothing.
		return false
	}
}

// OptionFeedback is one revealed option. The normalized single-shape
// projection: scope filtering happens here, so callers never merge two
// parallel arrays.
type OptionFeedback struct {
	ID          string `json:"id"`
	IsCorrect   bool   `json:"is_correct"`
	Explanation string `json:"explanation,omitempty"`
	WasSelected bool   `json:"was_selected"`
}

// ProjectFeedback returns the per-option feedback the candidate may see for a
// question in the given context, or nil when the policy discloses nothing.
// With ScopeSelectedOnly the result covers only the selected options; with
// ScopeAllAnswers it covers every option, so missed correct answers are
// visible too. Option order follows the question.
func ProjectFeedback(q Question, selected []string, p DisclosurePolicy, ctx FeedbackContext) []OptionFeedback {
	if !p.Reveals(ctx) {
		return nil
	}
	sel := toSet(selected)
	out := make([]OptionFeedback, 0, len(q.Options))
	for _, o := range q.Options {
		_, was := sel[o.ID]
		if p.Scope == ScopeSelectedOnly && !was {
			continue
		}
		out = append(out, OptionFeedback{
			ID:          o.ID,
			IsCorrect:   o.IsCorrect,
			Explanation: o.Explanation,
			WasSelected: was,
		})
	}
	return out
}

// QuestionFeedback groups projected feedback for the post-submit review.
type QuestionFeedback struct {
	QuestionID string           `json:"question_id"`
	IsCorrect  bool             `json:"is_correct"`
	Options    []OptionFeedback `json:"options,omitempty"`
}

// ProjectSubmitFeedback runs the projector over every snapshotted question of
// a completed assessment in the after-submit context. When the policy
// discloses nothing post-submit the whole review is withheld: the candidate
// gets the score only.
func ProjectSubmitFeedback(questions []TestQuestion, answers map[string][]string, p DisclosurePolicy) []QuestionFeedback {
	if !p.Reveals(ContextAfterSubmit) {
		return nil
	}
	out := make([]QuestionFeedback, 0, len(questions))
	for _, tq := range questions {
		sel := answers[tq.Question.ID]
		out = append(out, QuestionFeedback{
			QuestionID: tq.Question.ID,
			IsCorrect:  IsQuestionCorrect(tq.Question, sel),
			Options:    ProjectFeedback(tq.Question, sel, p, ContextAfterSubmit),
		})
	}
	return out
}
