package quiz

import "math"

// IsQuestionCorrect reports whether the selected option set exactly equals
// the question's correct-option set. Symmetric set equality: a superset or
// subset of the correct answers is wrong, there is no per-question partial
// credit. Unknown option IDs in the selection count as incorrect picks.
func IsQuestionCorrect(q Question, selected []string) bool {
	correct := map[string]struct{}{}
	for _, o := range q.Options {
		if o.IsCorrect {
			correct[o.ID] = struct{}{}
		}
	}
	if len(correct) == 0 {
		// Degenerate question with no answer key. Never award it.
		return false
	}
	return setEqual(toSet(selected), correct)
}

// ComputeScore folds per-question correctness into a weighted percentage,
// rounded to one decimal. Unanswered questions earn zero but stay in the
// denominator. A test with zero total weight scores 0, never NaN.
func ComputeScore(questions []TestQuestion, answers map[string][]string) float64 {
	totalWeight, earnedWeight := 0, 0
	for _, tq := range questions {
		totalWeight += tq.Weight
		if IsQuestionCorrect(tq.Question, answers[tq.Question.ID]) {
			earnedWeight += tq.Weight
		}
	}
	if totalWeight == 0 {
		return 0
	}
	return round1(float64(earnedWeight) / float64(totalWeight) * 100)
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

type Verdict string

const (
	VerdictNeutral   Verdict = "neutral"
	VerdictPassed    Verdict = "passed"
	VerdictNotPassed Verdict = "not_passed"
)

// PassVerdict frames a score against the test's threshold. Threshold 0 means
// neutral: the score is shown without a pass/fail label. The verdict is
// recomputed at presentation time, never stored.
func PassVerdict(percentage float64, passThreshold int) Verdict {
	if passThreshold == 0 {
		return VerdictNeutral
	}
	if percentage >= float64(passThreshold) {
		return VerdictPassed
	}
	return VerdictNotPassed
}

func toSet(ids []string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
