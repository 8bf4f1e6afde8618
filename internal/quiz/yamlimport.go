package quiz

import (
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type yamlOption struct {
	Text        string `yaml:"text"`
	Correct     bool   `yaml:"correct"`
	Explanation string `yaml:"explanation"`
}

type yamlQuestion struct {
	Type    string       `yaml:"type"` // single|multiple; defaults to single
	Prompt  string       `yaml:"prompt"`
	Options []yamlOption `yaml:"options"`
}

type yamlBank struct {
	Questions []yamlQuestion `yaml:"questions"`
}

// ParseQuestionsYAML decodes a question-bank document into validated
// questions. Option IDs are assigned as stringified indices at import time
// and stay stable afterwards.
func ParseQuestionsYAML(r io.Reader) ([]Question, error) {
	var bank yamlBank
	if err := yaml.NewDecoder(r).Decode(&bank); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if len(bank.Questions) == 0 {
		return nil, fmt.Errorf("no questions in document")
	}
	out := make([]Question, 0, len(bank.Questions))
	for i, yq := range bank.Questions {
		qt := QuestionType(yq.Type)
		if yq.Type == "" {
			qt = TypeSingle
		}
		q := Question{
			ID:     uuid.NewString(),
			Type:   qt,
			Prompt: yq.Prompt,
		}
		for j, yo := range yq.Options {
			q.Options = append(q.Options, Option{
				ID:          strconv.Itoa(j),
				Text:        yo.Text,
				IsCorrect:   yo.Correct,
				Explanation: yo.Explanation,
			})
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		out = append(out, q)
	}
	return out, nil
}
