package engine

import (
	"encoding/json"
	"fmt"
)

// TargetQuizLength is the number of questions served in a full attempt.
const TargetQuizLength = 10

// OptionsPerQuestion is fixed at generation time.
const OptionsPerQuestion = 4

// Question is a single multiple-choice question. Immutable once generated.
type Question struct {
	ID            int      `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option"`
}

// Pool holds the generated questions for one quiz, bucketed by tier.
type Pool map[Difficulty][]Question

// Validate checks the invariants the engine relies on: every tier present,
// enough questions overall, and well-formed questions.
func (p Pool) Validate() error {
	for d := Easy; d <= Hard; d++ {
		if _, ok := p[d]; !ok {
			return fmt.Errorf("pool is missing the %s tier", d)
		}
	}
	total := 0
	for d, questions := range p {
		for _, q := range questions {
			if len(q.Options) != OptionsPerQuestion {
				return fmt.Errorf("question %s_%d has %d options, want %d", d, q.ID, len(q.Options), OptionsPerQuestion)
			}
			if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
				return fmt.Errorf("question %s_%d has correct option %d out of range", d, q.ID, q.CorrectOption)
			}
		}
		total += len(questions)
	}
	if total < TargetQuizLength {
		return fmt.Errorf("pool has %d questions, need at least %d", total, TargetQuizLength)
	}
	return nil
}

// Find resolves a reference to its question.
func (p Pool) Find(ref QuestionRef) (Question, bool) {
	for _, q := range p[ref.Difficulty] {
		if q.ID == ref.ID {
			return q, true
		}
	}
	return Question{}, false
}

// Total returns the number of questions across all tiers.
func (p Pool) Total() int {
	n := 0
	for _, questions := range p {
		n += len(questions)
	}
	return n
}

// MarshalJSON stores the pool keyed by tier name ("easy"/"medium"/"hard"),
// the same shape the original JSON column used.
func (p Pool) MarshalJSON() ([]byte, error) {
	out := make(map[string][]Question, len(p))
	for d, questions := range p {
		out[d.String()] = questions
	}
	return json.Marshal(out)
}

func (p *Pool) UnmarshalJSON(data []byte) error {
	var raw map[string][]Question
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pool := make(Pool, len(raw))
	for tier, questions := range raw {
		d, err := ParseDifficulty(tier)
		if err != nil {
			return err
		}
		pool[d] = questions
	}
	*p = pool
	return nil
}
