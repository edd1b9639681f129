package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Difficulty is a question tier. Tiers are ordered: easy < medium < hard.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

const numDifficulties = 3

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return "unknown"
}

func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

// QuestionRef identifies a question by tier and its id within that tier.
type QuestionRef struct {
	Difficulty Difficulty
	ID         int
}

// String renders the wire/storage form, e.g. "medium_5". Clients depend on
// this exact format.
func (r QuestionRef) String() string {
	return fmt.Sprintf("%s_%d", r.Difficulty, r.ID)
}

// ParseRef parses the "{tier}_{id}" wire form back into a QuestionRef.
func ParseRef(s string) (QuestionRef, error) {
	tier, id, ok := strings.Cut(s, "_")
	if !ok {
		return QuestionRef{}, fmt.Errorf("malformed question ref %q", s)
	}
	d, err := ParseDifficulty(tier)
	if err != nil {
		return QuestionRef{}, fmt.Errorf("malformed question ref %q: %w", s, err)
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return QuestionRef{}, fmt.Errorf("malformed question ref %q: %w", s, err)
	}
	return QuestionRef{Difficulty: d, ID: n}, nil
}
