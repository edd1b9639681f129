package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Wafi-Ahmad/Hirehub/internal/engine"
)

// Quiz is the per-job assessment. Exactly one quiz exists per job posting;
// the question pool is stored as a JSON blob keyed by tier name.
type Quiz struct {
	gorm.Model
	JobID           uint   `gorm:"uniqueIndex;not null" json:"job_id"`
	Questions       string `gorm:"type:text;not null" json:"-"`
	StartDifficulty string `gorm:"not null;default:medium" json:"start_difficulty"`
	PassingScore    int    `gorm:"not null;default:60" json:"passing_score"`
	IsActive        bool   `gorm:"not null;default:true" json:"is_active"`
}

// Pool decodes the stored question pool.
func (q *Quiz) Pool() (engine.Pool, error) {
	var pool engine.Pool
	if err := json.Unmarshal([]byte(q.Questions), &pool); err != nil {
		return nil, fmt.Errorf("failed to decode question pool for quiz %d: %w", q.ID, err)
	}
	return pool, nil
}

// SetPool encodes the pool into the storage column.
func (q *Quiz) SetPool(pool engine.Pool) error {
	data, err := json.Marshal(pool)
	if err != nil {
		return fmt.Errorf("failed to encode question pool: %w", err)
	}
	q.Questions = string(data)
	return nil
}

// QuizAttempt is one user's progress through a quiz. A user gets exactly one
// attempt per quiz, enforced by the composite unique index.
type QuizAttempt struct {
	gorm.Model
	QuizID uint   `gorm:"not null;uniqueIndex:idx_attempt_quiz_user" json:"quiz_id"`
	UserID string `gorm:"not null;uniqueIndex:idx_attempt_quiz_user" json:"user_id"`

	CurrentDifficulty    string `gorm:"not null;default:medium" json:"current_difficulty"`
	Answers              string `gorm:"type:text;not null;default:'{}'" json:"-"`
	QuestionsAnswered    string `gorm:"type:text;not null;default:'[]'" json:"-"`
	CorrectStreak        int    `gorm:"not null;default:0" json:"correct_streak"`
	IncorrectStreak      int    `gorm:"not null;default:0" json:"incorrect_streak"`
	LastQuestionRef      string `gorm:"not null;default:''" json:"last_question_ref"`
	TotalQuestionsServed int    `gorm:"not null;default:0" json:"total_questions_served"`

	Score  *int  `json:"score"`
	Passed *bool `json:"passed"`

	StartedAt   time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// Exported marks attempts already picked up by the analytics export job.
	Exported bool `gorm:"not null;default:false;index" json:"-"`
}

// Finished reports whether the attempt reached its terminal state.
func (a *QuizAttempt) Finished() bool {
	return a.CompletedAt != nil
}

// State decodes the persisted columns into the engine's state value.
func (a *QuizAttempt) State() (engine.State, error) {
	difficulty, err := engine.ParseDifficulty(a.CurrentDifficulty)
	if err != nil {
		return engine.State{}, fmt.Errorf("attempt %d: %w", a.ID, err)
	}

	var rawAnswers map[string]int
	if err := json.Unmarshal([]byte(a.Answers), &rawAnswers); err != nil {
		return engine.State{}, fmt.Errorf("attempt %d: failed to decode answers: %w", a.ID, err)
	}
	answers := make(map[engine.QuestionRef]int, len(rawAnswers))
	for refStr, idx := range rawAnswers {
		ref, err := engine.ParseRef(refStr)
		if err != nil {
			return engine.State{}, fmt.Errorf("attempt %d: %w", a.ID, err)
		}
		answers[ref] = idx
	}

	var rawAnswered []string
	if err := json.Unmarshal([]byte(a.QuestionsAnswered), &rawAnswered); err != nil {
		return engine.State{}, fmt.Errorf("attempt %d: failed to decode answered log: %w", a.ID, err)
	}
	answered := make([]engine.QuestionRef, 0, len(rawAnswered))
	for _, refStr := range rawAnswered {
		ref, err := engine.ParseRef(refStr)
		if err != nil {
			return engine.State{}, fmt.Errorf("attempt %d: %w", a.ID, err)
		}
		answered = append(answered, ref)
	}

	state := engine.State{
		Difficulty:      difficulty,
		CorrectStreak:   a.CorrectStreak,
		IncorrectStreak: a.IncorrectStreak,
		Answers:         answers,
		Answered:        answered,
		Served:          a.TotalQuestionsServed,
		Finished:        a.Finished(),
	}
	if a.LastQuestionRef != "" {
		ref, err := engine.ParseRef(a.LastQuestionRef)
		if err != nil {
			return engine.State{}, fmt.Errorf("attempt %d: %w", a.ID, err)
		}
		state.LastRef = &ref
	}
	return state, nil
}

// ApplyState writes the engine state back into the persisted columns.
// Score, Passed and CompletedAt are set separately on finalization.
func (a *QuizAttempt) ApplyState(s engine.State) error {
	rawAnswers := make(map[string]int, len(s.Answers))
	for ref, idx := range s.Answers {
		rawAnswers[ref.String()] = idx
	}
	answersJSON, err := json.Marshal(rawAnswers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	rawAnswered := make([]string, 0, len(s.Answered))
	for _, ref := range s.Answered {
		rawAnswered = append(rawAnswered, ref.String())
	}
	answeredJSON, err := json.Marshal(rawAnswered)
	if err != nil {
		return fmt.Errorf("failed to encode answered log: %w", err)
	}

	a.CurrentDifficulty = s.Difficulty.String()
	a.CorrectStreak = s.CorrectStreak
	a.IncorrectStreak = s.IncorrectStreak
	a.Answers = string(answersJSON)
	a.QuestionsAnswered = string(answeredJSON)
	a.TotalQuestionsServed = s.Served
	if s.LastRef != nil {
		a.LastQuestionRef = s.LastRef.String()
	} else {
		a.LastQuestionRef = ""
	}
	return nil
}
