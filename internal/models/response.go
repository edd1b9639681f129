package models

import "time"

// ErrorResponse is the JSON error body returned by every endpoint.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// QuestionPayload is a question as shown to a candidate. The correct option
// index never leaves the server.
type QuestionPayload struct {
	Ref     string   `json:"ref"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

const (
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

// StepResponse is the shared shape for the start and step endpoints: either
// the next question or the final summary.
type StepResponse struct {
	Status   string           `json:"status"`
	Question *QuestionPayload `json:"question,omitempty"`

	Message        string `json:"message,omitempty"`
	Score          *int   `json:"score,omitempty"`
	Passed         *bool  `json:"passed,omitempty"`
	TotalQuestions *int   `json:"total_questions,omitempty"`
	CorrectAnswers *int   `json:"correct_answers,omitempty"`
}

// ResultResponse is the read-only view of a finished attempt.
type ResultResponse struct {
	Score          int        `json:"score"`
	Passed         bool       `json:"passed"`
	CompletedAt    *time.Time `json:"completed_at"`
	TotalQuestions int        `json:"total_questions"`
	CorrectAnswers int        `json:"correct_answers"`
}

// QuizCreatedResponse acknowledges quiz generation.
type QuizCreatedResponse struct {
	QuizID        uint   `json:"quiz_id"`
	JobID         uint   `json:"job_id"`
	QuestionCount int    `json:"question_count"`
	PassingScore  int    `json:"passing_score"`
	Message       string `json:"message"`
}
