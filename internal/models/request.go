package models

import "github.com/Wafi-Ahmad/Hirehub/internal/engine"

// StepRequest is one answer submission for the quiz step endpoint.
type StepRequest struct {
	QuestionRef string `json:"question_ref"`
	// Pointer so a missing field is distinguishable from answering option 0.
	AnswerIndex *int `json:"answer_index"`
}

// implements the Validator interface
func (r *StepRequest) Validate() error {
	if r.QuestionRef == "" {
		return &ErrorResponse{
			Code:    "missing_question_ref",
			Message: "question_ref field is required",
		}
	}
	if _, err := engine.ParseRef(r.QuestionRef); err != nil {
		return &ErrorResponse{
			Code:    "invalid_question_ref",
			Message: "question_ref must have the form '{tier}_{id}', e.g. 'medium_2'",
		}
	}
	if r.AnswerIndex == nil {
		return &ErrorResponse{
			Code:    "missing_answer_index",
			Message: "answer_index field is required",
		}
	}
	// -1 is the explicit skip/timeout sentinel; anything else negative is junk.
	if *r.AnswerIndex < engine.SkippedAnswer {
		return &ErrorResponse{
			Code:    "invalid_answer_index",
			Message: "answer_index must be -1 (skipped) or a valid option index",
		}
	}
	return nil
}

// GenerateQuizRequest carries the job metadata used to generate a question
// pool for a new quiz.
type GenerateQuizRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	RequiredSkills  []string `json:"required_skills"`
	ExperienceLevel string   `json:"experience_level"`
	PassingScore    *int     `json:"passing_score"`
	StartDifficulty string   `json:"start_difficulty"`
}

func (r *GenerateQuizRequest) Validate() error {
	if r.Title == "" {
		return &ErrorResponse{
			Code:    "missing_title",
			Message: "title field is required",
		}
	}
	if r.Description == "" {
		return &ErrorResponse{
			Code:    "missing_description",
			Message: "description field is required",
		}
	}
	if r.PassingScore != nil && (*r.PassingScore < 0 || *r.PassingScore > 100) {
		return &ErrorResponse{
			Code:    "invalid_passing_score",
			Message: "passing_score must be between 0 and 100",
		}
	}
	if r.StartDifficulty == "" {
		r.StartDifficulty = engine.Medium.String()
	}
	if _, err := engine.ParseDifficulty(r.StartDifficulty); err != nil {
		return &ErrorResponse{
			Code:    "invalid_start_difficulty",
			Message: "start_difficulty must be one of: easy, medium, hard",
		}
	}
	return nil
}
