package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/Wafi-Ahmad/Hirehub/internal/engine"
	"github.com/Wafi-Ahmad/Hirehub/internal/models"
	"github.com/Wafi-Ahmad/Hirehub/internal/prompts"
)

// questionsPerTier is the nominal pool size per difficulty tier.
const questionsPerTier = 5

// ExternalServiceError wraps a failure of the text-generation service.
type ExternalServiceError struct {
	Message string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// IsExternal reports whether err came from the generation service.
func IsExternal(err error) bool {
	var ee *ExternalServiceError
	return errors.As(err, &ee)
}

// Generator produces question pools by calling the Gemini API with the
// embedded quiz prompt.
type Generator struct {
	client  *genai.Client
	model   string
	prompts *prompts.Manager
	logger  *zap.Logger
}

func New(ctx context.Context, apiKey, model string, logger *zap.Logger) (*Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ExternalServiceError{Message: "failed to create Gemini client", Err: err}
	}

	promptManager, err := prompts.NewManager()
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:  client,
		model:   model,
		prompts: promptManager,
		logger:  logger,
	}, nil
}

// GeneratePool calls the model and converts its JSON output into a validated
// question pool. Options are shuffled here so the correct index varies even
// though the model always emits the correct answer first.
func (g *Generator) GeneratePool(ctx context.Context, job *models.GenerateQuizRequest) (engine.Pool, error) {
	prompt, err := g.prompts.BuildPrompt("quiz", map[string]string{
		"Title":       job.Title,
		"Description": job.Description,
		"Skills":      strings.Join(job.RequiredSkills, ", "),
		"Level":       job.ExperienceLevel,
		"PerTier":     strconv.Itoa(questionsPerTier),
	})
	if err != nil {
		return nil, err
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, &ExternalServiceError{Message: "failed to generate quiz questions", Err: err}
	}
	if result == nil {
		return nil, &ExternalServiceError{Message: "no response generated"}
	}
	text, err := result.Text()
	if err != nil {
		return nil, &ExternalServiceError{Message: "failed to extract response text", Err: err}
	}

	pool, err := parsePool(text)
	if err != nil {
		return nil, &ExternalServiceError{Message: "invalid response from generation service", Err: err}
	}

	g.logger.Info("Question pool generated",
		zap.String("job_title", job.Title),
		zap.Int("question_count", pool.Total()))
	return pool, nil
}

type generatedQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// parsePool converts the model's tier-keyed JSON into an engine pool,
// numbering questions per tier and shuffling each option list.
func parsePool(text string) (engine.Pool, error) {
	var raw map[string][]generatedQuestion
	if err := json.Unmarshal([]byte(stripFences(text)), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode generated questions: %w", err)
	}

	pool := engine.Pool{}
	for tier, generated := range raw {
		difficulty, err := engine.ParseDifficulty(tier)
		if err != nil {
			return nil, err
		}
		questions := make([]engine.Question, 0, len(generated))
		for i, gq := range generated {
			if len(gq.Options) != engine.OptionsPerQuestion {
				return nil, fmt.Errorf("%s question %d has %d options, want %d",
					tier, i+1, len(gq.Options), engine.OptionsPerQuestion)
			}
			questions = append(questions, shuffledQuestion(i+1, gq))
		}
		pool[difficulty] = questions
	}

	if err := pool.Validate(); err != nil {
		return nil, err
	}
	return pool, nil
}

// shuffledQuestion permutes the options of one generated question. The model
// emits the correct answer at index 0; the permutation decides where it ends
// up and the new index is recorded.
func shuffledQuestion(id int, gq generatedQuestion) engine.Question {
	perm := rand.Perm(len(gq.Options))
	options := make([]string, len(gq.Options))
	correct := 0
	for to, from := range perm {
		options[to] = gq.Options[from]
		if from == 0 {
			correct = to
		}
	}
	return engine.Question{
		ID:            id,
		Text:          gq.Question,
		Options:       options,
		CorrectOption: correct,
	}
}

// stripFences removes a surrounding markdown code fence if the model added
// one despite the prompt.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
