// Package gemini generates crossword questions from study text with Gemini on Vertex AI.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"crossword-service/internal/domain"
	"github.com/charmbracelet/log"
	"google.golang.org/genai"
)

const (
	DefaultRegion = "europe-west1"
	DefaultModel  = "gemini-2.5-flash"
)

const systemPrompt = "You are an AI that transforms educational content into interactive game formats."

const promptTemplate = `Transform the following text into a set of quiz questions for the game %q. Return the result as a JSON array in this exact format:

[
  {
    "question": "string",
    "answers": ["A. string", "B. string", "C. string", "D. string"],
    "correct_answer": "Letter. string",
    "difficulty": "Easy" | "Medium"
  }
]

Each question should:
- Be derived directly from the input text.
- Have four answer options (A, B, C, D).
- Specify the correct answer with its option letter (e.g., "B. Answer").
- Assign a difficulty of "Easy" or "Medium" based on complexity.

Input text:
%s
`

var (
	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("empty gemini response")

	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator asks Gemini for multiple choice questions about a text.
type Generator struct {
	models    contentGenerator
	modelName string
	logger    *log.Logger
}

// Config selects the Vertex AI project and model. Empty region and model use the defaults.
type Config struct {
	Project string
	Region  string
	Model   string
}

// NewGenerator creates a client using Application Default Credentials.
// Set GOOGLE_APPLICATION_CREDENTIALS to the service account key file path.
func NewGenerator(ctx context.Context, cfg Config, logger *log.Logger) (*Generator, error) {
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return newGenerator(client.Models, cfg.Model, logger), nil
}

func newGenerator(models contentGenerator, model string, logger *log.Logger) *Generator {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{models: models, modelName: model, logger: logger}
}

// Generate returns validated questions derived from text.
func (g *Generator) Generate(ctx context.Context, title, text string) ([]domain.Question, error) {
	resp, err := g.models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: fmt.Sprintf(promptTemplate, title, text)}},
		}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}},
			Temperature:       genai.Ptr(float32(0.7)),
			TopP:              genai.Ptr(float32(0.9)),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, ErrEmptyResponse
	}
	g.logger.Debug("gemini response", "model", g.modelName, "bytes", len(raw))

	questions, err := ParseQuestions(raw)
	if err != nil {
		g.logger.Warn("unusable gemini response", "err", err, "raw", raw)
		return nil, err
	}
	return questions, nil
}

// ParseQuestions decodes a JSON array of questions, optionally wrapped in a markdown code
// fence, and validates every entry.
func ParseQuestions(raw string) ([]domain.Question, error) {
	body := strings.TrimSpace(raw)
	if m := fencedJSON.FindStringSubmatch(body); m != nil {
		body = m[1]
	}

	var questions []domain.Question
	if err := json.Unmarshal([]byte(body), &questions); err != nil {
		return nil, fmt.Errorf("parse questions JSON: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: no questions in response", domain.ErrInvalidQuestion)
	}
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return questions, nil
}
