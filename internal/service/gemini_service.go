package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/khanhduong/wikiquiz/config"
	"github.com/khanhduong/wikiquiz/internal/apperr"
	"github.com/khanhduong/wikiquiz/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiLLMService sends rendered prompts to Gemini and coerces the raw
// output into the structured shape each call site expects. The three
// methods differ only in schema; they share one transport path.
type GeminiLLMService interface {
	GenerateAnalysis(ctx context.Context, prompt string) (*model.Analysis, error)
	GenerateQuiz(ctx context.Context, prompt string) ([]model.QuizQuestion, error)
	GenerateRelatedTopics(ctx context.Context, prompt string) ([]string, error)
}

type geminiLLMService struct {
	model *genai.GenerativeModel
	cfg   *config.Config
}

func NewGeminiLLMService(cfg *config.Config) (GeminiLLMService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. GeminiLLMService will be non-functional.")
		return &geminiLLMService{cfg: cfg}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel(cfg.GeminiModel)
	m.SetTemperature(0.2)
	m.SetMaxOutputTokens(2048)
	return &geminiLLMService{model: m, cfg: cfg}, nil
}

// generate performs one model round-trip and returns the concatenated
// text of the first candidate.
func (s *geminiLLMService) generate(ctx context.Context, prompt string) (string, error) {
	if s.model == nil {
		return "", apperr.New(apperr.KindLLMTransport, "gemini client not initialized (missing API key)")
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if isQuotaError(err) {
			return "", apperr.Wrap(apperr.KindLLMQuota, err, "gemini rate limited")
		}
		return "", apperr.Wrap(apperr.KindLLMTransport, err, "gemini call failed")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apperr.New(apperr.KindMalformedResponse, "gemini returned no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", apperr.New(apperr.KindMalformedResponse, "gemini returned no text content")
	}
	return sb.String(), nil
}

// isQuotaError distinguishes rate limiting from plain transport
// failures so callers can apply different policy to each.
func isQuotaError(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429")
}

func (s *geminiLLMService) GenerateAnalysis(ctx context.Context, prompt string) (*model.Analysis, error) {
	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseAnalysis(raw)
}

func (s *geminiLLMService) GenerateQuiz(ctx context.Context, prompt string) ([]model.QuizQuestion, error) {
	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseQuiz(raw)
}

func (s *geminiLLMService) GenerateRelatedTopics(ctx context.Context, prompt string) ([]string, error) {
	raw, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseRelatedTopics(raw)
}

// The parse helpers separate "not JSON at all" (malformed response)
// from "JSON of the wrong shape" (schema validation) so the caller can
// tell the two apart.

func parseAnalysis(raw string) (*model.Analysis, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindMalformedResponse, err, "analysis response")
	}
	var analysis model.Analysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, apperr.Wrap(apperr.KindSchemaValidation, err, "analysis response is valid JSON but not an analysis object")
	}
	if strings.TrimSpace(analysis.Title) == "" || strings.TrimSpace(analysis.Summary) == "" {
		return nil, apperr.New(apperr.KindSchemaValidation, "analysis response missing title or summary")
	}
	return &analysis, nil
}

func parseQuiz(raw string) ([]model.QuizQuestion, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindMalformedResponse, err, "quiz response")
	}
	var questions []model.QuizQuestion
	if err := json.Unmarshal([]byte(payload), &questions); err != nil {
		return nil, apperr.Wrap(apperr.KindSchemaValidation, err, "quiz response is valid JSON but not an array of questions")
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.Answer) == "" || len(q.Options) == 0 {
			return nil, apperr.New(apperr.KindSchemaValidation, "quiz question %d is missing question, answer or options", i)
		}
	}
	return questions, nil
}

func parseRelatedTopics(raw string) ([]string, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindMalformedResponse, err, "related topics response")
	}
	var topics []string
	if err := json.Unmarshal([]byte(payload), &topics); err != nil {
		return nil, apperr.Wrap(apperr.KindSchemaValidation, err, "related topics response is valid JSON but not an array of strings")
	}
	return topics, nil
}
