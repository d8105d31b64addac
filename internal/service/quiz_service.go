package service

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/khanhduong/wikiquiz/internal/apperr"
	"github.com/khanhduong/wikiquiz/internal/model"
	"github.com/khanhduong/wikiquiz/internal/prompt"
	"github.com/khanhduong/wikiquiz/internal/repository"
	"github.com/khanhduong/wikiquiz/internal/scraper"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ArticleScraper is what the orchestrator needs from the scrape stage.
type ArticleScraper interface {
	Fetch(ctx context.Context, url string) (*scraper.Article, error)
}

// QuizService runs the generate pipeline: cache check, scrape, three
// LLM calls, assembly validation, persist. Each run either stores one
// complete valid record or nothing.
type QuizService interface {
	GenerateQuiz(ctx context.Context, rawURL string) (*model.QuizRecord, error)
	GetQuizByID(id uint) (*model.QuizRecord, error)
	ListQuizzes() ([]model.QuizRecord, error)
}

type quizService struct {
	repo    repository.QuizRepository
	scraper ArticleScraper
	llm     GeminiLLMService
}

func NewQuizService(repo repository.QuizRepository, sc ArticleScraper, llm GeminiLLMService) QuizService {
	return &quizService{repo: repo, scraper: sc, llm: llm}
}

// Prompts get at most this much article text; shorter than this and
// the article is too thin to quiz on.
const (
	maxArticleChars = 8000
	minArticleChars = 100
)

var validDifficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

// NormalizeURL canonicalizes a quiz cache key: scheme must be http(s),
// the fragment and trailing slashes are dropped so cosmetically
// different URLs for the same article share one record.
func NormalizeURL(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", apperr.Wrap(apperr.KindInvalidURL, err, "cannot parse URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", apperr.New(apperr.KindInvalidURL, "URL %q must use http or https", rawURL)
	}
	if u.Host == "" {
		return "", apperr.New(apperr.KindInvalidURL, "URL %q has no host", rawURL)
	}
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String(), nil
}

func (s *quizService) GenerateQuiz(ctx context.Context, rawURL string) (*model.QuizRecord, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	// Cache hit: the stored record is returned as-is, zero LLM calls.
	existing, err := s.repo.FindByURL(normalized)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Info().Str("url", normalized).Uint("id", existing.ID).Msg("Quiz cache hit")
		return existing, nil
	}

	article, err := s.scraper.Fetch(ctx, normalized)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(article.Text)
	if len(text) > maxArticleChars {
		text = text[:maxArticleChars]
	}
	if len(text) < minArticleChars {
		return nil, apperr.New(apperr.KindExtraction,
			"article text too short (%d chars) after cleaning", len(text))
	}

	vars := map[string]string{"article_text": text}
	analysisPrompt, err := prompt.Render(prompt.Analysis, vars)
	if err != nil {
		return nil, err
	}
	quizPrompt, err := prompt.Render(prompt.Quiz, vars)
	if err != nil {
		return nil, err
	}
	topicsPrompt, err := prompt.Render(prompt.RelatedTopics, vars)
	if err != nil {
		return nil, err
	}

	// The three calls share only the source text, so they run
	// concurrently; assembly waits for all of them.
	var (
		analysis *model.Analysis
		quiz     []model.QuizQuestion
		topics   []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		analysis, err = s.llm.GenerateAnalysis(gctx, analysisPrompt)
		return err
	})
	g.Go(func() error {
		var err error
		quiz, err = s.llm.GenerateQuiz(gctx, quizPrompt)
		return err
	})
	g.Go(func() error {
		var err error
		topics, err = s.llm.GenerateRelatedTopics(gctx, topicsPrompt)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	record, err := assembleRecord(normalized, article, analysis, quiz, topics)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(record); err != nil {
		if apperr.IsKind(err, apperr.KindDuplicateURL) {
			// Lost the race for a brand-new URL: the unique constraint
			// kept the store single-record, so hand back the winner.
			winner, lookupErr := s.repo.FindByURL(normalized)
			if lookupErr == nil && winner != nil {
				log.Info().Str("url", normalized).Uint("id", winner.ID).
					Msg("Concurrent generate raced; returning existing record")
				return winner, nil
			}
		}
		return nil, err
	}

	log.Info().Str("url", normalized).Uint("id", record.ID).
		Int("questions", len(quiz)).Msg("Quiz generated and stored")
	return record, nil
}

// assembleRecord combines the three LLM results into one QuizRecord and
// enforces the data-model invariants. Overlong quiz and topic lists are
// clipped to their upper bounds; everything else out of contract fails
// the whole request with nothing persisted.
func assembleRecord(normalizedURL string, article *scraper.Article, analysis *model.Analysis, quiz []model.QuizQuestion, topics []string) (*model.QuizRecord, error) {
	if analysis == nil {
		return nil, apperr.New(apperr.KindAssemblyValidation, "analysis result missing")
	}

	if len(quiz) > 10 {
		quiz = quiz[:10]
	}
	if len(quiz) < 5 {
		return nil, apperr.New(apperr.KindAssemblyValidation,
			"quiz has %d questions, need between 5 and 10", len(quiz))
	}
	for i := range quiz {
		q := &quiz[i]
		if len(q.Options) != 4 {
			return nil, apperr.New(apperr.KindAssemblyValidation,
				"question %d has %d options, need exactly 4", i, len(q.Options))
		}
		if !contains(q.Options, q.Answer) {
			return nil, apperr.New(apperr.KindAssemblyValidation,
				"question %d answer is not one of its options", i)
		}
		q.Difficulty = strings.ToLower(strings.TrimSpace(q.Difficulty))
		if !validDifficulties[q.Difficulty] {
			q.Difficulty = "medium"
		}
	}

	if len(topics) > 8 {
		topics = topics[:8]
	}
	if len(topics) < 5 {
		return nil, apperr.New(apperr.KindAssemblyValidation,
			"got %d related topics, need between 5 and 8", len(topics))
	}

	title := strings.TrimSpace(analysis.Title)
	if title == "" {
		title = article.Title
	}
	sections := analysis.Sections
	if len(sections) == 0 {
		sections = article.Sections
	}

	entitiesJSON, err := json.Marshal(analysis.KeyEntities)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAssemblyValidation, err, "encoding key entities")
	}
	sectionsJSON, err := json.Marshal(sections)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAssemblyValidation, err, "encoding sections")
	}
	quizJSON, err := json.Marshal(quiz)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAssemblyValidation, err, "encoding quiz")
	}
	topicsJSON, err := json.Marshal(topics)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindAssemblyValidation, err, "encoding related topics")
	}

	return &model.QuizRecord{
		URL:           normalizedURL,
		Title:         title,
		Summary:       analysis.Summary,
		KeyEntities:   entitiesJSON,
		Sections:      sectionsJSON,
		Quiz:          quizJSON,
		RelatedTopics: topicsJSON,
		RawHTML:       article.RawHTML,
	}, nil
}

func contains(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}

func (s *quizService) GetQuizByID(id uint) (*model.QuizRecord, error) {
	return s.repo.FindByID(id)
}

func (s *quizService) ListQuizzes() ([]model.QuizRecord, error) {
	return s.repo.ListAll()
}
