package dto

import (
	"encoding/json"
	"time"

	"github.com/khanhduong/wikiquiz/internal/model"
)

// GenerateQuizRequest is the body of POST /api/quizzes/generate.
type GenerateQuizRequest struct {
	URL string `json:"url" binding:"required"`
}

// QuizResponse is the full QuizRecord as served to clients.
type QuizResponse struct {
	ID            uint                 `json:"id"`
	URL           string               `json:"url"`
	Title         string               `json:"title"`
	Summary       string               `json:"summary"`
	KeyEntities   model.KeyEntities    `json:"key_entities"`
	Sections      []string             `json:"sections"`
	Quiz          []model.QuizQuestion `json:"quiz"`
	RelatedTopics []string             `json:"related_topics"`
	CreatedAt     time.Time            `json:"created_at"`
}

// QuizSummaryResponse is one row of the history listing. Summary is
// truncated; the UI links through to the full record by ID.
type QuizSummaryResponse struct {
	ID        uint      `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

const summaryTruncateLen = 300

// QuizResponseFromRecord expands the record's JSON columns back into
// structured fields.
func QuizResponseFromRecord(rec *model.QuizRecord) (QuizResponse, error) {
	resp := QuizResponse{
		ID:        rec.ID,
		URL:       rec.URL,
		Title:     rec.Title,
		Summary:   rec.Summary,
		CreatedAt: rec.CreatedAt,
	}
	if len(rec.KeyEntities) > 0 {
		if err := json.Unmarshal(rec.KeyEntities, &resp.KeyEntities); err != nil {
			return QuizResponse{}, err
		}
	}
	if len(rec.Sections) > 0 {
		if err := json.Unmarshal(rec.Sections, &resp.Sections); err != nil {
			return QuizResponse{}, err
		}
	}
	if len(rec.Quiz) > 0 {
		if err := json.Unmarshal(rec.Quiz, &resp.Quiz); err != nil {
			return QuizResponse{}, err
		}
	}
	if len(rec.RelatedTopics) > 0 {
		if err := json.Unmarshal(rec.RelatedTopics, &resp.RelatedTopics); err != nil {
			return QuizResponse{}, err
		}
	}
	return resp, nil
}

// QuizSummaryFromRecord builds a history row with the summary clipped
// to a display-friendly length.
func QuizSummaryFromRecord(rec *model.QuizRecord) QuizSummaryResponse {
	summary := rec.Summary
	if len(summary) > summaryTruncateLen {
		summary = summary[:summaryTruncateLen]
	}
	return QuizSummaryResponse{
		ID:        rec.ID,
		URL:       rec.URL,
		Title:     rec.Title,
		Summary:   summary,
		CreatedAt: rec.CreatedAt,
	}
}
