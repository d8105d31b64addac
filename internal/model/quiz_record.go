package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuizRecord is the sole persisted entity: one generated quiz per
// distinct (normalized) Wikipedia URL. Records are immutable after
// creation; regeneration is prevented by the cache lookup on URL.
type QuizRecord struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	URL           string         `json:"url" gorm:"size:500;not null;uniqueIndex"`
	Title         string         `json:"title" gorm:"size:500"`
	Summary       string         `json:"summary" gorm:"type:text"`
	KeyEntities   datatypes.JSON `json:"key_entities"`
	Sections      datatypes.JSON `json:"sections"`
	Quiz          datatypes.JSON `json:"quiz" gorm:"not null"`
	RelatedTopics datatypes.JSON `json:"related_topics"`
	RawHTML       string         `json:"-" gorm:"type:text"` // original page HTML, kept for audit
	CreatedAt     time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

func (QuizRecord) TableName() string { return "quizzes" }

// KeyEntities groups the named entities the analysis call extracts.
type KeyEntities struct {
	People        []string `json:"people"`
	Organizations []string `json:"organizations"`
	Locations     []string `json:"locations"`
}

// QuizQuestion is one multiple-choice question. Answer must equal one
// of Options, and Options always has exactly four entries.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Difficulty  string   `json:"difficulty"` // easy | medium | hard
}

// Analysis is the structured result of the analysis prompt.
type Analysis struct {
	Title       string      `json:"title"`
	Summary     string      `json:"summary"`
	KeyEntities KeyEntities `json:"key_entities"`
	Sections    []string    `json:"sections"`
}
