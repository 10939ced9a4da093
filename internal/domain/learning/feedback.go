package learning

import (
	"time"
)

// Feedback is the scored assessment of one Summary. The unique index
// on summary_id enforces at most one feedback per summary even under
// concurrent generation.
type Feedback struct {
	ID        string   `gorm:"type:char(26);primaryKey" json:"id"`
	SummaryID string   `gorm:"type:char(26);not null;uniqueIndex" json:"summary_id"`
	Summary   *Summary `gorm:"constraint:OnDelete:CASCADE;foreignKey:SummaryID;references:ID" json:"-"`

	Comment string  `gorm:"type:text;not null" json:"comment"`
	Score   float64 `gorm:"not null" json:"score"`

	// Optional per-dimension scores from the LLM. Response-only; never
	// written to the database.
	DetailedScores map[string]float64 `gorm:"-" json:"detailed_scores,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Feedback) TableName() string { return "feedback" }
