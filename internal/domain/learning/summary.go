package learning

import (
	"time"
)

// Summary is a user-written reflection for one (curriculum, week).
// Several summaries may exist for the same week.
type Summary struct {
	ID           string      `gorm:"type:char(26);primaryKey" json:"id"`
	CurriculumID string      `gorm:"type:char(26);not null;index" json:"curriculum_id"`
	Curriculum   *Curriculum `gorm:"constraint:OnDelete:CASCADE;foreignKey:CurriculumID;references:ID" json:"-"`

	WeekNumber int    `gorm:"not null" json:"week_number"`
	Content    string `gorm:"type:text;not null" json:"content"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Summary) TableName() string { return "summary" }
