package learning

import (
	"encoding/json"
	"time"

	"github.com/studyloop/studyloop-backend/internal/domain/user"
	"gorm.io/datatypes"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "PRIVATE"
	VisibilityPublic  Visibility = "PUBLIC"
)

// Curriculum is the aggregate root: it owns its WeekSchedules and,
// transitively, the summaries and feedbacks written against them.
type Curriculum struct {
	ID      string     `gorm:"type:char(26);primaryKey" json:"id"`
	OwnerID string     `gorm:"type:char(26);not null;index" json:"owner_id"`
	Owner   *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"owner,omitempty"`

	Title      string     `gorm:"not null" json:"title"`
	Visibility Visibility `gorm:"type:varchar(10);not null;default:'PRIVATE';index" json:"visibility"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	WeekSchedules []WeekSchedule `gorm:"constraint:OnDelete:CASCADE;foreignKey:CurriculumID;references:ID" json:"week_schedules"`
}

func (Curriculum) TableName() string { return "curriculum" }

// WeekSchedule returns the schedule for the given week, or nil.
func (c *Curriculum) WeekSchedule(weekNumber int) *WeekSchedule {
	for i := range c.WeekSchedules {
		if c.WeekSchedules[i].WeekNumber == weekNumber {
			return &c.WeekSchedules[i]
		}
	}
	return nil
}

// WeekSchedule is one week inside a Curriculum. It carries no identity
// of its own outside the store; callers address it by
// (curriculum_id, week_number).
type WeekSchedule struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"-"`
	CurriculumID string         `gorm:"type:char(26);not null;uniqueIndex:uq_week_schedule_curriculum_week" json:"-"`
	WeekNumber   int            `gorm:"not null;uniqueIndex:uq_week_schedule_curriculum_week" json:"week_number"`
	Lessons      datatypes.JSON `gorm:"type:jsonb;not null" json:"lessons"`
}

func (WeekSchedule) TableName() string { return "week_schedule" }

// LessonList decodes the stored lessons. A broken column yields nil;
// the validators guarantee writes are well-formed.
func (w *WeekSchedule) LessonList() []string {
	var lessons []string
	if err := json.Unmarshal(w.Lessons, &lessons); err != nil {
		return nil
	}
	return lessons
}

func (w *WeekSchedule) SetLessons(lessons []string) {
	raw, _ := json.Marshal(lessons)
	w.Lessons = datatypes.JSON(raw)
}

// NewWeekSchedule builds a detached schedule row; the store fills
// CurriculumID on save.
func NewWeekSchedule(weekNumber int, lessons []string) WeekSchedule {
	w := WeekSchedule{WeekNumber: weekNumber}
	w.SetLessons(lessons)
	return w
}
