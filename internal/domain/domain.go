package domain

import (
	"github.com/studyloop/studyloop-backend/internal/domain/learning"
	"github.com/studyloop/studyloop-backend/internal/domain/user"
)

type User = user.User
type Role = user.Role

const (
	RoleUser  = user.RoleUser
	RoleAdmin = user.RoleAdmin
)

type Curriculum = learning.Curriculum
type WeekSchedule = learning.WeekSchedule
type Summary = learning.Summary
type Feedback = learning.Feedback

var NewWeekSchedule = learning.NewWeekSchedule

type Visibility = learning.Visibility

const (
	VisibilityPrivate = learning.VisibilityPrivate
	VisibilityPublic  = learning.VisibilityPublic
)
