package repos

import (
	"github.com/studyloop/studyloop-backend/internal/data/repos/learning"
	"github.com/studyloop/studyloop-backend/internal/data/repos/user"
	"github.com/studyloop/studyloop-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type CurriculumRepo = learning.CurriculumRepo
type SummaryRepo = learning.SummaryRepo
type FeedbackRepo = learning.FeedbackRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewCurriculumRepo(db *gorm.DB, baseLog *logger.Logger) CurriculumRepo {
	return learning.NewCurriculumRepo(db, baseLog)
}

func NewSummaryRepo(db *gorm.DB, baseLog *logger.Logger) SummaryRepo {
	return learning.NewSummaryRepo(db, baseLog)
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	return learning.NewFeedbackRepo(db, baseLog)
}
