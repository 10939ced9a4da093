package learning

import (
	"time"

	"gorm.io/gorm"

	"github.com/studyloop/studyloop-backend/internal/data/repos"
	"github.com/studyloop/studyloop-backend/internal/platform/ids"
	"github.com/studyloop/studyloop-backend/internal/platform/llm"
	"github.com/studyloop/studyloop-backend/internal/platform/logger"
)

// MaxCurriculumsPerOwner is the per-owner creation quota.
const MaxCurriculumsPerOwner = 10

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	AI llm.Client

	Curricula repos.CurriculumRepo
	Summaries repos.SummaryRepo
	Feedbacks repos.FeedbackRepo

	IDs *ids.Generator

	// Now is the UTC clock; injectable for tests.
	Now func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.IDs == nil {
		deps.IDs = ids.NewGenerator()
	}
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}
