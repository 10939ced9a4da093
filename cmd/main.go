package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studyloop/studyloop-backend/internal/data/repos"
	"github.com/studyloop/studyloop-backend/internal/modules/learning"
	"github.com/studyloop/studyloop-backend/internal/platform/config"
	"github.com/studyloop/studyloop-backend/internal/platform/db"
	"github.com/studyloop/studyloop-backend/internal/platform/llm"
	"github.com/studyloop/studyloop-backend/internal/platform/logger"
)

func main() {
	// Config
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logger
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	curriculumRepo := repos.NewCurriculumRepo(thePG, log)
	summaryRepo := repos.NewSummaryRepo(thePG, log)
	feedbackRepo := repos.NewFeedbackRepo(thePG, log)

	_ = userRepo

	// LLM gateway
	log.Info("Setting up LLM client from main...")
	ai := llm.NewClient(cfg.LLMEndpoint, cfg.LLMAPIKey,
		time.Duration(cfg.LLMTimeoutSeconds)*time.Second, log)

	// Usecases
	log.Info("Setting up Usecases from main...")
	usecases := learning.New(learning.UsecasesDeps{
		DB:        thePG,
		Log:       log,
		AI:        ai,
		Curricula: curriculumRepo,
		Summaries: summaryRepo,
		Feedbacks: feedbackRepo,
	})
	_ = usecases

	log.Info("Learning core ready")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info("Shutting down")
}
