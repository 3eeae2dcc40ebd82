package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/accounts"
	"resume-parser-backend/internal/artifacts"
	"resume-parser-backend/internal/chat"
	"resume-parser-backend/internal/extract"
	"resume-parser-backend/internal/jobs"
	"resume-parser-backend/internal/llm"
	"resume-parser-backend/internal/llm/gemini"
	"resume-parser-backend/internal/resumes"
	"resume-parser-backend/internal/saved"
	"resume-parser-backend/internal/server"
	"resume-parser-backend/internal/shared/auth"
	"resume-parser-backend/internal/shared/config"
	"resume-parser-backend/internal/shared/storage/db"
)

// App holds shared dependencies constructed at build time. There is no
// global client or session state; everything is passed down from here.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Artifacts      *artifacts.Store
	Tokens         *auth.Manager
	LLMFactory     llm.Factory
	AccountRepo    accounts.Repo
	SavedRepo      saved.Repo
	AccountService *accounts.Service
	SavedService   *saved.Service
	Coordinator    *resumes.Coordinator
	ResumeHandler  *resumes.Handler
	JobsHandler    *jobs.Handler
	ChatHandler    *chat.Handler
	AccountHandler *accounts.Handler
	SavedHandler   *saved.Handler
	OAuth          *accounts.OAuthService
}

// Build validates config and wires every dependency.
func Build(cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := artifacts.NewStore(cfg.UploadDir, cfg.ProcessedDir)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewManager(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:     cfg,
		DB:         sqlDB,
		Artifacts:  store,
		Tokens:     tokens,
		LLMFactory: gemini.Factory(cfg.GeminiAPIKey, cfg.GeminiModel),
	}
	buildServices(app)

	app.Router = server.NewRouter(server.Deps{
		Config:         cfg,
		Tokens:         tokens,
		ResumeHandler:  app.ResumeHandler,
		JobsHandler:    app.JobsHandler,
		ChatHandler:    app.ChatHandler,
		AccountHandler: app.AccountHandler,
		SavedHandler:   app.SavedHandler,
		OAuth:          app.OAuth,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildServices(app *App) {
	cfg := app.Config

	var accountRepo accounts.Repo
	var savedRepo saved.Repo
	if app.DB != nil {
		accountRepo = &accounts.PGRepo{DB: app.DB}
		savedRepo = &saved.PGRepo{DB: app.DB}
	} else {
		memAccounts := accounts.NewMemoryRepo()
		accountRepo = memAccounts
		savedRepo = saved.NewMemoryRepo(memAccounts)
	}

	extractor := &extract.Extractor{OCR: extract.NewTesseractOCR(cfg.TesseractCmd)}
	pipeline := &resumes.Pipeline{
		Extractor: extractor,
		Synth:     resumes.NewSynthesizer(),
		Store:     app.Artifacts,
	}
	coordinator := &resumes.Coordinator{
		Store:    app.Artifacts,
		Pipeline: pipeline,
		Factory:  app.LLMFactory,
		Workers:  cfg.BatchWorkers,
	}

	accountSvc := accounts.NewService(accountRepo, app.Tokens)
	savedSvc := saved.NewService(savedRepo)
	verifier := accounts.NewGoogleVerifier(cfg.GoogleClientID, accountRepo, app.Tokens)

	app.AccountRepo = accountRepo
	app.SavedRepo = savedRepo
	app.AccountService = accountSvc
	app.SavedService = savedSvc
	app.Coordinator = coordinator
	app.ResumeHandler = &resumes.Handler{Coordinator: coordinator, Store: app.Artifacts}
	app.JobsHandler = &jobs.Handler{
		Store:       app.Artifacts,
		Recommender: jobs.NewRecommender(),
		Factory:     app.LLMFactory,
	}
	app.ChatHandler = &chat.Handler{
		Store:     app.Artifacts,
		Responder: chat.NewResponder(),
		Factory:   app.LLMFactory,
	}
	app.AccountHandler = &accounts.Handler{Service: accountSvc, Verifier: verifier}
	app.SavedHandler = &saved.Handler{Service: savedSvc}

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		app.OAuth = accounts.NewOAuthService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
			accountRepo,
			app.Tokens,
		)
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
