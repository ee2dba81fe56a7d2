// Package main is the entry point for the Scholarship Review Hub server.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure review logic without external dependencies
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: repositories, identity, external APIs
// - Interface: HTTP handlers
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/onemoreday/scholarship-hub/config"
	"github.com/onemoreday/scholarship-hub/internal/application/command"
	"github.com/onemoreday/scholarship-hub/internal/application/query"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
	"github.com/onemoreday/scholarship-hub/internal/infrastructure/external/llm"
	"github.com/onemoreday/scholarship-hub/internal/infrastructure/external/mailer"
	"github.com/onemoreday/scholarship-hub/internal/infrastructure/identity"
	"github.com/onemoreday/scholarship-hub/internal/infrastructure/persistence/postgres"
	"github.com/onemoreday/scholarship-hub/internal/infrastructure/persistence/redis"
	httpserver "github.com/onemoreday/scholarship-hub/internal/interface/http"
	"github.com/onemoreday/scholarship-hub/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := setupLogger(cfg)
	log.Info("starting Scholarship Review Hub",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	log.Info("running database migrations")
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. REDIS (sessions)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to Redis")
	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB

	cache, err := redis.NewCache(redisCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer cache.Close()

	sessions := redis.NewSessionStore(cache)

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REPOSITORIES & IDENTITY
	// ─────────────────────────────────────────────────────────────────────────
	applicantRepo := postgres.NewApplicantRepository(dbConn)
	videoRepo := postgres.NewVideoRepository(dbConn)
	voteRepo := postgres.NewVoteRepository(dbConn)
	noteRepo := postgres.NewNoteRepository(dbConn)
	boardRepo := postgres.NewBoardRepository(dbConn)
	accountRepo := postgres.NewAccountRepository(dbConn)

	identityProvider := identity.NewProvider(accountRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. EXTERNAL CLIENTS (email, assistant)
	// ─────────────────────────────────────────────────────────────────────────
	var mail command.Mailer
	if cfg.Mailer.Enabled() {
		mailCfg := mailer.DefaultClientConfig(cfg.Mailer.APIKey, cfg.Mailer.From)
		mailCfg.AppURL = cfg.Mailer.AppURL
		mail = mailer.NewClient(mailCfg)
		log.Info("email delivery enabled", logger.String("from", cfg.Mailer.From))
	} else {
		mail = &logMailer{log: log}
		log.Warn("email delivery not configured, credentials will be logged instead")
	}

	var assistant query.Assistant
	if cfg.LLM.Enabled() {
		client, err := llm.NewClient(ctx, llm.ClientConfig{
			APIKey: cfg.LLM.APIKey,
			Model:  cfg.LLM.Model,
		})
		if err != nil {
			log.Warn("assistant unavailable", logger.Err(err))
		} else {
			assistant = client
			log.Info("assistant enabled", logger.String("model", cfg.LLM.Model))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	deps := httpserver.Dependencies{
		SignIn:              command.NewSignInHandler(boardRepo, identityProvider),
		ChangePassword:      command.NewChangePasswordHandler(identityProvider),
		GetReviewBoard:      query.NewGetReviewBoardHandler(applicantRepo, voteRepo, noteRepo, videoRepo),
		CastVote:            command.NewCastVoteHandler(applicantRepo, voteRepo),
		AddNote:             command.NewAddNoteHandler(applicantRepo, noteRepo),
		DeleteNote:          command.NewDeleteNoteHandler(noteRepo),
		AddApplicant:        command.NewAddApplicantHandler(applicantRepo),
		ImportApplicants:    command.NewImportApplicantsHandler(applicantRepo),
		RemoveApplicant:     command.NewRemoveApplicantHandler(applicantRepo, voteRepo, noteRepo),
		GetBoardMembers:     query.NewGetBoardMembersHandler(boardRepo),
		InviteMember:        command.NewInviteMemberHandler(boardRepo, identityProvider, mail),
		RemoveMember:        command.NewRemoveMemberHandler(boardRepo, voteRepo, identityProvider),
		SetMemberAdmin:      command.NewSetMemberAdminHandler(boardRepo),
		ResetMemberPassword: command.NewResetMemberPasswordHandler(boardRepo, identityProvider, mail),
		ExportResults:       query.NewExportResultsHandler(applicantRepo, voteRepo, boardRepo),
		ExportOverview:      query.NewExportOverviewHandler(applicantRepo, voteRepo, assistant),
		SendEmail:           command.NewSendEmailHandler(mail),
		Sessions:            sessions,
		Features:            cfg.Features,
		Health:              &healthChecker{db: dbConn, cache: cache},
		Logger:              log,
	}

	if assistant != nil {
		deps.SearchApplicants = query.NewSearchApplicantsHandler(applicantRepo, assistant)
		deps.ChatWithApplicant = query.NewChatWithApplicantHandler(applicantRepo, assistant)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	server := httpserver.NewServer(httpserver.ConfigFrom(cfg.HTTP), deps)

	errCh := server.StartAsync()
	log.Info("server ready", logger.String("address", cfg.HTTP.Addr()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}

// healthChecker reports database and cache health for /healthz.
type healthChecker struct {
	db    *postgres.Connection
	cache *redis.Cache
}

func (h *healthChecker) Check(ctx context.Context) httpserver.HealthStatus {
	status := httpserver.HealthStatus{
		Healthy:    true,
		Components: map[string]string{},
	}

	if err := h.db.Ping(ctx); err != nil {
		status.Healthy = false
		status.Components["postgres"] = err.Error()
	} else {
		status.Components["postgres"] = "ok"
	}

	if err := h.cache.Ping(ctx); err != nil {
		status.Healthy = false
		status.Components["redis"] = err.Error()
	} else {
		status.Components["redis"] = "ok"
	}

	if !status.Healthy {
		status.Message = "one or more components are unhealthy"
	}
	return status
}

// logMailer is the development fallback when no email provider is
// configured: credentials land in the server log instead of an inbox.
type logMailer struct {
	log *logger.Logger
}

func (m *logMailer) SendWelcome(_ context.Context, to shared.Email, name, tempPassword string) error {
	m.log.Warn("welcome email skipped (mailer not configured)",
		logger.Email(to.String()),
		logger.String("name", name),
		logger.String("temp_password", tempPassword),
	)
	return nil
}

func (m *logMailer) SendPasswordReset(_ context.Context, to shared.Email, name, tempPassword string) error {
	m.log.Warn("password reset email skipped (mailer not configured)",
		logger.Email(to.String()),
		logger.String("name", name),
		logger.String("temp_password", tempPassword),
	)
	return nil
}

func (m *logMailer) Send(_ context.Context, to []string, subject, _ string, _ string) error {
	m.log.Warn("email skipped (mailer not configured)",
		logger.Any("to", to),
		logger.String("subject", subject),
	)
	return nil
}
