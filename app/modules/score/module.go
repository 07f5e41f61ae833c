package score

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/Black-And-White-Club/score-bot/app/eventbus"
	"github.com/Black-And-White-Club/score-bot/app/modules/guild"
	scoreservice "github.com/Black-And-White-Club/score-bot/app/modules/score/application"
	scoreaudit "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/audit"
	scorehttp "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/httpapi"
	scoredb "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/repositories"
	scorerouter "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/router"
	"github.com/Black-And-White-Club/score-bot/app/observability"
	"github.com/Black-And-White-Club/score-bot/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the score module.
type Module struct {
	ScoreService  scoreservice.Service
	ScoreRouter   *scorerouter.ScoreRouter
	Repository    scoredb.Repository
	config        *config.Config
	observability *observability.Observability
	httpHandler   http.Handler
	auditor       *scoreaudit.Scheduler
	cancelFunc    context.CancelFunc
}

// NewScoreModule creates a new instance of the score module. A nil db
// selects the in-memory repository.
func NewScoreModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	guildModule *guild.Module,
	eventBus eventbus.EventBus,
	router *message.Router,
	routerCtx context.Context,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "score.NewScoreModule called")

	var repo scoredb.Repository
	if db != nil {
		repo = scoredb.NewRepository(db)
	} else {
		repo = scoredb.NewMemoryRepository()
	}

	scoreService := scoreservice.NewScoreService(
		guildModule.Repository,
		repo,
		guildModule.Resolver,
		logger,
		obs.ScoreMetrics,
		obs.Tracer,
		db,
		scoreservice.Options{
			StoreTimeout:      cfg.Scoring.StoreTimeout,
			MaxCategoryLength: cfg.Scoring.MaxCategoryLength,
			MaxListLimit:      cfg.Scoring.MaxListLimit,
		},
	)

	scoreRouter := scorerouter.NewScoreRouter(logger, router, eventBus, eventBus, obs.Tracer)
	if err := scoreRouter.Configure(routerCtx, scoreService); err != nil {
		return nil, fmt.Errorf("failed to configure score router: %w", err)
	}

	httpHandler := scorehttp.NewRouter(
		scorehttp.NewScoreHTTP(scoreService, logger),
		obs.Registry,
		scorehttp.Options{
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
			RateLimit:      cfg.HTTP.RateLimit,
			RateBurst:      cfg.HTTP.RateBurst,
		},
	)

	var auditor *scoreaudit.Scheduler
	if cfg.Scoring.AuditSchedule != "" {
		var err error
		auditor, err = scoreaudit.NewScheduler(scoreService, cfg.Scoring.AuditSchedule, cfg.Scoring.AuditLookback, logger)
		if err != nil {
			return nil, err
		}
	}

	return &Module{
		ScoreService:  scoreService,
		ScoreRouter:   scoreRouter,
		Repository:    repo,
		config:        cfg,
		observability: obs,
		httpHandler:   httpHandler,
		auditor:       auditor,
	}, nil
}

// HTTPHandler returns the read API, health probe and metrics endpoint.
func (m *Module) HTTPHandler() http.Handler {
	return m.httpHandler
}

// Run starts the audit job and blocks until ctx is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting score module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.auditor != nil {
		if err := m.auditor.Start(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to start ledger audit", slog.Any("error", err))
		} else {
			defer m.auditor.Stop()
		}
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Score module goroutine stopped")
}

// Close stops the score module and cleans up resources.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping score module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.ScoreRouter != nil {
		if err := m.ScoreRouter.Close(); err != nil {
			logger.Error("Error closing ScoreRouter from module", slog.Any("error", err))
			return fmt.Errorf("error closing ScoreRouter: %w", err)
		}
	}

	logger.Info("Score module stopped")
	return nil
}
