package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/score-bot/app/eventbus"
	"github.com/Black-And-White-Club/score-bot/app/modules/guild"
	"github.com/Black-And-White-Club/score-bot/app/modules/score"
	"github.com/Black-And-White-Club/score-bot/app/observability"
	"github.com/Black-And-White-Club/score-bot/config"
	"github.com/Black-And-White-Club/score-bot/db/bundb"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// App wires storage, the event bus and the modules together.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	GuildModule   *guild.Module
	ScoreModule   *score.Module
	httpServer    *http.Server
	routerCancel  context.CancelFunc
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger
	app := &App{Config: cfg, Observability: obs}

	if cfg.Storage.Driver == config.DriverPostgres {
		db, err := bundb.NewBunDB(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		app.DB = db
		if cfg.Postgres.AutoMigrate {
			if err := bundb.RunMigrations(ctx, db, logger); err != nil {
				app.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
	}

	if cfg.NATS.URL != "" {
		bus, err := eventbus.NewNATS(ctx, eventbus.Config{URL: cfg.NATS.URL, QueueGroup: cfg.NATS.QueueGroup}, logger)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize event bus: %w", err)
		}
		app.EventBus = bus
	} else {
		logger.WarnContext(ctx, "NATS URL not set, using in-process event bus")
		app.EventBus = eventbus.NewInProcess(logger)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create Watermill router: %w", err)
	}
	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)
	app.Router = router

	routerCtx, routerCancel := context.WithCancel(ctx)
	app.routerCancel = routerCancel

	app.GuildModule, err = guild.NewGuildModule(ctx, cfg, obs, app.DB, app.EventBus, router, routerCtx)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create guild module: %w", err)
	}
	app.ScoreModule, err = score.NewScoreModule(ctx, cfg, obs, app.DB, app.GuildModule, app.EventBus, router, routerCtx)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to create score module: %w", err)
	}

	if cfg.HTTP.Address != "" {
		app.httpServer = &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           app.ScoreModule.HTTPHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return app, nil
}

// Run runs the router, the modules and the HTTP listener until ctx is
// canceled or one of them fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.Router.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("watermill router: %w", err)
		}
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go app.ScoreModule.Run(ctx, &wg)

	if app.httpServer != nil {
		g.Go(func() error {
			logger.InfoContext(ctx, "HTTP server listening", slog.String("address", app.httpServer.Addr))
			if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.httpServer.Shutdown(shutdownCtx)
		})
	}

	err := g.Wait()
	wg.Wait()
	return err
}

// Close releases every resource NewApp acquired.
func (app *App) Close() error {
	var errs []error
	if app.routerCancel != nil {
		app.routerCancel()
	}
	if app.ScoreModule != nil {
		if err := app.ScoreModule.Close(); err != nil {
			errs = append(errs, err)
		}
	} else if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event bus: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
