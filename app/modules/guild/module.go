package guild

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/score-bot/app/eventbus"
	guildservice "github.com/Black-And-White-Club/score-bot/app/modules/guild/application"
	guilddb "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/repositories"
	guildrouter "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/router"
	"github.com/Black-And-White-Club/score-bot/app/observability"
	"github.com/Black-And-White-Club/score-bot/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// Module represents the guild module: the group config store, the
// permission resolver reading it and the config read surface.
type Module struct {
	Repository   guilddb.Repository
	Resolver     guildservice.Resolver
	GuildService guildservice.Service
	GuildRouter  *guildrouter.GuildRouter
}

// NewGuildModule creates the guild module and registers its handlers on
// router. A nil db selects the in-memory repository.
func NewGuildModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
	routerCtx context.Context,
) (*Module, error) {
	logger := obs.Logger

	var repo guilddb.Repository
	if db != nil {
		repo = guilddb.NewRepository(db)
	} else {
		repo = guilddb.NewMemoryRepository()
	}

	logger.InfoContext(ctx, "guild.NewGuildModule called", slog.Bool("memory", db == nil))

	guildService := guildservice.NewGuildService(repo, logger, obs.Tracer, cfg.Scoring.StoreTimeout)
	guildRouter := guildrouter.NewGuildRouter(logger, router, eventBus, eventBus, obs.Tracer)
	if err := guildRouter.Configure(routerCtx, guildService); err != nil {
		return nil, fmt.Errorf("failed to configure guild router: %w", err)
	}

	return &Module{
		Repository:   repo,
		Resolver:     guildservice.NewPermissionResolver(repo, guildservice.ActorRoleChecker{}, logger, obs.Tracer),
		GuildService: guildService,
		GuildRouter:  guildRouter,
	}, nil
}
