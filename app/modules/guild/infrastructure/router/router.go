package guildrouter

import (
	"context"
	"fmt"
	"log/slog"

	guildevents "github.com/Black-And-White-Club/score-bot/app/events/guild"
	guildservice "github.com/Black-And-White-Club/score-bot/app/modules/guild/application"
	guildhandlers "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/handlers"
	"github.com/Black-And-White-Club/score-bot/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// GuildRouter handles routing for guild module events.
type GuildRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	tracer     trace.Tracer
}

// NewGuildRouter creates a new GuildRouter.
func NewGuildRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	tracer trace.Tracer,
) *GuildRouter {
	return &GuildRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		tracer:     tracer,
	}
}

// Configure registers the guild handlers. Router-wide middleware is the
// caller's concern.
func (r *GuildRouter) Configure(routerCtx context.Context, guildService guildservice.Service) error {
	handlers := guildhandlers.NewGuildHandlers(guildService, r.logger)
	if err := r.RegisterHandlers(routerCtx, handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

// RegisterHandlers registers the inbound guild handlers.
func (r *GuildRouter) RegisterHandlers(ctx context.Context, handlers guildhandlers.Handlers) error {
	handlerName := "guild." + guildevents.GuildConfigRetrievalRequestedV1
	r.Router.AddNoPublisherHandler(
		handlerName,
		guildevents.GuildConfigRetrievalRequestedV1,
		r.subscriber,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			r.logger,
			r.tracer,
			r.publisher,
			handlers.HandleRetrieveGroupConfig,
		),
	)
	return nil
}

// Close stops the router.
func (r *GuildRouter) Close() error {
	return r.Router.Close()
}
