package scorerouter

import (
	"context"
	"fmt"
	"log/slog"

	scoreevents "github.com/Black-And-White-Club/score-bot/app/events/score"
	scoreservice "github.com/Black-And-White-Club/score-bot/app/modules/score/application"
	scorehandlers "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/handlers"
	"github.com/Black-And-White-Club/score-bot/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// ScoreRouter handles routing for score module events.
type ScoreRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	tracer     trace.Tracer
}

// NewScoreRouter creates a new ScoreRouter.
func NewScoreRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	tracer trace.Tracer,
) *ScoreRouter {
	return &ScoreRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		tracer:     tracer,
	}
}

// Configure registers the score handlers. Router-wide middleware is the
// caller's concern.
func (r *ScoreRouter) Configure(routerCtx context.Context, scoreService scoreservice.Service) error {
	handlers := scorehandlers.NewScoreHandlers(scoreService, r.logger)

	if err := r.RegisterHandlers(routerCtx, handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	logger     *slog.Logger
	tracer     trace.Tracer
}

// registerHandler registers a transformation-pattern handler with typed payload.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "score." + topic

	deps.router.AddNoPublisherHandler(
		handlerName,
		topic,
		deps.subscriber,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.publisher,
			handler,
		),
	)
}

// RegisterHandlers registers the inbound command handlers.
func (r *ScoreRouter) RegisterHandlers(ctx context.Context, handlers scorehandlers.Handlers) error {
	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	registerHandler(deps, scoreevents.GuildConfigUpdateRequestedV1, handlers.HandleConfigureGroup)
	registerHandler(deps, scoreevents.PointGiveRequestedV1, handlers.HandleGivePoint)
	registerHandler(deps, scoreevents.ScoreLookupRequestedV1, handlers.HandleScoreLookup)

	return nil
}

// Close stops the router.
func (r *ScoreRouter) Close() error {
	return r.Router.Close()
}
