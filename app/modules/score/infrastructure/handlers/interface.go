package scorehandlers

import (
	"context"

	scoreevents "github.com/Black-And-White-Club/score-bot/app/events/score"
	"github.com/Black-And-White-Club/score-bot/app/shared/handlerwrapper"
)

// Handlers defines the contract for score event handlers.
type Handlers interface {
	HandleConfigureGroup(ctx context.Context, payload *scoreevents.GuildConfigUpdateRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleGivePoint(ctx context.Context, payload *scoreevents.PointGiveRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleScoreLookup(ctx context.Context, payload *scoreevents.ScoreLookupRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
