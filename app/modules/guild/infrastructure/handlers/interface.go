package guildhandlers

import (
	"context"

	guildevents "github.com/Black-And-White-Club/score-bot/app/events/guild"
	"github.com/Black-And-White-Club/score-bot/app/shared/handlerwrapper"
)

// Handlers defines the contract for guild event handlers.
type Handlers interface {
	HandleRetrieveGroupConfig(ctx context.Context, payload *guildevents.GuildConfigRetrievalRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
