package scorehandlers

import (
	"log/slog"

	scoreevents "github.com/Black-And-White-Club/score-bot/app/events/score"
	scoreservice "github.com/Black-And-White-Club/score-bot/app/modules/score/application"
	"github.com/Black-And-White-Club/score-bot/app/shared"
	"github.com/Black-And-White-Club/score-bot/app/shared/handlerwrapper"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/Black-And-White-Club/score-bot/pkg/eventbus"
)

// ScoreHandlers implements the Handlers interface for score events.
type ScoreHandlers struct {
	service scoreservice.Service
	logger  *slog.Logger
}

// NewScoreHandlers creates a new ScoreHandlers instance.
func NewScoreHandlers(service scoreservice.Service, logger *slog.Logger) *ScoreHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoreHandlers{
		service: service,
		logger:  logger,
	}
}

var _ Handlers = (*ScoreHandlers)(nil)

// scoped returns a single result on the guild-scoped form of topic.
func scoped(topic string, guildID sharedtypes.GuildID, payload any) []handlerwrapper.Result {
	return []handlerwrapper.Result{{
		Topic:    eventbus.FormatGuildScopedTopic(topic, string(guildID)),
		Payload:  payload,
		Metadata: map[string]string{"guild_id": string(guildID)},
	}}
}

func failure(topic string, guildID sharedtypes.GuildID, channelID string, err error) []handlerwrapper.Result {
	return scoped(topic, guildID, &scoreevents.FailurePayloadV1{
		GuildID:   guildID,
		Code:      shared.ErrorCode(err),
		Reason:    err.Error(),
		ChannelID: channelID,
	})
}
