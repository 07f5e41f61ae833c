package guildhandlers

import (
	"log/slog"

	guildservice "github.com/Black-And-White-Club/score-bot/app/modules/guild/application"
	"github.com/Black-And-White-Club/score-bot/app/shared/handlerwrapper"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/Black-And-White-Club/score-bot/pkg/eventbus"
)

// GuildHandlers implements the Handlers interface for guild events.
type GuildHandlers struct {
	service guildservice.Service
	logger  *slog.Logger
}

// NewGuildHandlers creates a new GuildHandlers instance.
func NewGuildHandlers(service guildservice.Service, logger *slog.Logger) *GuildHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &GuildHandlers{
		service: service,
		logger:  logger,
	}
}

var _ Handlers = (*GuildHandlers)(nil)

func scoped(topic string, guildID sharedtypes.GuildID, payload any) []handlerwrapper.Result {
	return []handlerwrapper.Result{{
		Topic:    eventbus.FormatGuildScopedTopic(topic, string(guildID)),
		Payload:  payload,
		Metadata: map[string]string{"guild_id": string(guildID)},
	}}
}
