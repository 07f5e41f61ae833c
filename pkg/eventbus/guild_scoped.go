package eventbus

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
)

// PublishWithGuildScope publishes msg on {baseTopic}.{guildID}.
//
// Consumers subscribe with wildcards:
//   - "score.point.awarded.v1.*" catches all guilds
//   - "score.point.awarded.v1.123456789" catches one guild
func PublishWithGuildScope(pub message.Publisher, baseTopic string, guildID string, msg *message.Message) error {
	if guildID == "" {
		return fmt.Errorf("guildID cannot be empty for guild-scoped publish")
	}
	return pub.Publish(FormatGuildScopedTopic(baseTopic, guildID), msg)
}

// FormatGuildScopedTopic formats a topic with guild_id suffix without publishing.
func FormatGuildScopedTopic(baseTopic string, guildID string) string {
	return fmt.Sprintf("%s.%s", baseTopic, guildID)
}
