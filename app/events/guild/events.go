// Package guildevents defines the group configuration read topics.
package guildevents

import (
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
)

// GuildConfigRetrievalRequestedV1 asks for a guild's stored roles.
const GuildConfigRetrievalRequestedV1 = "guild.config.retrieval.requested.v1"

// Outbound topics, published with a ".<guild_id>" suffix.
const (
	GuildConfigRetrievedV1       = "guild.config.retrieved.v1"
	GuildConfigRetrievalFailedV1 = "guild.config.retrieval.failed.v1"
)

// GuildConfigRetrievalRequestedPayloadV1 names the guild to read.
type GuildConfigRetrievalRequestedPayloadV1 struct {
	GuildID   sharedtypes.GuildID `json:"guild_id"`
	ChannelID string              `json:"channel_id,omitempty"`
}

// GuildConfigRetrievedPayloadV1 carries the stored config.
type GuildConfigRetrievedPayloadV1 struct {
	GuildID   sharedtypes.GuildID    `json:"guild_id"`
	Config    guildtypes.GroupConfig `json:"config"`
	ChannelID string                 `json:"channel_id,omitempty"`
}

// GuildConfigRetrievalFailedPayloadV1 explains a failed read.
type GuildConfigRetrievalFailedPayloadV1 struct {
	GuildID   sharedtypes.GuildID `json:"guild_id"`
	Code      string              `json:"code"`
	Reason    string              `json:"reason"`
	ChannelID string              `json:"channel_id,omitempty"`
}
