// Package scoreevents defines the topics and payloads exchanged with the chat
// front end.
package scoreevents

import (
	"time"

	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
)

// Inbound topics.
const (
	GuildConfigUpdateRequestedV1 = "guild.config.update.requested.v1"
	PointGiveRequestedV1         = "score.point.give.requested.v1"
	ScoreLookupRequestedV1       = "score.lookup.requested.v1"
)

// Outbound topics. They are published with a ".<guild_id>" suffix.
const (
	GuildConfigUpdatedV1      = "guild.config.updated.v1"
	GuildConfigUpdateFailedV1 = "guild.config.update.failed.v1"
	PointAwardedV1            = "score.point.awarded.v1"
	PointGiveFailedV1         = "score.point.give.failed.v1"
	ScoreLookupResultV1       = "score.lookup.result.v1"
	ScoreLookupFailedV1       = "score.lookup.failed.v1"
)

// ActorPayloadV1 describes who issued a command.
type ActorPayloadV1 struct {
	UserID           sharedtypes.DiscordID `json:"user_id"`
	HasInherentAdmin bool                  `json:"has_inherent_admin"`
	RoleIDs          []sharedtypes.RoleID  `json:"role_ids,omitempty"`
}

// ToActor converts the payload to a domain actor.
func (p ActorPayloadV1) ToActor() sharedtypes.Actor {
	return sharedtypes.NewActor(p.UserID, p.HasInherentAdmin, p.RoleIDs...)
}

// GuildConfigUpdateRequestedPayloadV1 asks to set the guild's roles.
// A nil role leaves the field untouched; an empty string clears it.
type GuildConfigUpdateRequestedPayloadV1 struct {
	GuildID     sharedtypes.GuildID `json:"guild_id"`
	Actor       ActorPayloadV1      `json:"actor"`
	AdminRoleID *sharedtypes.RoleID `json:"admin_role_id,omitempty"`
	JudgeRoleID *sharedtypes.RoleID `json:"judge_role_id,omitempty"`
}

// GuildConfigUpdatedPayloadV1 carries the stored config.
type GuildConfigUpdatedPayloadV1 struct {
	GuildID sharedtypes.GuildID    `json:"guild_id"`
	Config  guildtypes.GroupConfig `json:"config"`
}

// PointGiveRequestedPayloadV1 asks to award points. ReceiverIDs holds every
// member mentioned by the command; exactly one is accepted. An empty
// Category and a nil Value take the defaults.
//
// RequestID identifies the command across retries; a repeated RequestID is
// credited once. Without one the message UUID is used, which covers broker
// redelivery but not a front end publishing the command again.
type PointGiveRequestedPayloadV1 struct {
	RequestID   string                  `json:"request_id,omitempty"`
	GuildID     sharedtypes.GuildID     `json:"guild_id"`
	Actor       ActorPayloadV1          `json:"actor"`
	ReceiverIDs []sharedtypes.DiscordID `json:"receiver_ids"`
	Category    string                  `json:"category,omitempty"`
	Value       *int64                  `json:"value,omitempty"`
	ChannelID   string                  `json:"channel_id,omitempty"`
}

// PointAwardedPayloadV1 reports a recorded point event.
type PointAwardedPayloadV1 struct {
	GuildID    sharedtypes.GuildID   `json:"guild_id"`
	EventID    string                `json:"event_id"`
	SenderID   sharedtypes.DiscordID `json:"sender_id"`
	ReceiverID sharedtypes.DiscordID `json:"receiver_id"`
	Category   string                `json:"category"`
	Value      int64                 `json:"value"`
	CreatedAt  time.Time             `json:"created_at"`
	ChannelID  string                `json:"channel_id,omitempty"`
}

// ScoreLookupRequestedPayloadV1 asks for a member's score.
type ScoreLookupRequestedPayloadV1 struct {
	GuildID   sharedtypes.GuildID   `json:"guild_id"`
	MemberID  sharedtypes.DiscordID `json:"member_id"`
	Category  *string               `json:"category,omitempty"`
	ChannelID string                `json:"channel_id,omitempty"`
}

// ScoreLookupResultPayloadV1 answers a lookup.
type ScoreLookupResultPayloadV1 struct {
	GuildID   sharedtypes.GuildID   `json:"guild_id"`
	MemberID  sharedtypes.DiscordID `json:"member_id"`
	Category  *string               `json:"category,omitempty"`
	Total     int64                 `json:"total"`
	ChannelID string                `json:"channel_id,omitempty"`
}

// FailurePayloadV1 reports a rejected command. Code is one of the
// shared error codes.
type FailurePayloadV1 struct {
	GuildID   sharedtypes.GuildID `json:"guild_id"`
	Code      string              `json:"code"`
	Reason    string              `json:"reason"`
	ChannelID string              `json:"channel_id,omitempty"`
}
