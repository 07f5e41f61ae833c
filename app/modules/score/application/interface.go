package scoreservice

import (
	"context"
	"time"

	"github.com/Black-And-White-Club/score-bot/app/shared/results"
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
)

// GroupConfigResult carries the stored config or a domain failure
// (ErrUnauthorized, ErrInvalidArgument).
type GroupConfigResult = results.OperationResult[*guildtypes.GroupConfig, error]

// PointEventResult carries the recorded event or a domain failure.
type PointEventResult = results.OperationResult[*scoretypes.PointEvent, error]

// Service is the scoring surface exposed to transports.
//
// Authorization-gated operations report domain failures in the result and
// infrastructure failures (*shared.StorageError) as the error.
type Service interface {
	// ConfigureGroup sets the guild's admin and judge roles. Admin only.
	ConfigureGroup(ctx context.Context, actor sharedtypes.Actor, guildID sharedtypes.GuildID, update guildtypes.ConfigUpdate) (GroupConfigResult, error)

	// GivePoint awards value points in category to receiverID. Judge only.
	GivePoint(ctx context.Context, actor sharedtypes.Actor, guildID sharedtypes.GuildID, receiverID sharedtypes.DiscordID, category string, value int64) (PointEventResult, error)

	// GetScore returns the member's total, or one category's total when
	// category is non-nil. Missing records read as zero.
	GetScore(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID, category *string) (int64, error)

	// GetMemberScore returns the full record, zero-valued when absent.
	GetMemberScore(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.MemberScore, error)

	// ListPointEvents returns raw point events, newest first.
	ListPointEvents(ctx context.Context, filter scoretypes.PointEventFilter) ([]scoretypes.PointEvent, error)

	// AuditMemberScore compares the stored aggregate with the event log.
	AuditMemberScore(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.AuditReport, error)

	// AuditRecentActivity audits every member who received points since.
	AuditRecentActivity(ctx context.Context, since time.Time) ([]scoretypes.AuditReport, error)
}
