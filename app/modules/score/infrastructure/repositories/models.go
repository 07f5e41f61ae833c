package scoredb

import (
	"time"

	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MemberScore is the per-member aggregate in one guild.
type MemberScore struct {
	bun.BaseModel `bun:"table:member_scores,alias:ms"`
	GuildID       sharedtypes.GuildID   `bun:"guild_id,pk,notnull,type:varchar(64)"`
	MemberID      sharedtypes.DiscordID `bun:"member_id,pk,notnull,type:varchar(64)"`
	ReceivedTotal int64                 `bun:"received_total,notnull"`
	CreatedAt     time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time             `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// CategoryScore is the per-member, per-category aggregate.
type CategoryScore struct {
	bun.BaseModel `bun:"table:member_category_scores,alias:mcs"`
	GuildID       sharedtypes.GuildID   `bun:"guild_id,pk,notnull,type:varchar(64)"`
	MemberID      sharedtypes.DiscordID `bun:"member_id,pk,notnull,type:varchar(64)"`
	Category      string                `bun:"category,pk,notnull,type:varchar(64)"`
	ReceivedTotal int64                 `bun:"received_total,notnull"`
	CreatedAt     time.Time             `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time             `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// PointEvent is the append-only award log.
type PointEvent struct {
	bun.BaseModel `bun:"table:point_events,alias:pe"`
	ID            uuid.UUID             `bun:"id,pk,type:uuid"`
	GuildID       sharedtypes.GuildID   `bun:"guild_id,notnull,type:varchar(64)"`
	SenderID      sharedtypes.DiscordID `bun:"sender_id,notnull,type:varchar(64)"`
	ReceiverID    sharedtypes.DiscordID `bun:"receiver_id,notnull,type:varchar(64)"`
	Category      string                `bun:"category,notnull,type:varchar(64)"`
	Value         int64                 `bun:"value,notnull"`
	CreatedAt     time.Time             `bun:"created_at,notnull"`
}

func pointEventFromShared(e *scoretypes.PointEvent) *PointEvent {
	return &PointEvent{
		ID:         e.ID,
		GuildID:    e.GuildID,
		SenderID:   e.SenderID,
		ReceiverID: e.ReceiverID,
		Category:   e.Category,
		Value:      e.Value,
		CreatedAt:  e.CreatedAt,
	}
}

func (m *PointEvent) toSharedModel() scoretypes.PointEvent {
	return scoretypes.PointEvent{
		ID:         m.ID,
		GuildID:    m.GuildID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Category:   m.Category,
		Value:      m.Value,
		CreatedAt:  m.CreatedAt,
	}
}
