package scoredb

import (
	"context"
	"errors"
	"time"

	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a member or category has no score record.
var ErrNotFound = errors.New("score record not found")

// ErrOverflow is returned when an increment would leave the int64 range.
var ErrOverflow = errors.New("score total out of range")

// Repository persists point events and the aggregates derived from them.
type Repository interface {
	// RecordPoint appends the event and increments the receiver's total and
	// category total as one atomic unit. Missing score records are created.
	// An event whose ID is already stored is skipped and reported as false.
	RecordPoint(ctx context.Context, db bun.IDB, event *scoretypes.PointEvent) (bool, error)

	// GetPointEvent returns one stored event, or ErrNotFound.
	GetPointEvent(ctx context.Context, db bun.IDB, id uuid.UUID) (*scoretypes.PointEvent, error)

	// GetMemberScore returns the member's total and category map, or ErrNotFound.
	GetMemberScore(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.MemberScore, error)

	// GetCategoryScore returns one category total, or ErrNotFound.
	GetCategoryScore(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID, category string) (int64, error)

	// ListPointEvents returns events newest first.
	ListPointEvents(ctx context.Context, db bun.IDB, filter scoretypes.PointEventFilter) ([]scoretypes.PointEvent, error)

	// SumPointEvents derives a member's totals from the event log.
	SumPointEvents(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (int64, map[string]int64, error)

	// ListActiveReceivers returns every member who received a point at or after since.
	ListActiveReceivers(ctx context.Context, db bun.IDB, since time.Time) ([]scoretypes.MemberKey, error)
}
