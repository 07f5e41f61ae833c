package guilddb

import (
	"context"
	"errors"

	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a guild has no configuration.
var ErrNotFound = errors.New("guild config not found")

// Repository persists guild role configuration. It holds no authorization
// logic.
//
// The db argument selects the handle (a transaction or the default
// connection when nil).
type Repository interface {
	// GetConfig returns the guild's config or ErrNotFound.
	GetConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GroupConfig, error)

	// UpsertConfig writes only the supplied fields, creating the record when
	// it does not exist, and returns the stored result.
	UpsertConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, update *guildtypes.ConfigUpdate) (*guildtypes.GroupConfig, error)
}
