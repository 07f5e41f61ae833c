package guilddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/uptrace/bun"
)

// Impl implements Repository on Postgres via bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new guild config repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetConfig retrieves a guild config by guild ID.
func (r *Impl) GetConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GroupConfig, error) {
	db = r.resolveDB(db)
	model := new(GroupConfig)
	err := db.NewSelect().
		Model(model).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("guilddb.GetConfig: %w", err)
	}
	return model.toSharedModel(), nil
}

// UpsertConfig inserts the guild row or updates only the supplied columns in a
// single statement, so concurrent configure calls never read-modify-write.
func (r *Impl) UpsertConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, update *guildtypes.ConfigUpdate) (*guildtypes.GroupConfig, error) {
	db = r.resolveDB(db)
	if update == nil {
		update = &guildtypes.ConfigUpdate{}
	}

	model := &GroupConfig{
		GuildID:     guildID,
		AdminRoleID: fromRole(update.AdminRoleID),
		JudgeRoleID: fromRole(update.JudgeRoleID),
		UpdatedAt:   time.Now().UTC(),
	}

	q := db.NewInsert().
		Model(model).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at")
	if update.AdminRoleID != nil {
		q = q.Set("admin_role_id = EXCLUDED.admin_role_id")
	}
	if update.JudgeRoleID != nil {
		q = q.Set("judge_role_id = EXCLUDED.judge_role_id")
	}

	if _, err := q.Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("guilddb.UpsertConfig: %w", err)
	}
	return model.toSharedModel(), nil
}
