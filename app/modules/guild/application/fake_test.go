package guildservice

import (
	"context"

	guilddb "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/repositories"
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Guild Repo
// ------------------------

type FakeGuildRepo struct {
	trace []string

	GetConfigFunc    func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GroupConfig, error)
	UpsertConfigFunc func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, update *guildtypes.ConfigUpdate) (*guildtypes.GroupConfig, error)
}

func NewFakeGuildRepo() *FakeGuildRepo {
	return &FakeGuildRepo{trace: []string{}}
}

func (f *FakeGuildRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeGuildRepo) GetConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GroupConfig, error) {
	f.record("GetConfig")
	if f.GetConfigFunc != nil {
		return f.GetConfigFunc(ctx, db, guildID)
	}
	return nil, guilddb.ErrNotFound
}

func (f *FakeGuildRepo) UpsertConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, update *guildtypes.ConfigUpdate) (*guildtypes.GroupConfig, error) {
	f.record("UpsertConfig")
	if f.UpsertConfigFunc != nil {
		return f.UpsertConfigFunc(ctx, db, guildID, update)
	}
	return &guildtypes.GroupConfig{GuildID: guildID}, nil
}

func (f *FakeGuildRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ guilddb.Repository = (*FakeGuildRepo)(nil)

// configured returns a GetConfigFunc serving cfg for every guild.
func configured(cfg *guildtypes.GroupConfig) func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GroupConfig, error) {
	return func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GroupConfig, error) {
		out := *cfg
		out.GuildID = guildID
		return &out, nil
	}
}
