package scoreservice

import (
	"context"
	"sync"
	"time"

	guildservice "github.com/Black-And-White-Club/score-bot/app/modules/guild/application"
	guilddb "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/repositories"
	scoredb "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/repositories"
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Score Repo
// ------------------------

type FakeScoreRepo struct {
	mu    sync.Mutex
	trace []string

	RecordPointFunc         func(ctx context.Context, db bun.IDB, event *scoretypes.PointEvent) (bool, error)
	GetPointEventFunc       func(ctx context.Context, db bun.IDB, id uuid.UUID) (*scoretypes.PointEvent, error)
	GetMemberScoreFunc      func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.MemberScore, error)
	GetCategoryScoreFunc    func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID, category string) (int64, error)
	ListPointEventsFunc     func(ctx context.Context, db bun.IDB, filter scoretypes.PointEventFilter) ([]scoretypes.PointEvent, error)
	SumPointEventsFunc      func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (int64, map[string]int64, error)
	ListActiveReceiversFunc func(ctx context.Context, db bun.IDB, since time.Time) ([]scoretypes.MemberKey, error)
}

func NewFakeScoreRepo() *FakeScoreRepo {
	return &FakeScoreRepo{trace: []string{}}
}

func (f *FakeScoreRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeScoreRepo) RecordPoint(ctx context.Context, db bun.IDB, event *scoretypes.PointEvent) (bool, error) {
	f.record("RecordPoint")
	if f.RecordPointFunc != nil {
		return f.RecordPointFunc(ctx, db, event)
	}
	return true, nil
}

func (f *FakeScoreRepo) GetPointEvent(ctx context.Context, db bun.IDB, id uuid.UUID) (*scoretypes.PointEvent, error) {
	f.record("GetPointEvent")
	if f.GetPointEventFunc != nil {
		return f.GetPointEventFunc(ctx, db, id)
	}
	return nil, scoredb.ErrNotFound
}

func (f *FakeScoreRepo) GetMemberScore(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.MemberScore, error) {
	f.record("GetMemberScore")
	if f.GetMemberScoreFunc != nil {
		return f.GetMemberScoreFunc(ctx, db, guildID, memberID)
	}
	return nil, scoredb.ErrNotFound
}

func (f *FakeScoreRepo) GetCategoryScore(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID, category string) (int64, error) {
	f.record("GetCategoryScore")
	if f.GetCategoryScoreFunc != nil {
		return f.GetCategoryScoreFunc(ctx, db, guildID, memberID, category)
	}
	return 0, scoredb.ErrNotFound
}

func (f *FakeScoreRepo) ListPointEvents(ctx context.Context, db bun.IDB, filter scoretypes.PointEventFilter) ([]scoretypes.PointEvent, error) {
	f.record("ListPointEvents")
	if f.ListPointEventsFunc != nil {
		return f.ListPointEventsFunc(ctx, db, filter)
	}
	return nil, nil
}

func (f *FakeScoreRepo) SumPointEvents(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (int64, map[string]int64, error) {
	f.record("SumPointEvents")
	if f.SumPointEventsFunc != nil {
		return f.SumPointEventsFunc(ctx, db, guildID, memberID)
	}
	return 0, map[string]int64{}, nil
}

func (f *FakeScoreRepo) ListActiveReceivers(ctx context.Context, db bun.IDB, since time.Time) ([]scoretypes.MemberKey, error) {
	f.record("ListActiveReceivers")
	if f.ListActiveReceiversFunc != nil {
		return f.ListActiveReceiversFunc(ctx, db, since)
	}
	return nil, nil
}

func (f *FakeScoreRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ scoredb.Repository = (*FakeScoreRepo)(nil)

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

func (f *FakeGuildRepo) GetConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GroupConfig, error) {
	f.trace = append(f.trace, "GetConfig")
	if f.GetConfigFunc != nil {
		return f.GetConfigFunc(ctx, db, guildID)
	}
	return nil, guilddb.ErrNotFound
}

func (f *FakeGuildRepo) UpsertConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, update *guildtypes.ConfigUpdate) (*guildtypes.GroupConfig, error) {
	f.trace = append(f.trace, "UpsertConfig")
	if f.UpsertConfigFunc != nil {
		return f.UpsertConfigFunc(ctx, db, guildID, update)
	}
	cfg := &guildtypes.GroupConfig{GuildID: guildID}
	update.Apply(cfg)
	return cfg, nil
}

func (f *FakeGuildRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ guilddb.Repository = (*FakeGuildRepo)(nil)

// ------------------------
// Fake Resolver
// ------------------------

type FakeResolver struct {
	IsAdminFunc func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, actor sharedtypes.Actor) (bool, error)
	IsJudgeFunc func(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, actor sharedtypes.Actor) (bool, error)
}

func (f *FakeResolver) IsAdmin(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, actor sharedtypes.Actor) (bool, error) {
	if f.IsAdminFunc != nil {
		return f.IsAdminFunc(ctx, db, guildID, actor)
	}
	return false, nil
}

func (f *FakeResolver) IsJudge(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, actor sharedtypes.Actor) (bool, error) {
	if f.IsJudgeFunc != nil {
		return f.IsJudgeFunc(ctx, db, guildID, actor)
	}
	return false, nil
}

var _ guildservice.Resolver = (*FakeResolver)(nil)

func allow() func(context.Context, bun.IDB, sharedtypes.GuildID, sharedtypes.Actor) (bool, error) {
	return func(context.Context, bun.IDB, sharedtypes.GuildID, sharedtypes.Actor) (bool, error) { return true, nil }
}

func deny() func(context.Context, bun.IDB, sharedtypes.GuildID, sharedtypes.Actor) (bool, error) {
	return func(context.Context, bun.IDB, sharedtypes.GuildID, sharedtypes.Actor) (bool, error) { return false, nil }
}

func configuredGuild(context.Context, bun.IDB, sharedtypes.GuildID) (*guildtypes.GroupConfig, error) {
	return &guildtypes.GroupConfig{GuildID: "g1"}, nil
}
