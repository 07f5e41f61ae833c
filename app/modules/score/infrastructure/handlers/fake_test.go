package scorehandlers

import (
	"context"
	"time"

	scoreservice "github.com/Black-And-White-Club/score-bot/app/modules/score/application"
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
)

// FakeScoreService provides a programmable stub for scoreservice.Service.
type FakeScoreService struct {
	trace []string

	ConfigureGroupFunc      func(ctx context.Context, actor sharedtypes.Actor, guildID sharedtypes.GuildID, update guildtypes.ConfigUpdate) (scoreservice.GroupConfigResult, error)
	GivePointFunc           func(ctx context.Context, actor sharedtypes.Actor, guildID sharedtypes.GuildID, receiverID sharedtypes.DiscordID, category string, value int64) (scoreservice.PointEventResult, error)
	GetScoreFunc            func(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID, category *string) (int64, error)
	GetMemberScoreFunc      func(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.MemberScore, error)
	ListPointEventsFunc     func(ctx context.Context, filter scoretypes.PointEventFilter) ([]scoretypes.PointEvent, error)
	AuditMemberScoreFunc    func(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.AuditReport, error)
	AuditRecentActivityFunc func(ctx context.Context, since time.Time) ([]scoretypes.AuditReport, error)
}

// NewFakeScoreService initializes a new FakeScoreService.
func NewFakeScoreService() *FakeScoreService {
	return &FakeScoreService{trace: []string{}}
}

func (f *FakeScoreService) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of service methods called.
func (f *FakeScoreService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeScoreService) ConfigureGroup(ctx context.Context, actor sharedtypes.Actor, guildID sharedtypes.GuildID, update guildtypes.ConfigUpdate) (scoreservice.GroupConfigResult, error) {
	f.record("ConfigureGroup")
	if f.ConfigureGroupFunc != nil {
		return f.ConfigureGroupFunc(ctx, actor, guildID, update)
	}
	return scoreservice.GroupConfigResult{}, nil
}

func (f *FakeScoreService) GivePoint(ctx context.Context, actor sharedtypes.Actor, guildID sharedtypes.GuildID, receiverID sharedtypes.DiscordID, category string, value int64) (scoreservice.PointEventResult, error) {
	f.record("GivePoint")
	if f.GivePointFunc != nil {
		return f.GivePointFunc(ctx, actor, guildID, receiverID, category, value)
	}
	return scoreservice.PointEventResult{}, nil
}

func (f *FakeScoreService) GetScore(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID, category *string) (int64, error) {
	f.record("GetScore")
	if f.GetScoreFunc != nil {
		return f.GetScoreFunc(ctx, guildID, memberID, category)
	}
	return 0, nil
}

func (f *FakeScoreService) GetMemberScore(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.MemberScore, error) {
	f.record("GetMemberScore")
	if f.GetMemberScoreFunc != nil {
		return f.GetMemberScoreFunc(ctx, guildID, memberID)
	}
	return &scoretypes.MemberScore{GuildID: guildID, MemberID: memberID, Categories: map[string]int64{}}, nil
}

func (f *FakeScoreService) ListPointEvents(ctx context.Context, filter scoretypes.PointEventFilter) ([]scoretypes.PointEvent, error) {
	f.record("ListPointEvents")
	if f.ListPointEventsFunc != nil {
		return f.ListPointEventsFunc(ctx, filter)
	}
	return nil, nil
}

func (f *FakeScoreService) AuditMemberScore(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.AuditReport, error) {
	f.record("AuditMemberScore")
	if f.AuditMemberScoreFunc != nil {
		return f.AuditMemberScoreFunc(ctx, guildID, memberID)
	}
	return &scoretypes.AuditReport{}, nil
}

func (f *FakeScoreService) AuditRecentActivity(ctx context.Context, since time.Time) ([]scoretypes.AuditReport, error) {
	f.record("AuditRecentActivity")
	if f.AuditRecentActivityFunc != nil {
		return f.AuditRecentActivityFunc(ctx, since)
	}
	return nil, nil
}

var _ scoreservice.Service = (*FakeScoreService)(nil)
