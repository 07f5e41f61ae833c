package guildhandlers

import (
	"context"

	guildservice "github.com/Black-And-White-Club/score-bot/app/modules/guild/application"
	"github.com/Black-And-White-Club/score-bot/app/shared"
	"github.com/Black-And-White-Club/score-bot/app/shared/results"
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
)

// FakeGuildService provides a programmable stub for guildservice.Service.
type FakeGuildService struct {
	trace []string

	GetGroupConfigFunc func(ctx context.Context, guildID sharedtypes.GuildID) (guildservice.GroupConfigResult, error)
}

func NewFakeGuildService() *FakeGuildService {
	return &FakeGuildService{trace: []string{}}
}

func (f *FakeGuildService) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of service methods called.
func (f *FakeGuildService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeGuildService) GetGroupConfig(ctx context.Context, guildID sharedtypes.GuildID) (guildservice.GroupConfigResult, error) {
	f.record("GetGroupConfig")
	if f.GetGroupConfigFunc != nil {
		return f.GetGroupConfigFunc(ctx, guildID)
	}
	return results.FailureResult[*guildtypes.GroupConfig, error](shared.ErrGroupNotConfigured), nil
}

var _ guildservice.Service = (*FakeGuildService)(nil)
