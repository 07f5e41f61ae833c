package scoreservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Black-And-White-Club/score-bot/app/shared"
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func TestLedger_GivePoint(t *testing.T) {
	fixedID := uuid.MustParse("6f1c8b1e-3f53-4a4c-9a3e-0b7c5d2e9f10")
	fixedNow := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	t.Run("builds the event and records it", func(t *testing.T) {
		guilds := NewFakeGuildRepo()
		guilds.GetConfigFunc = configuredGuild
		scores := NewFakeScoreRepo()
		var recorded *scoretypes.PointEvent
		scores.RecordPointFunc = func(_ context.Context, _ bun.IDB, e *scoretypes.PointEvent) (bool, error) {
			recorded = e
			return true, nil
		}

		ledger := NewLedger(scores, guilds)
		ledger.now = func() time.Time { return fixedNow }
		ledger.newID = func() uuid.UUID { return fixedID }

		event, err := ledger.GivePoint(context.Background(), nil, "g1", "u1", "u2", "helpful", 3)
		require.NoError(t, err)
		assert.Equal(t, &scoretypes.PointEvent{
			ID:         fixedID,
			GuildID:    "g1",
			SenderID:   "u1",
			ReceiverID: "u2",
			Category:   "helpful",
			Value:      3,
			CreatedAt:  fixedNow,
		}, event)
		assert.Same(t, event, recorded)
		assert.Equal(t, []string{"GetConfig"}, guilds.Trace())
	})

	t.Run("point id from context", func(t *testing.T) {
		guilds := NewFakeGuildRepo()
		guilds.GetConfigFunc = configuredGuild
		ledger := NewLedger(NewFakeScoreRepo(), guilds)
		ledger.newID = func() uuid.UUID { return fixedID }

		pinned := uuid.MustParse("1d3e7c1a-5b8f-4f0e-8a61-2c9b4d7e0f23")
		event, err := ledger.GivePoint(WithPointID(context.Background(), pinned), nil, "g1", "u1", "u2", "helpful", 3)
		require.NoError(t, err)
		assert.Equal(t, pinned, event.ID)
	})

	t.Run("replayed point id is not credited again", func(t *testing.T) {
		guilds := NewFakeGuildRepo()
		guilds.GetConfigFunc = configuredGuild
		original := &scoretypes.PointEvent{
			ID: fixedID, GuildID: "g1", SenderID: "u1", ReceiverID: "u2",
			Category: "helpful", Value: 3, CreatedAt: fixedNow.Add(-time.Minute),
		}
		scores := NewFakeScoreRepo()
		scores.RecordPointFunc = func(context.Context, bun.IDB, *scoretypes.PointEvent) (bool, error) {
			return false, nil
		}
		scores.GetPointEventFunc = func(_ context.Context, _ bun.IDB, id uuid.UUID) (*scoretypes.PointEvent, error) {
			require.Equal(t, fixedID, id)
			return original, nil
		}
		ledger := NewLedger(scores, guilds)
		ledger.now = func() time.Time { return fixedNow }

		event, err := ledger.GivePoint(WithPointID(context.Background(), fixedID), nil, "g1", "u1", "u2", "helpful", 3)
		require.NoError(t, err)
		assert.Same(t, original, event)
		assert.Equal(t, []string{"RecordPoint", "GetPointEvent"}, scores.Trace())
	})

	t.Run("record failure stores nothing and reports storage error", func(t *testing.T) {
		guilds := NewFakeGuildRepo()
		guilds.GetConfigFunc = configuredGuild
		scores := NewFakeScoreRepo()
		scores.RecordPointFunc = func(context.Context, bun.IDB, *scoretypes.PointEvent) (bool, error) {
			return false, errors.New("bigint out of range")
		}

		event, err := NewLedger(scores, guilds).GivePoint(context.Background(), nil, "g1", "u1", "u2", "helpful", 3)
		assert.Nil(t, event)
		assert.True(t, shared.IsStorageError(err))
		assert.Equal(t, []string{"RecordPoint"}, scores.Trace())
	})

	t.Run("unconfigured guild", func(t *testing.T) {
		scores := NewFakeScoreRepo()
		ledger := NewLedger(scores, NewFakeGuildRepo())

		_, err := ledger.GivePoint(context.Background(), nil, "g1", "u1", "u2", "helpful", 1)
		assert.ErrorIs(t, err, shared.ErrGroupNotConfigured)
		assert.ErrorIs(t, err, shared.ErrInvalidArgument)
		assert.Empty(t, scores.Trace())
	})

	t.Run("config lookup failure", func(t *testing.T) {
		guilds := NewFakeGuildRepo()
		guilds.GetConfigFunc = func(context.Context, bun.IDB, sharedtypes.GuildID) (*guildtypes.GroupConfig, error) {
			return nil, errors.New("i/o timeout")
		}
		ledger := NewLedger(NewFakeScoreRepo(), guilds)

		_, err := ledger.GivePoint(context.Background(), nil, "g1", "u1", "u2", "helpful", 1)
		assert.True(t, shared.IsStorageError(err))
	})
}

func TestLedger_Audit(t *testing.T) {
	scores := NewFakeScoreRepo()
	scores.GetMemberScoreFunc = func(context.Context, bun.IDB, sharedtypes.GuildID, sharedtypes.DiscordID) (*scoretypes.MemberScore, error) {
		return &scoretypes.MemberScore{GuildID: "g1", MemberID: "u2", ReceivedTotal: 5, Categories: map[string]int64{"helpful": 5}}, nil
	}
	scores.SumPointEventsFunc = func(context.Context, bun.IDB, sharedtypes.GuildID, sharedtypes.DiscordID) (int64, map[string]int64, error) {
		return 4, map[string]int64{"helpful": 4}, nil
	}

	report, err := NewLedger(scores, NewFakeGuildRepo()).Audit(context.Background(), nil, "g1", "u2")
	require.NoError(t, err)
	assert.True(t, report.Drift)
	assert.Equal(t, int64(5), report.StoredTotal)
	assert.Equal(t, int64(4), report.DerivedTotal)
}
