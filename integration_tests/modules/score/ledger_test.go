package scoreintegrationtests

import (
	"context"
	"testing"
	"time"

	"github.com/Black-And-White-Club/score-bot/app/shared"
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/Black-And-White-Club/score-bot/db/bundb"
	"github.com/Black-And-White-Club/score-bot/integration_tests/testutils"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func configureOpen(t *testing.T, deps ScoreTestDeps, guildID sharedtypes.GuildID) {
	t.Helper()
	result, err := deps.Service.ConfigureGroup(deps.Ctx, owner("owner"), guildID, guildtypes.ConfigUpdate{})
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
}

func TestPostgres_ConcurrentFirstAwards(t *testing.T) {
	deps := SetupTestScoreService(t)
	guildID := deps.Gen.GuildID()
	receiver := deps.Gen.MemberID()
	configureOpen(t, deps, guildID)

	const awards = 64
	g, ctx := errgroup.WithContext(deps.Ctx)
	for i := 0; i < awards; i++ {
		sender := deps.Gen.MemberID()
		g.Go(func() error {
			result, err := deps.Service.GivePoint(ctx, member(sender), guildID, receiver, "helpful", 1)
			if err != nil {
				return err
			}
			if result.IsFailure() {
				return *result.Failure
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	score, err := deps.Service.GetMemberScore(deps.Ctx, guildID, receiver)
	require.NoError(t, err)
	assert.Equal(t, int64(awards), score.ReceivedTotal)
	assert.Equal(t, map[string]int64{"helpful": awards}, score.Categories)

	rows, err := testutils.CountRows(deps.Ctx, deps.DB, "member_scores")
	require.NoError(t, err)
	assert.Equal(t, 1, rows, "concurrent first awards converge on one record")

	events, err := testutils.CountRows(deps.Ctx, deps.DB, "point_events")
	require.NoError(t, err)
	assert.Equal(t, awards, events)
}

func TestPostgres_AggregateMatchesEventLog(t *testing.T) {
	deps := SetupTestScoreService(t)
	guildID := deps.Gen.GuildID()
	configureOpen(t, deps, guildID)

	members := deps.Gen.Members(5)
	want := make(map[sharedtypes.DiscordID]map[string]int64, len(members))
	for i := 0; i < 150; i++ {
		receiver := deps.Gen.Pick(members)
		category := deps.Gen.Category()
		value := deps.Gen.Value()

		result, err := deps.Service.GivePoint(deps.Ctx, member(deps.Gen.Pick(members)), guildID, receiver, category, value)
		require.NoError(t, err)
		require.True(t, result.IsSuccess())

		if want[receiver] == nil {
			want[receiver] = map[string]int64{}
		}
		want[receiver][category] += value
	}

	for receiver, categories := range want {
		score, err := deps.Service.GetMemberScore(deps.Ctx, guildID, receiver)
		require.NoError(t, err)
		if diff := cmp.Diff(categories, score.Categories); diff != "" {
			t.Errorf("categories for %s mismatch (-want +got):\n%s", receiver, diff)
		}
		assert.Equal(t, score.CategorySum(), score.ReceivedTotal)
	}

	reports, err := deps.Service.AuditRecentActivity(deps.Ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Len(t, reports, len(want))
	for _, r := range reports {
		assert.False(t, r.Drift, "member %s drifted", r.MemberID)
	}
}

func TestPostgres_AuditDetectsDrift(t *testing.T) {
	deps := SetupTestScoreService(t)
	guildID := deps.Gen.GuildID()
	receiver := deps.Gen.MemberID()
	configureOpen(t, deps, guildID)

	_, err := deps.Service.GivePoint(deps.Ctx, member("u1"), guildID, receiver, "general", 4)
	require.NoError(t, err)

	_, err = deps.DB.NewUpdate().
		TableExpr("member_scores").
		Set("received_total = received_total + 10").
		Where("guild_id = ? AND member_id = ?", guildID, receiver).
		Exec(deps.Ctx)
	require.NoError(t, err)

	report, err := deps.Service.AuditMemberScore(deps.Ctx, guildID, receiver)
	require.NoError(t, err)
	assert.True(t, report.Drift)
	assert.Equal(t, int64(14), report.StoredTotal)
	assert.Equal(t, int64(4), report.DerivedTotal)
}

func TestPostgres_RestrictedJudging(t *testing.T) {
	deps := SetupTestScoreService(t)
	guildID := deps.Gen.GuildID()
	adminRole := deps.Gen.RoleID()
	judgeRole := deps.Gen.RoleID()

	result, err := deps.Service.ConfigureGroup(deps.Ctx, owner("owner"), guildID, guildtypes.ConfigUpdate{
		AdminRoleID: rolePtr(adminRole),
		JudgeRoleID: rolePtr(judgeRole),
	})
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	tests := []struct {
		name    string
		actor   sharedtypes.Actor
		allowed bool
	}{
		{name: "judge role", actor: member("j1", judgeRole), allowed: true},
		{name: "configured admin", actor: member("a1", adminRole), allowed: true},
		{name: "inherent admin", actor: owner("o1"), allowed: true},
		{name: "no role", actor: member("m1"), allowed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := deps.Service.GivePoint(deps.Ctx, tt.actor, guildID, "target", "general", 1)
			require.NoError(t, err)
			if tt.allowed {
				assert.True(t, result.IsSuccess())
				return
			}
			require.True(t, result.IsFailure())
			assert.ErrorIs(t, *result.Failure, shared.ErrUnauthorized)
		})
	}

	total, err := deps.Service.GetScore(deps.Ctx, guildID, "target", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestPostgres_ConfigurePartialUpdate(t *testing.T) {
	deps := SetupTestScoreService(t)
	guildID := deps.Gen.GuildID()
	adminRole := deps.Gen.RoleID()
	judgeRole := deps.Gen.RoleID()

	_, err := deps.Service.ConfigureGroup(deps.Ctx, owner("owner"), guildID, guildtypes.ConfigUpdate{
		AdminRoleID: rolePtr(adminRole),
		JudgeRoleID: rolePtr(judgeRole),
	})
	require.NoError(t, err)

	newJudge := deps.Gen.RoleID()
	result, err := deps.Service.ConfigureGroup(deps.Ctx, member("a1", adminRole), guildID, guildtypes.ConfigUpdate{
		JudgeRoleID: rolePtr(newJudge),
	})
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	stored, err := deps.GuildRepo.GetConfig(deps.Ctx, nil, guildID)
	require.NoError(t, err)
	require.NotNil(t, stored.AdminRoleID)
	require.NotNil(t, stored.JudgeRoleID)
	assert.Equal(t, adminRole, *stored.AdminRoleID, "admin role untouched")
	assert.Equal(t, newJudge, *stored.JudgeRoleID)

	result, err = deps.Service.ConfigureGroup(deps.Ctx, member("a1", adminRole), guildID, guildtypes.ConfigUpdate{
		JudgeRoleID: rolePtr(""),
	})
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	assert.Nil(t, (*result.Success).JudgeRoleID, "empty role clears the judge restriction")
}

func TestPostgres_GetScoreZeroState(t *testing.T) {
	deps := SetupTestScoreService(t)
	category := "helpful"

	total, err := deps.Service.GetScore(deps.Ctx, "nowhere", "nobody", nil)
	require.NoError(t, err)
	assert.Zero(t, total)

	total, err = deps.Service.GetScore(deps.Ctx, "nowhere", "nobody", &category)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestPostgres_ListPointEvents(t *testing.T) {
	deps := SetupTestScoreService(t)
	guildID := deps.Gen.GuildID()
	configureOpen(t, deps, guildID)

	give := func(sender, receiver sharedtypes.DiscordID, category string) {
		result, err := deps.Service.GivePoint(deps.Ctx, member(sender), guildID, receiver, category, 1)
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
	}
	give("s1", "r1", "general")
	give("s2", "r1", "helpful")
	give("s1", "r2", "helpful")

	tests := []struct {
		name   string
		filter scoretypes.PointEventFilter
		want   int
	}{
		{name: "guild", filter: scoretypes.PointEventFilter{GuildID: guildID}, want: 3},
		{name: "receiver", filter: scoretypes.PointEventFilter{GuildID: guildID, ReceiverID: "r1"}, want: 2},
		{name: "sender", filter: scoretypes.PointEventFilter{GuildID: guildID, SenderID: "s1"}, want: 2},
		{name: "category", filter: scoretypes.PointEventFilter{GuildID: guildID, Category: "helpful"}, want: 2},
		{name: "limit", filter: scoretypes.PointEventFilter{GuildID: guildID, Limit: 1}, want: 1},
		{name: "future", filter: scoretypes.PointEventFilter{GuildID: guildID, Since: time.Now().Add(time.Hour)}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := deps.Service.ListPointEvents(deps.Ctx, tt.filter)
			require.NoError(t, err)
			assert.Len(t, events, tt.want)
			for i := 1; i < len(events); i++ {
				assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt), "newest first")
			}
		})
	}
}

func TestPostgres_MigrationsApplied(t *testing.T) {
	deps := SetupTestScoreService(t)
	ctx, cancel := context.WithTimeout(deps.Ctx, 10*time.Second)
	defer cancel()

	for _, m := range bundb.Migrators(deps.DB) {
		ms, err := m.MigrationsWithStatus(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, ms.Applied(), "module %s", m.Name)
		assert.Empty(t, ms.Unapplied(), "module %s", m.Name)
	}
}
