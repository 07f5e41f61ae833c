package scoreservice

import (
	"context"
	"log/slog"

	"github.com/Black-And-White-Club/score-bot/app/shared"
	"github.com/Black-And-White-Club/score-bot/app/shared/results"
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/uptrace/bun"
)

// ConfigureGroup writes the supplied role fields for the guild.
//
// Only admins may configure. Before any config exists that means inherent
// administrators only, so the first configuration bootstraps the guild.
func (s *ScoreService) ConfigureGroup(ctx context.Context, actor sharedtypes.Actor, guildID sharedtypes.GuildID, update guildtypes.ConfigUpdate) (GroupConfigResult, error) {
	attrs := []slog.Attr{
		slog.String("guild_id", string(guildID)),
		slog.String("actor_id", string(actor.ID)),
	}
	return withTelemetry(s, ctx, "ConfigureGroup", attrs, func(ctx context.Context) (GroupConfigResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (GroupConfigResult, error) {
			return s.configureGroupLogic(ctx, db, actor, guildID, update)
		})
	})
}

func (s *ScoreService) configureGroupLogic(ctx context.Context, db bun.IDB, actor sharedtypes.Actor, guildID sharedtypes.GuildID, update guildtypes.ConfigUpdate) (GroupConfigResult, error) {
	if err := validateID("guild id", string(guildID)); err != nil {
		return results.FailureResult[*guildtypes.GroupConfig, error](err), nil
	}
	if err := validateID("actor id", string(actor.ID)); err != nil {
		return results.FailureResult[*guildtypes.GroupConfig, error](err), nil
	}
	if err := validateUpdate(update); err != nil {
		return results.FailureResult[*guildtypes.GroupConfig, error](err), nil
	}

	ok, err := s.resolver.IsAdmin(ctx, db, guildID, actor)
	if err != nil {
		return GroupConfigResult{}, err
	}
	if !ok {
		s.metrics.RecordAuthorizationDenied(ctx, "ConfigureGroup")
		return results.FailureResult[*guildtypes.GroupConfig, error](shared.ErrUnauthorized), nil
	}

	cfg, err := s.guildRepo.UpsertConfig(ctx, db, guildID, &update)
	if err != nil {
		return GroupConfigResult{}, shared.NewStorageError("guilddb.UpsertConfig", err)
	}
	return results.SuccessResult[*guildtypes.GroupConfig, error](cfg), nil
}
