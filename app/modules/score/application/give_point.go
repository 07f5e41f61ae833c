package scoreservice

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Black-And-White-Club/score-bot/app/shared"
	"github.com/Black-And-White-Club/score-bot/app/shared/results"
	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/uptrace/bun"
)

// GivePoint records an award after checking the actor is a judge in the guild.
func (s *ScoreService) GivePoint(
	ctx context.Context,
	actor sharedtypes.Actor,
	guildID sharedtypes.GuildID,
	receiverID sharedtypes.DiscordID,
	category string,
	value int64,
) (PointEventResult, error) {
	attrs := []slog.Attr{
		slog.String("guild_id", string(guildID)),
		slog.String("actor_id", string(actor.ID)),
		slog.String("receiver_id", string(receiverID)),
		slog.String("category", category),
		slog.Int64("value", value),
	}
	result, err := withTelemetry(s, ctx, "GivePoint", attrs, func(ctx context.Context) (PointEventResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (PointEventResult, error) {
			return s.givePointLogic(ctx, db, actor, guildID, receiverID, category, value)
		})
	})
	if err == nil && result.IsSuccess() {
		event := *result.Success
		s.metrics.RecordPointsAwarded(ctx, event.Category, event.Value)
	}
	return result, err
}

func (s *ScoreService) givePointLogic(
	ctx context.Context,
	db bun.IDB,
	actor sharedtypes.Actor,
	guildID sharedtypes.GuildID,
	receiverID sharedtypes.DiscordID,
	category string,
	value int64,
) (PointEventResult, error) {
	for _, f := range [][2]string{
		{"guild id", string(guildID)},
		{"actor id", string(actor.ID)},
		{"receiver id", string(receiverID)},
	} {
		if err := validateID(f[0], f[1]); err != nil {
			return results.FailureResult[*scoretypes.PointEvent, error](err), nil
		}
	}
	category, err := normalizeCategory(category, s.opts.MaxCategoryLength)
	if err != nil {
		return results.FailureResult[*scoretypes.PointEvent, error](err), nil
	}

	ok, err := s.resolver.IsJudge(ctx, db, guildID, actor)
	if err != nil {
		return PointEventResult{}, err
	}
	if !ok {
		s.metrics.RecordAuthorizationDenied(ctx, "GivePoint")
		return results.FailureResult[*scoretypes.PointEvent, error](shared.ErrUnauthorized), nil
	}

	event, err := s.ledger.GivePoint(ctx, db, guildID, actor.ID, receiverID, category, value)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidArgument) {
			return results.FailureResult[*scoretypes.PointEvent, error](err), nil
		}
		return PointEventResult{}, err
	}
	return results.SuccessResult[*scoretypes.PointEvent, error](event), nil
}
