package scorehandlers

import (
	"context"
	"errors"
	"log/slog"

	scoreevents "github.com/Black-And-White-Club/score-bot/app/events/score"
	"github.com/Black-And-White-Club/score-bot/app/shared/handlerwrapper"
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
)

// HandleConfigureGroup handles the GuildConfigUpdateRequested event.
func (h *ScoreHandlers) HandleConfigureGroup(ctx context.Context, payload *scoreevents.GuildConfigUpdateRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	update := guildtypes.ConfigUpdate{
		AdminRoleID: payload.AdminRoleID,
		JudgeRoleID: payload.JudgeRoleID,
	}

	result, err := h.service.ConfigureGroup(ctx, payload.Actor.ToActor(), payload.GuildID, update)
	if err != nil {
		return nil, err
	}

	if result.IsFailure() {
		h.logger.InfoContext(ctx, "Guild config update rejected",
			slog.String("guild_id", string(payload.GuildID)),
			slog.Any("reason", *result.Failure),
		)
		return failure(scoreevents.GuildConfigUpdateFailedV1, payload.GuildID, "", *result.Failure), nil
	}

	return scoped(scoreevents.GuildConfigUpdatedV1, payload.GuildID, &scoreevents.GuildConfigUpdatedPayloadV1{
		GuildID: payload.GuildID,
		Config:  **result.Success,
	}), nil
}
