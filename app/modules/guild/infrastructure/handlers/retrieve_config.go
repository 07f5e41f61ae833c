package guildhandlers

import (
	"context"
	"errors"

	guildevents "github.com/Black-And-White-Club/score-bot/app/events/guild"
	"github.com/Black-And-White-Club/score-bot/app/shared"
	"github.com/Black-And-White-Club/score-bot/app/shared/handlerwrapper"
)

// HandleRetrieveGroupConfig handles the GuildConfigRetrievalRequested event.
func (h *GuildHandlers) HandleRetrieveGroupConfig(ctx context.Context, payload *guildevents.GuildConfigRetrievalRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.GetGroupConfig(ctx, payload.GuildID)
	if err != nil {
		return nil, err
	}

	if result.IsFailure() {
		failure := *result.Failure
		return scoped(guildevents.GuildConfigRetrievalFailedV1, payload.GuildID, &guildevents.GuildConfigRetrievalFailedPayloadV1{
			GuildID:   payload.GuildID,
			Code:      shared.ErrorCode(failure),
			Reason:    failure.Error(),
			ChannelID: payload.ChannelID,
		}), nil
	}

	return scoped(guildevents.GuildConfigRetrievedV1, payload.GuildID, &guildevents.GuildConfigRetrievedPayloadV1{
		GuildID:   payload.GuildID,
		Config:    **result.Success,
		ChannelID: payload.ChannelID,
	}), nil
}
