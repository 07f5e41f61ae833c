package scorehandlers

import (
	"context"
	"errors"

	scoreevents "github.com/Black-And-White-Club/score-bot/app/events/score"
	"github.com/Black-And-White-Club/score-bot/app/shared"
	"github.com/Black-And-White-Club/score-bot/app/shared/handlerwrapper"
)

// HandleScoreLookup handles the ScoreLookupRequested event.
func (h *ScoreHandlers) HandleScoreLookup(ctx context.Context, payload *scoreevents.ScoreLookupRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	total, err := h.service.GetScore(ctx, payload.GuildID, payload.MemberID, payload.Category)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidArgument) {
			return failure(scoreevents.ScoreLookupFailedV1, payload.GuildID, payload.ChannelID, err), nil
		}
		return nil, err
	}

	return scoped(scoreevents.ScoreLookupResultV1, payload.GuildID, &scoreevents.ScoreLookupResultPayloadV1{
		GuildID:   payload.GuildID,
		MemberID:  payload.MemberID,
		Category:  payload.Category,
		Total:     total,
		ChannelID: payload.ChannelID,
	}), nil
}
