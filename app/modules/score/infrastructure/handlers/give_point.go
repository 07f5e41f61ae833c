package scorehandlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	scoreevents "github.com/Black-And-White-Club/score-bot/app/events/score"
	scoreservice "github.com/Black-And-White-Club/score-bot/app/modules/score/application"
	"github.com/Black-And-White-Club/score-bot/app/shared/handlerwrapper"
	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/google/uuid"
)

// pointIDSpace namespaces point IDs derived from command keys.
var pointIDSpace = uuid.MustParse("0b6c5f0e-4a51-4d8e-9d43-6c2f1e7a9b35")

func awardKey(ctx context.Context, payload *scoreevents.PointGiveRequestedPayloadV1) string {
	if payload.RequestID != "" {
		return payload.RequestID
	}
	return handlerwrapper.MessageUUID(ctx)
}

// pointID maps a command key to a stable point ID within the guild.
func pointID(guildID sharedtypes.GuildID, key string) uuid.UUID {
	return uuid.NewSHA1(pointIDSpace, []byte(string(guildID)+"/"+key))
}

// HandleGivePoint handles the PointGiveRequested event. Redelivery of the
// same command resolves to the same point ID and is credited once.
func (h *ScoreHandlers) HandleGivePoint(ctx context.Context, payload *scoreevents.PointGiveRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	receiverID, err := scoreservice.ResolveSingleReceiver(payload.ReceiverIDs)
	if err != nil {
		return failure(scoreevents.PointGiveFailedV1, payload.GuildID, payload.ChannelID, err), nil
	}

	category := payload.Category
	if strings.TrimSpace(category) == "" {
		category = scoretypes.DefaultCategory
	}
	value := int64(scoretypes.DefaultValue)
	if payload.Value != nil {
		value = *payload.Value
	}

	if key := awardKey(ctx, payload); key != "" {
		ctx = scoreservice.WithPointID(ctx, pointID(payload.GuildID, key))
	}

	result, err := h.service.GivePoint(ctx, payload.Actor.ToActor(), payload.GuildID, receiverID, category, value)
	if err != nil {
		return nil, err
	}

	if result.IsFailure() {
		h.logger.InfoContext(ctx, "Point award rejected",
			slog.String("guild_id", string(payload.GuildID)),
			slog.String("sender_id", string(payload.Actor.UserID)),
			slog.Any("reason", *result.Failure),
		)
		return failure(scoreevents.PointGiveFailedV1, payload.GuildID, payload.ChannelID, *result.Failure), nil
	}

	event := *result.Success
	return scoped(scoreevents.PointAwardedV1, payload.GuildID, &scoreevents.PointAwardedPayloadV1{
		GuildID:    event.GuildID,
		EventID:    event.ID.String(),
		SenderID:   event.SenderID,
		ReceiverID: event.ReceiverID,
		Category:   event.Category,
		Value:      event.Value,
		CreatedAt:  event.CreatedAt,
		ChannelID:  payload.ChannelID,
	}), nil
}
