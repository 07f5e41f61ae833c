package scorerouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	scoreevents "github.com/Black-And-White-Club/score-bot/app/events/score"
	guildservice "github.com/Black-And-White-Club/score-bot/app/modules/guild/application"
	guilddb "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/repositories"
	scoreservice "github.com/Black-And-White-Club/score-bot/app/modules/score/application"
	scoredb "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/repositories"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func publishJSON(t *testing.T, pub message.Publisher, topic string, payload any) {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, pub.Publish(topic, message.NewMessage(watermill.NewUUID(), body)))
}

func receive(t *testing.T, ctx context.Context, ch <-chan *message.Message, into any) {
	t.Helper()
	select {
	case msg := <-ch:
		require.NoError(t, json.Unmarshal(msg.Payload, into))
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for result")
	}
}

func TestScoreRouter_EndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger := slog.New(slog.DiscardHandler)
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))

	guilds := guilddb.NewMemoryRepository()
	scores := scoredb.NewMemoryRepository()
	resolver := guildservice.NewPermissionResolver(guilds, nil, logger, nil)
	svc := scoreservice.NewScoreService(guilds, scores, resolver, logger, nil, nil, nil, scoreservice.Options{})

	wmRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	r := NewScoreRouter(logger, wmRouter, pubsub, pubsub, noop.NewTracerProvider().Tracer("test"))
	require.NoError(t, r.Configure(ctx, svc))

	updated, err := pubsub.Subscribe(ctx, scoreevents.GuildConfigUpdatedV1+".g1")
	require.NoError(t, err)
	awarded, err := pubsub.Subscribe(ctx, scoreevents.PointAwardedV1+".g1")
	require.NoError(t, err)
	failed, err := pubsub.Subscribe(ctx, scoreevents.PointGiveFailedV1+".g1")
	require.NoError(t, err)
	lookup, err := pubsub.Subscribe(ctx, scoreevents.ScoreLookupResultV1+".g1")
	require.NoError(t, err)

	go func() { _ = wmRouter.Run(ctx) }()
	<-wmRouter.Running()
	defer r.Close()

	publishJSON(t, pubsub, scoreevents.PointGiveRequestedV1, scoreevents.PointGiveRequestedPayloadV1{
		GuildID:     "g1",
		Actor:       scoreevents.ActorPayloadV1{UserID: "u1"},
		ReceiverIDs: []sharedtypes.DiscordID{"u2"},
	})
	var failure scoreevents.FailurePayloadV1
	receive(t, ctx, failed, &failure)
	assert.Equal(t, "unauthorized", failure.Code)

	publishJSON(t, pubsub, scoreevents.GuildConfigUpdateRequestedV1, scoreevents.GuildConfigUpdateRequestedPayloadV1{
		GuildID: "g1",
		Actor:   scoreevents.ActorPayloadV1{UserID: "owner", HasInherentAdmin: true},
	})
	var cfg scoreevents.GuildConfigUpdatedPayloadV1
	receive(t, ctx, updated, &cfg)
	assert.Equal(t, sharedtypes.GuildID("g1"), cfg.Config.GuildID)

	value := int64(3)
	publishJSON(t, pubsub, scoreevents.PointGiveRequestedV1, scoreevents.PointGiveRequestedPayloadV1{
		GuildID:     "g1",
		Actor:       scoreevents.ActorPayloadV1{UserID: "u1"},
		ReceiverIDs: []sharedtypes.DiscordID{"u2"},
		Category:    "helpful",
		Value:       &value,
	})
	var award scoreevents.PointAwardedPayloadV1
	receive(t, ctx, awarded, &award)
	assert.Equal(t, int64(3), award.Value)
	assert.Equal(t, "helpful", award.Category)

	publishJSON(t, pubsub, scoreevents.ScoreLookupRequestedV1, scoreevents.ScoreLookupRequestedPayloadV1{GuildID: "g1", MemberID: "u2"})
	var result scoreevents.ScoreLookupResultPayloadV1
	receive(t, ctx, lookup, &result)
	assert.Equal(t, int64(3), result.Total)
}
