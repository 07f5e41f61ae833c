package scoreintegrationtests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	scoreevents "github.com/Black-And-White-Club/score-bot/app/events/score"
	scorerouter "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/router"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/Black-And-White-Club/score-bot/pkg/eventbus"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
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

func awaitJSON(t *testing.T, ctx context.Context, ch <-chan *message.Message, into any) {
	t.Helper()
	select {
	case msg := <-ch:
		require.NoError(t, json.Unmarshal(msg.Payload, into))
		msg.Ack()
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestNATS_CommandRoundTrip(t *testing.T) {
	deps := SetupTestScoreService(t)
	ctx, cancel := context.WithTimeout(deps.Ctx, 60*time.Second)
	defer cancel()

	bus, err := deps.NewEventBus("score-bot")
	require.NoError(t, err)
	observer, err := deps.NewEventBus("observer-" + watermill.NewShortUUID())
	require.NoError(t, err)
	defer bus.Close()
	defer observer.Close()

	wmRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(deps.Logger))
	require.NoError(t, err)
	r := scorerouter.NewScoreRouter(deps.Logger, wmRouter, bus, bus, noop.NewTracerProvider().Tracer("test"))
	require.NoError(t, r.Configure(ctx, deps.Service))

	guildID := deps.Gen.GuildID()
	subscribe := func(topic string) <-chan *message.Message {
		ch, err := observer.Subscribe(ctx, eventbus.FormatGuildScopedTopic(topic, string(guildID)))
		require.NoError(t, err)
		return ch
	}
	updated := subscribe(scoreevents.GuildConfigUpdatedV1)
	failed := subscribe(scoreevents.PointGiveFailedV1)
	awarded := subscribe(scoreevents.PointAwardedV1)
	lookup := subscribe(scoreevents.ScoreLookupResultV1)

	go func() { _ = wmRouter.Run(ctx) }()
	<-wmRouter.Running()
	defer r.Close()

	publishJSON(t, bus, scoreevents.PointGiveRequestedV1, scoreevents.PointGiveRequestedPayloadV1{
		GuildID:     guildID,
		Actor:       scoreevents.ActorPayloadV1{UserID: "u1"},
		ReceiverIDs: []sharedtypes.DiscordID{"u2"},
	})
	var failure scoreevents.FailurePayloadV1
	awaitJSON(t, ctx, failed, &failure)
	assert.Equal(t, "unauthorized", failure.Code)

	publishJSON(t, bus, scoreevents.GuildConfigUpdateRequestedV1, scoreevents.GuildConfigUpdateRequestedPayloadV1{
		GuildID: guildID,
		Actor:   scoreevents.ActorPayloadV1{UserID: "owner", HasInherentAdmin: true},
	})
	var cfg scoreevents.GuildConfigUpdatedPayloadV1
	awaitJSON(t, ctx, updated, &cfg)
	assert.Equal(t, guildID, cfg.Config.GuildID)

	publishJSON(t, bus, scoreevents.PointGiveRequestedV1, scoreevents.PointGiveRequestedPayloadV1{
		GuildID:     guildID,
		Actor:       scoreevents.ActorPayloadV1{UserID: "u1"},
		ReceiverIDs: []sharedtypes.DiscordID{"u2"},
	})
	var award scoreevents.PointAwardedPayloadV1
	awaitJSON(t, ctx, awarded, &award)
	assert.Equal(t, "general", award.Category)
	assert.Equal(t, int64(1), award.Value)

	publishJSON(t, bus, scoreevents.ScoreLookupRequestedV1, scoreevents.ScoreLookupRequestedPayloadV1{
		GuildID:  guildID,
		MemberID: "u2",
	})
	var result scoreevents.ScoreLookupResultPayloadV1
	awaitJSON(t, ctx, lookup, &result)
	assert.Equal(t, int64(1), result.Total)

	stored, err := deps.Service.GetScore(ctx, guildID, "u2", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored)
}
