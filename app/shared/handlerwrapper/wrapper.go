package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Result is one outbound message produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

type messageUUIDKey struct{}

// MessageUUID returns the UUID of the message being handled, or "" outside
// a wrapped handler. Broker redeliveries keep the UUID.
func MessageUUID(ctx context.Context) string {
	id, _ := ctx.Value(messageUUIDKey{}).(string)
	return id
}

// Handler is a typed message handler.
type Handler[T any] func(ctx context.Context, payload *T) ([]Result, error)

// WrapTransformingTyped decodes the inbound JSON payload into T, calls handler,
// and publishes every returned Result on its own topic.
//
// A payload that cannot be decoded is logged and acked. A handler error is
// returned to the router so the message is nacked and redelivered.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	publisher message.Publisher,
	handler Handler[T],
) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx, span := tracer.Start(msg.Context(), handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
		))
		defer span.End()
		ctx = context.WithValue(ctx, messageUUIDKey{}, msg.UUID)

		correlationID := middleware.MessageCorrelationID(msg)

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.WarnContext(ctx, "Dropping undecodable message",
				slog.String("handler", handlerName),
				slog.String("message_id", msg.UUID),
				slog.String("correlation_id", correlationID),
				slog.Any("error", err),
			)
			span.SetStatus(codes.Error, "decode failed")
			return nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Handler failed",
				slog.String("handler", handlerName),
				slog.String("message_id", msg.UUID),
				slog.String("correlation_id", correlationID),
				slog.Any("error", err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		for _, r := range results {
			out, err := newMessage(r, correlationID)
			if err != nil {
				span.RecordError(err)
				return err
			}
			if err := publisher.Publish(r.Topic, out); err != nil {
				span.RecordError(err)
				return fmt.Errorf("publish %s: %w", r.Topic, err)
			}
			logger.DebugContext(ctx, "Published result",
				slog.String("handler", handlerName),
				slog.String("topic", r.Topic),
				slog.String("correlation_id", correlationID),
			)
		}
		return nil
	}
}

func newMessage(r Result, correlationID string) (*message.Message, error) {
	body, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload for %s: %w", r.Topic, err)
	}
	out := message.NewMessage(watermill.NewUUID(), body)
	for k, v := range r.Metadata {
		out.Metadata.Set(k, v)
	}
	out.Metadata.Set("topic", r.Topic)
	if correlationID != "" {
		middleware.SetCorrelationID(correlationID, out)
	}
	return out, nil
}
