package scoreservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	guildservice "github.com/Black-And-White-Club/score-bot/app/modules/guild/application"
	guilddb "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/repositories"
	scoredb "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/repositories"
	scoremetrics "github.com/Black-And-White-Club/score-bot/app/observability/metrics/score"
	"github.com/Black-And-White-Club/score-bot/app/shared"
	"github.com/Black-And-White-Club/score-bot/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "ScoreService"

// Options tunes the service. Zero fields take defaults.
type Options struct {
	StoreTimeout      time.Duration
	MaxCategoryLength int
	MaxListLimit      int
}

func (o Options) withDefaults() Options {
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = 5 * time.Second
	}
	if o.MaxCategoryLength <= 0 {
		o.MaxCategoryLength = 64
	}
	if o.MaxListLimit <= 0 {
		o.MaxListLimit = 500
	}
	return o
}

// ScoreService implements the Service interface.
type ScoreService struct {
	guildRepo guilddb.Repository
	resolver  guildservice.Resolver
	ledger    *Ledger
	scoreRepo scoredb.Repository
	logger    *slog.Logger
	metrics   scoremetrics.ScoreMetrics
	tracer    trace.Tracer
	db        *bun.DB
	opts      Options
}

// NewScoreService creates a new ScoreService. A nil db runs operations
// without a transaction, which the in-memory repositories expect.
func NewScoreService(
	guildRepo guilddb.Repository,
	scoreRepo scoredb.Repository,
	resolver guildservice.Resolver,
	logger *slog.Logger,
	metrics scoremetrics.ScoreMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts Options,
) *ScoreService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = scoremetrics.NewNoop()
	}
	return &ScoreService{
		guildRepo: guildRepo,
		resolver:  resolver,
		ledger:    NewLedger(scoreRepo, guildRepo),
		scoreRepo: scoreRepo,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
		opts:      opts.withDefaults(),
	}
}

var _ Service = (*ScoreService)(nil)

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps an operation with a bounded store timeout, tracing,
// metrics and panic recovery.
func withTelemetry[S any, F any](
	s *ScoreService,
	ctx context.Context,
	operationName string,
	attrs []slog.Attr,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	var span trace.Span
	if s.tracer != nil {
		spanAttrs := []attribute.KeyValue{attribute.String("operation", operationName)}
		for _, a := range attrs {
			spanAttrs = append(spanAttrs, attribute.String(a.Key, a.Value.String()))
		}
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(spanAttrs...))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, serviceName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, serviceName, time.Since(startTime))
	}()

	logAttrs := append([]slog.Attr{slog.String("operation", operationName)}, attrs...)
	s.logger.LogAttrs(ctx, slog.LevelDebug, "Operation triggered", logAttrs...)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.LogAttrs(ctx, slog.LevelError, "Critical panic recovered", append(logAttrs, slog.Any("error", err))...)
			s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		if !shared.IsStorageError(err) && ctx.Err() != nil {
			err = shared.NewStorageError(operationName, err)
		}
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.LogAttrs(ctx, slog.LevelError, "Operation failed with error", append(logAttrs, slog.Any("error", wrappedErr))...)
		s.metrics.RecordOperationFailure(ctx, operationName, serviceName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "Operation returned failure result",
			append(logAttrs, slog.Any("failure_payload", *result.Failure))...)
	} else {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "Operation completed successfully", logAttrs...)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, serviceName)
	return result, nil
}

// runInTx runs fn in a transaction, or directly when the service has no db.
func runInTx[S any, F any](
	s *ScoreService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	if err != nil && !shared.IsStorageError(err) {
		err = shared.NewStorageError("tx", err)
	}
	return result, err
}

// read adapts a plain read into the telemetry helpers.
func read[T any](s *ScoreService, ctx context.Context, operationName string, attrs []slog.Attr, fn func(ctx context.Context) (T, error)) (T, error) {
	result, err := withTelemetry(s, ctx, operationName, attrs, func(ctx context.Context) (results.OperationResult[T, error], error) {
		v, err := fn(ctx)
		if errors.Is(err, shared.ErrInvalidArgument) {
			return results.FailureResult[T, error](err), nil
		}
		if err != nil {
			return results.OperationResult[T, error]{}, err
		}
		return results.SuccessResult[T, error](v), nil
	})
	var zero T
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	return *result.Success, nil
}
