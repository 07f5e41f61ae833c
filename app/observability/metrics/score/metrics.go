package scoremetrics

import (
	"context"
	"time"
)

// ScoreMetrics records scoring service telemetry.
type ScoreMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)
	RecordPointsAwarded(ctx context.Context, category string, value int64)
	RecordAuthorizationDenied(ctx context.Context, operation string)
	RecordAuditRun(ctx context.Context, audited int, drifted int)
}

type noop struct{}

// NewNoop returns a ScoreMetrics that records nothing.
func NewNoop() ScoreMetrics { return noop{} }

func (noop) RecordOperationAttempt(context.Context, string, string)                 {}
func (noop) RecordOperationSuccess(context.Context, string, string)                 {}
func (noop) RecordOperationFailure(context.Context, string, string)                 {}
func (noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (noop) RecordPointsAwarded(context.Context, string, int64)                     {}
func (noop) RecordAuthorizationDenied(context.Context, string)                      {}
func (noop) RecordAuditRun(context.Context, int, int)                               {}
