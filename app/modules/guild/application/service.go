package guildservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	guilddb "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/score-bot/app/shared"
	"github.com/Black-And-White-Club/score-bot/app/shared/results"
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GroupConfigResult carries the stored config or ErrGroupNotConfigured.
type GroupConfigResult = results.OperationResult[*guildtypes.GroupConfig, error]

// Service is the read surface over group configuration. Writes go through
// the scoring service, which owns the admin check.
type Service interface {
	GetGroupConfig(ctx context.Context, guildID sharedtypes.GuildID) (GroupConfigResult, error)
}

// GuildService implements Service.
type GuildService struct {
	repo    guilddb.Repository
	logger  *slog.Logger
	tracer  trace.Tracer
	timeout time.Duration
}

// NewGuildService creates a GuildService. A non-positive timeout means 5s.
func NewGuildService(repo guilddb.Repository, logger *slog.Logger, tracer trace.Tracer, timeout time.Duration) *GuildService {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &GuildService{repo: repo, logger: logger, tracer: tracer, timeout: timeout}
}

var _ Service = (*GuildService)(nil)

// GetGroupConfig returns the guild's stored roles.
func (s *GuildService) GetGroupConfig(ctx context.Context, guildID sharedtypes.GuildID) (GroupConfigResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	span := trace.SpanFromContext(ctx)
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, "GuildService.GetGroupConfig",
			trace.WithAttributes(attribute.String("guild_id", string(guildID))))
	}
	defer span.End()

	if strings.TrimSpace(string(guildID)) == "" {
		return results.FailureResult[*guildtypes.GroupConfig, error](
			shared.InvalidArgumentf("guild id must not be empty")), nil
	}

	cfg, err := s.repo.GetConfig(ctx, nil, guildID)
	if errors.Is(err, guilddb.ErrNotFound) {
		return results.FailureResult[*guildtypes.GroupConfig, error](shared.ErrGroupNotConfigured), nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "Failed to load group config",
			slog.String("guild_id", string(guildID)),
			slog.Any("error", err),
		)
		return GroupConfigResult{}, shared.NewStorageError("guilddb.GetConfig", err)
	}
	return results.SuccessResult[*guildtypes.GroupConfig, error](cfg), nil
}
