package guildservice

import (
	"context"
	"errors"
	"log/slog"

	guilddb "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/score-bot/app/shared"
	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RoleChecker answers whether an actor holds a role.
type RoleChecker interface {
	HoldsRole(actor sharedtypes.Actor, roleID sharedtypes.RoleID) bool
}

// ActorRoleChecker checks the role set the identity provider resolved onto the actor.
type ActorRoleChecker struct{}

func (ActorRoleChecker) HoldsRole(actor sharedtypes.Actor, roleID sharedtypes.RoleID) bool {
	return actor.HoldsRole(roleID)
}

// Resolver decides admin and judge authorization.
type Resolver interface {
	IsAdmin(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, actor sharedtypes.Actor) (bool, error)
	IsJudge(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, actor sharedtypes.Actor) (bool, error)
}

// PermissionResolver implements Resolver over the guild config store.
type PermissionResolver struct {
	repo   guilddb.Repository
	roles  RoleChecker
	logger *slog.Logger
	tracer trace.Tracer
}

// NewPermissionResolver creates a PermissionResolver. A nil RoleChecker uses
// the actor's own role set.
func NewPermissionResolver(
	repo guilddb.Repository,
	roles RoleChecker,
	logger *slog.Logger,
	tracer trace.Tracer,
) *PermissionResolver {
	if roles == nil {
		roles = ActorRoleChecker{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PermissionResolver{
		repo:   repo,
		roles:  roles,
		logger: logger,
		tracer: tracer,
	}
}

// IsAdmin reports whether actor may configure the guild.
//
// Inherent administrators always may. Anyone else needs the configured admin
// role; a guild with no config or no admin role has no role-based admins.
func (r *PermissionResolver) IsAdmin(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, actor sharedtypes.Actor) (bool, error) {
	ctx, span := r.startSpan(ctx, "PermissionResolver.IsAdmin", guildID, actor)
	defer span.End()

	if actor.HasInherentAdmin {
		return true, nil
	}

	cfg, err := r.loadConfig(ctx, db, guildID)
	if err != nil {
		span.RecordError(err)
		return false, err
	}
	return r.adminFromConfig(cfg, actor), nil
}

// IsJudge reports whether actor may award points in the guild.
//
// An unconfigured guild has no judges at all, inherent administrators
// included: the config is read before the admin check so nothing can be
// awarded until someone has run configure. In a configured guild admins are
// judges, a nil judge role opens judging to every member, and a set judge role
// must be held.
func (r *PermissionResolver) IsJudge(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, actor sharedtypes.Actor) (bool, error) {
	ctx, span := r.startSpan(ctx, "PermissionResolver.IsJudge", guildID, actor)
	defer span.End()

	cfg, err := r.loadConfig(ctx, db, guildID)
	if err != nil {
		span.RecordError(err)
		return false, err
	}

	switch {
	case cfg == nil:
		r.logger.DebugContext(ctx, "Judge check on unconfigured guild",
			slog.String("guild_id", string(guildID)),
			slog.String("actor_id", string(actor.ID)),
		)
		return false, nil
	case actor.HasInherentAdmin || r.adminFromConfig(cfg, actor):
		return true, nil
	case cfg.JudgeRoleID == nil:
		return true, nil
	default:
		return r.roles.HoldsRole(actor, *cfg.JudgeRoleID), nil
	}
}

func (r *PermissionResolver) adminFromConfig(cfg *guildtypes.GroupConfig, actor sharedtypes.Actor) bool {
	if cfg == nil || cfg.AdminRoleID == nil {
		return false
	}
	return r.roles.HoldsRole(actor, *cfg.AdminRoleID)
}

// loadConfig returns nil without error when the guild is unconfigured.
func (r *PermissionResolver) loadConfig(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GroupConfig, error) {
	cfg, err := r.repo.GetConfig(ctx, db, guildID)
	if err != nil {
		if errors.Is(err, guilddb.ErrNotFound) {
			return nil, nil
		}
		return nil, shared.NewStorageError("guilddb.GetConfig", err)
	}
	return cfg, nil
}

func (r *PermissionResolver) startSpan(ctx context.Context, name string, guildID sharedtypes.GuildID, actor sharedtypes.Actor) (context.Context, trace.Span) {
	if r.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return r.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("guild_id", string(guildID)),
		attribute.String("actor_id", string(actor.ID)),
		attribute.Bool("inherent_admin", actor.HasInherentAdmin),
	))
}

var _ Resolver = (*PermissionResolver)(nil)
