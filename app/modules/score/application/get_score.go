package scoreservice

import (
	"context"
	"log/slog"

	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
)

// GetScore is a public read with no authorization gate.
func (s *ScoreService) GetScore(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID, category *string) (int64, error) {
	attrs := []slog.Attr{
		slog.String("guild_id", string(guildID)),
		slog.String("member_id", string(memberID)),
	}
	return read(s, ctx, "GetScore", attrs, func(ctx context.Context) (int64, error) {
		if err := validateID("guild id", string(guildID)); err != nil {
			return 0, err
		}
		if err := validateID("member id", string(memberID)); err != nil {
			return 0, err
		}
		if category != nil {
			c, err := normalizeCategory(*category, s.opts.MaxCategoryLength)
			if err != nil {
				return 0, err
			}
			category = &c
		}
		return s.ledger.GetScore(ctx, nil, guildID, memberID, category)
	})
}

// GetMemberScore returns the member's total and per-category totals.
func (s *ScoreService) GetMemberScore(ctx context.Context, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.MemberScore, error) {
	attrs := []slog.Attr{
		slog.String("guild_id", string(guildID)),
		slog.String("member_id", string(memberID)),
	}
	return read(s, ctx, "GetMemberScore", attrs, func(ctx context.Context) (*scoretypes.MemberScore, error) {
		if err := validateID("guild id", string(guildID)); err != nil {
			return nil, err
		}
		if err := validateID("member id", string(memberID)); err != nil {
			return nil, err
		}
		return s.ledger.GetMemberScore(ctx, nil, guildID, memberID)
	})
}

// ListPointEvents returns raw point events. The limit is clamped to the
// configured maximum.
func (s *ScoreService) ListPointEvents(ctx context.Context, filter scoretypes.PointEventFilter) ([]scoretypes.PointEvent, error) {
	attrs := []slog.Attr{
		slog.String("guild_id", string(filter.GuildID)),
		slog.String("receiver_id", string(filter.ReceiverID)),
	}
	return read(s, ctx, "ListPointEvents", attrs, func(ctx context.Context) ([]scoretypes.PointEvent, error) {
		if err := validateID("guild id", string(filter.GuildID)); err != nil {
			return nil, err
		}
		if filter.Limit <= 0 || filter.Limit > s.opts.MaxListLimit {
			filter.Limit = s.opts.MaxListLimit
		}
		events, err := s.scoreRepo.ListPointEvents(ctx, nil, filter)
		if err != nil {
			return nil, storageErr("scoredb.ListPointEvents", err)
		}
		return events, nil
	})
}
