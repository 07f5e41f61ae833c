package scoreservice

import (
	"context"
	"errors"
	"time"

	guilddb "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/repositories"
	scoredb "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/score-bot/app/shared"
	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Ledger records point events and keeps the aggregates in step with them.
// It performs no authorization.
type Ledger struct {
	scores scoredb.Repository
	guilds guilddb.Repository
	now    func() time.Time
	newID  func() uuid.UUID
}

// NewLedger creates a Ledger.
func NewLedger(scores scoredb.Repository, guilds guilddb.Repository) *Ledger {
	return &Ledger{
		scores: scores,
		guilds: guilds,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.New,
	}
}

type pointIDKey struct{}

// WithPointID fixes the ID of the point event recorded under ctx. A second
// award with the same ID is not credited again; the stored event is returned.
func WithPointID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, pointIDKey{}, id)
}

func pointIDFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(pointIDKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// GivePoint appends a point event and applies it to the receiver's totals.
// On error neither the event nor any increment is stored.
func (l *Ledger) GivePoint(
	ctx context.Context,
	db bun.IDB,
	guildID sharedtypes.GuildID,
	senderID, receiverID sharedtypes.DiscordID,
	category string,
	value int64,
) (*scoretypes.PointEvent, error) {
	if _, err := l.guilds.GetConfig(ctx, db, guildID); err != nil {
		if errors.Is(err, guilddb.ErrNotFound) {
			return nil, shared.ErrGroupNotConfigured
		}
		return nil, shared.NewStorageError("guilddb.GetConfig", err)
	}

	id, ok := pointIDFrom(ctx)
	if !ok {
		id = l.newID()
	}
	event := &scoretypes.PointEvent{
		ID:         id,
		GuildID:    guildID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Category:   category,
		Value:      value,
		CreatedAt:  l.now(),
	}
	inserted, err := l.scores.RecordPoint(ctx, db, event)
	if err != nil {
		return nil, shared.NewStorageError("scoredb.RecordPoint", err)
	}
	if !inserted {
		stored, err := l.scores.GetPointEvent(ctx, db, id)
		if err != nil {
			return nil, shared.NewStorageError("scoredb.GetPointEvent", err)
		}
		return stored, nil
	}
	return event, nil
}

// GetScore reads a member total or one category total. A missing record is 0.
func (l *Ledger) GetScore(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID, category *string) (int64, error) {
	if category != nil {
		total, err := l.scores.GetCategoryScore(ctx, db, guildID, memberID, *category)
		if errors.Is(err, scoredb.ErrNotFound) {
			return 0, nil
		}
		if err != nil {
			return 0, shared.NewStorageError("scoredb.GetCategoryScore", err)
		}
		return total, nil
	}

	score, err := l.scores.GetMemberScore(ctx, db, guildID, memberID)
	if errors.Is(err, scoredb.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, shared.NewStorageError("scoredb.GetMemberScore", err)
	}
	return score.ReceivedTotal, nil
}

// GetMemberScore reads the full record, zero-valued when absent.
func (l *Ledger) GetMemberScore(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.MemberScore, error) {
	score, err := l.scores.GetMemberScore(ctx, db, guildID, memberID)
	if errors.Is(err, scoredb.ErrNotFound) {
		return &scoretypes.MemberScore{
			GuildID:    guildID,
			MemberID:   memberID,
			Categories: map[string]int64{},
		}, nil
	}
	if err != nil {
		return nil, shared.NewStorageError("scoredb.GetMemberScore", err)
	}
	return score, nil
}

// Audit re-derives a member's totals from the event log.
func (l *Ledger) Audit(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.AuditReport, error) {
	stored, err := l.GetMemberScore(ctx, db, guildID, memberID)
	if err != nil {
		return nil, err
	}
	total, byCategory, err := l.scores.SumPointEvents(ctx, db, guildID, memberID)
	if err != nil {
		return nil, shared.NewStorageError("scoredb.SumPointEvents", err)
	}
	return scoretypes.NewAuditReport(stored, total, byCategory), nil
}
