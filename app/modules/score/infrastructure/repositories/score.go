package scoredb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Impl implements Repository on Postgres via bun.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new score repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// RecordPoint runs the three writes in one transaction. Inside an existing
// transaction this becomes a savepoint. The event row goes first so a replayed
// event ID stops before touching the aggregates.
func (r *Impl) RecordPoint(ctx context.Context, db bun.IDB, event *scoretypes.PointEvent) (bool, error) {
	db = r.resolveDB(db)
	inserted := false
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().
			Model(pointEventFromShared(event)).
			On("CONFLICT (id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("insert point event: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert point event: %w", err)
		}
		if n == 0 {
			return nil
		}

		now := event.CreatedAt
		if err := r.incrementMemberScore(ctx, tx, event.GuildID, event.ReceiverID, event.Value, now); err != nil {
			return err
		}
		if err := r.incrementCategoryScore(ctx, tx, event.GuildID, event.ReceiverID, event.Category, event.Value, now); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("scoredb.RecordPoint: %w", err)
	}
	return inserted, nil
}

// GetPointEvent retrieves one event by ID.
func (r *Impl) GetPointEvent(ctx context.Context, db bun.IDB, id uuid.UUID) (*scoretypes.PointEvent, error) {
	db = r.resolveDB(db)
	row := new(PointEvent)
	if err := db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scoredb.GetPointEvent: %w", err)
	}
	event := row.toSharedModel()
	return &event, nil
}

// incrementMemberScore creates the score record or adds delta to it in one
// statement; concurrent first awards converge on a single row.
func (r *Impl) incrementMemberScore(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID, delta int64, now time.Time) error {
	_, err := db.NewInsert().
		Model(&MemberScore{
			GuildID:       guildID,
			MemberID:      memberID,
			ReceivedTotal: delta,
			CreatedAt:     now,
			UpdatedAt:     now,
		}).
		On("CONFLICT (guild_id, member_id) DO UPDATE").
		Set("received_total = ?TableAlias.received_total + EXCLUDED.received_total").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("increment member score: %w", err)
	}
	return nil
}

func (r *Impl) incrementCategoryScore(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID, category string, delta int64, now time.Time) error {
	_, err := db.NewInsert().
		Model(&CategoryScore{
			GuildID:       guildID,
			MemberID:      memberID,
			Category:      category,
			ReceivedTotal: delta,
			CreatedAt:     now,
			UpdatedAt:     now,
		}).
		On("CONFLICT (guild_id, member_id, category) DO UPDATE").
		Set("received_total = ?TableAlias.received_total + EXCLUDED.received_total").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("increment category score: %w", err)
	}
	return nil
}

// GetMemberScore retrieves the member aggregate with its category map.
func (r *Impl) GetMemberScore(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.MemberScore, error) {
	db = r.resolveDB(db)

	member := new(MemberScore)
	err := db.NewSelect().
		Model(member).
		Where("guild_id = ?", guildID).
		Where("member_id = ?", memberID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scoredb.GetMemberScore: %w", err)
	}

	var categories []CategoryScore
	err = db.NewSelect().
		Model(&categories).
		Where("guild_id = ?", guildID).
		Where("member_id = ?", memberID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoredb.GetMemberScore: categories: %w", err)
	}

	out := &scoretypes.MemberScore{
		GuildID:       member.GuildID,
		MemberID:      member.MemberID,
		ReceivedTotal: member.ReceivedTotal,
		Categories:    make(map[string]int64, len(categories)),
	}
	for _, c := range categories {
		out.Categories[c.Category] = c.ReceivedTotal
	}
	return out, nil
}

// GetCategoryScore retrieves one category total.
func (r *Impl) GetCategoryScore(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID, category string) (int64, error) {
	db = r.resolveDB(db)
	var total int64
	err := db.NewSelect().
		Model((*CategoryScore)(nil)).
		Column("received_total").
		Where("guild_id = ?", guildID).
		Where("member_id = ?", memberID).
		Where("category = ?", category).
		Scan(ctx, &total)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("scoredb.GetCategoryScore: %w", err)
	}
	return total, nil
}

// ListPointEvents retrieves events matching filter, newest first.
func (r *Impl) ListPointEvents(ctx context.Context, db bun.IDB, filter scoretypes.PointEventFilter) ([]scoretypes.PointEvent, error) {
	db = r.resolveDB(db)
	var rows []PointEvent
	q := db.NewSelect().
		Model(&rows).
		Where("guild_id = ?", filter.GuildID)
	if filter.ReceiverID != "" {
		q = q.Where("receiver_id = ?", filter.ReceiverID)
	}
	if filter.SenderID != "" {
		q = q.Where("sender_id = ?", filter.SenderID)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if err := q.Order("created_at DESC", "id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("scoredb.ListPointEvents: %w", err)
	}

	out := make([]scoretypes.PointEvent, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toSharedModel())
	}
	return out, nil
}

// SumPointEvents totals a member's events per category.
func (r *Impl) SumPointEvents(ctx context.Context, db bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (int64, map[string]int64, error) {
	db = r.resolveDB(db)
	var rows []struct {
		Category string `bun:"category"`
		Total    int64  `bun:"total"`
	}
	err := db.NewSelect().
		Model((*PointEvent)(nil)).
		Column("category").
		ColumnExpr("COALESCE(SUM(value), 0)::bigint AS total").
		Where("guild_id = ?", guildID).
		Where("receiver_id = ?", memberID).
		Group("category").
		Scan(ctx, &rows)
	if err != nil {
		return 0, nil, fmt.Errorf("scoredb.SumPointEvents: %w", err)
	}

	var total int64
	byCategory := make(map[string]int64, len(rows))
	for _, row := range rows {
		byCategory[row.Category] = row.Total
		total += row.Total
	}
	return total, byCategory, nil
}

// ListActiveReceivers retrieves the distinct receivers of events since a time.
func (r *Impl) ListActiveReceivers(ctx context.Context, db bun.IDB, since time.Time) ([]scoretypes.MemberKey, error) {
	db = r.resolveDB(db)
	var rows []struct {
		GuildID    sharedtypes.GuildID   `bun:"guild_id"`
		ReceiverID sharedtypes.DiscordID `bun:"receiver_id"`
	}
	err := db.NewSelect().
		Model((*PointEvent)(nil)).
		Distinct().
		Column("guild_id", "receiver_id").
		Where("created_at >= ?", since).
		Order("guild_id", "receiver_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("scoredb.ListActiveReceivers: %w", err)
	}

	out := make([]scoretypes.MemberKey, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoretypes.MemberKey{GuildID: row.GuildID, MemberID: row.ReceiverID})
	}
	return out, nil
}
