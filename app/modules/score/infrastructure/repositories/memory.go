package scoredb

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// MemoryRepository is an in-process Repository. The db argument is ignored;
// RecordPoint is atomic under the repository lock.
type MemoryRepository struct {
	mu     sync.RWMutex
	scores map[scoretypes.MemberKey]*scoretypes.MemberScore
	events []scoretypes.PointEvent
	byID   map[uuid.UUID]int
}

// NewMemoryRepository creates an empty in-memory score store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		scores: make(map[scoretypes.MemberKey]*scoretypes.MemberScore),
		byID:   make(map[uuid.UUID]int),
	}
}

func (r *MemoryRepository) RecordPoint(ctx context.Context, _ bun.IDB, event *scoretypes.PointEvent) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[event.ID]; ok {
		return false, nil
	}

	key := scoretypes.MemberKey{GuildID: event.GuildID, MemberID: event.ReceiverID}
	score := r.scores[key]
	var total, categoryTotal int64
	if score != nil {
		total = score.ReceivedTotal
		categoryTotal = score.Categories[event.Category]
	}
	total, ok := addInt64(total, event.Value)
	if !ok {
		return false, fmt.Errorf("scoredb.RecordPoint: member total: %w", ErrOverflow)
	}
	categoryTotal, ok = addInt64(categoryTotal, event.Value)
	if !ok {
		return false, fmt.Errorf("scoredb.RecordPoint: category total: %w", ErrOverflow)
	}

	if score == nil {
		score = &scoretypes.MemberScore{
			GuildID:    event.GuildID,
			MemberID:   event.ReceiverID,
			Categories: make(map[string]int64),
		}
		r.scores[key] = score
	}
	score.ReceivedTotal = total
	score.Categories[event.Category] = categoryTotal
	r.byID[event.ID] = len(r.events)
	r.events = append(r.events, *event)
	return true, nil
}

// addInt64 reports false when a+b leaves the int64 range, as bigint does.
func addInt64(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

func (r *MemoryRepository) GetPointEvent(_ context.Context, _ bun.IDB, id uuid.UUID) (*scoretypes.PointEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	event := r.events[i]
	return &event, nil
}

func (r *MemoryRepository) GetMemberScore(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (*scoretypes.MemberScore, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	score, ok := r.scores[scoretypes.MemberKey{GuildID: guildID, MemberID: memberID}]
	if !ok {
		return nil, ErrNotFound
	}
	out := &scoretypes.MemberScore{
		GuildID:       score.GuildID,
		MemberID:      score.MemberID,
		ReceivedTotal: score.ReceivedTotal,
		Categories:    make(map[string]int64, len(score.Categories)),
	}
	for k, v := range score.Categories {
		out.Categories[k] = v
	}
	return out, nil
}

func (r *MemoryRepository) GetCategoryScore(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID, category string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	score, ok := r.scores[scoretypes.MemberKey{GuildID: guildID, MemberID: memberID}]
	if !ok {
		return 0, ErrNotFound
	}
	total, ok := score.Categories[category]
	if !ok {
		return 0, ErrNotFound
	}
	return total, nil
}

func (r *MemoryRepository) ListPointEvents(_ context.Context, _ bun.IDB, filter scoretypes.PointEventFilter) ([]scoretypes.PointEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoretypes.PointEvent, 0)
	for _, e := range r.events {
		if e.GuildID != filter.GuildID {
			continue
		}
		if filter.ReceiverID != "" && e.ReceiverID != filter.ReceiverID {
			continue
		}
		if filter.SenderID != "" && e.SenderID != filter.SenderID {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		if !filter.Since.IsZero() && e.CreatedAt.Before(filter.Since) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *MemoryRepository) SumPointEvents(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID, memberID sharedtypes.DiscordID) (int64, map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	byCategory := make(map[string]int64)
	for _, e := range r.events {
		if e.GuildID != guildID || e.ReceiverID != memberID {
			continue
		}
		total += e.Value
		byCategory[e.Category] += e.Value
	}
	return total, byCategory, nil
}

func (r *MemoryRepository) ListActiveReceivers(_ context.Context, _ bun.IDB, since time.Time) ([]scoretypes.MemberKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[scoretypes.MemberKey]struct{})
	out := make([]scoretypes.MemberKey, 0)
	for _, e := range r.events {
		if e.CreatedAt.Before(since) {
			continue
		}
		key := scoretypes.MemberKey{GuildID: e.GuildID, MemberID: e.ReceiverID}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GuildID != out[j].GuildID {
			return out[i].GuildID < out[j].GuildID
		}
		return out[i].MemberID < out[j].MemberID
	})
	return out, nil
}

var _ Repository = (*MemoryRepository)(nil)
