package guilddb

import (
	"context"
	"sync"
	"time"

	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/uptrace/bun"
)

// MemoryRepository is an in-process Repository. The db argument is ignored.
type MemoryRepository struct {
	mu      sync.RWMutex
	configs map[sharedtypes.GuildID]guildtypes.GroupConfig
	now     func() time.Time
}

// NewMemoryRepository creates an empty in-memory guild config store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		configs: make(map[sharedtypes.GuildID]guildtypes.GroupConfig),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository) GetConfig(_ context.Context, _ bun.IDB, guildID sharedtypes.GuildID) (*guildtypes.GroupConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[guildID]
	if !ok {
		return nil, ErrNotFound
	}
	return &cfg, nil
}

func (r *MemoryRepository) UpsertConfig(ctx context.Context, _ bun.IDB, guildID sharedtypes.GuildID, update *guildtypes.ConfigUpdate) (*guildtypes.GroupConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cfg, ok := r.configs[guildID]
	if !ok {
		cfg = guildtypes.GroupConfig{GuildID: guildID, CreatedAt: now}
	}
	update.Apply(&cfg)
	cfg.UpdatedAt = now
	r.configs[guildID] = cfg

	out := cfg
	return &out, nil
}

var _ Repository = (*MemoryRepository)(nil)
