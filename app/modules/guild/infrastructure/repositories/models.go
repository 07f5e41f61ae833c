package guilddb

import (
	"time"

	guildtypes "github.com/Black-And-White-Club/score-bot/app/types/guild"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/uptrace/bun"
)

// GroupConfig is the persisted role configuration of a guild.
type GroupConfig struct {
	bun.BaseModel `bun:"table:guild_configs,alias:g"`
	GuildID       sharedtypes.GuildID `bun:"guild_id,pk,notnull,type:varchar(64)"`
	AdminRoleID   *string             `bun:"admin_role_id,nullzero,type:varchar(64)"`
	JudgeRoleID   *string             `bun:"judge_role_id,nullzero,type:varchar(64)"`
	CreatedAt     time.Time           `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (m *GroupConfig) toSharedModel() *guildtypes.GroupConfig {
	return &guildtypes.GroupConfig{
		GuildID:     m.GuildID,
		AdminRoleID: toRole(m.AdminRoleID),
		JudgeRoleID: toRole(m.JudgeRoleID),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toRole(s *string) *sharedtypes.RoleID {
	if s == nil || *s == "" {
		return nil
	}
	r := sharedtypes.RoleID(*s)
	return &r
}

// fromRole maps a supplied role onto its column value. The empty role clears
// the column.
func fromRole(r *sharedtypes.RoleID) *string {
	if r == nil || *r == "" {
		return nil
	}
	s := string(*r)
	return &s
}
