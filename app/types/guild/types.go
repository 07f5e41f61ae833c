package guildtypes

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
)

// GroupConfig is the role configuration of a guild.
// A nil AdminRoleID means only inherent administrators may configure the guild.
// A nil JudgeRoleID means open judging.
type GroupConfig struct {
	GuildID     sharedtypes.GuildID `json:"guild_id"`
	AdminRoleID *sharedtypes.RoleID `json:"admin_role_id,omitempty"`
	JudgeRoleID *sharedtypes.RoleID `json:"judge_role_id,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ConfigUpdate carries the fields a configure request supplied.
//
// A nil field is left untouched. A pointer to the empty RoleID clears the
// stored role (writes NULL).
type ConfigUpdate struct {
	AdminRoleID *sharedtypes.RoleID `json:"admin_role_id,omitempty"`
	JudgeRoleID *sharedtypes.RoleID `json:"judge_role_id,omitempty"`
}

// IsEmpty reports whether no field was supplied.
func (u *ConfigUpdate) IsEmpty() bool {
	return u == nil || (u.AdminRoleID == nil && u.JudgeRoleID == nil)
}

// Apply merges u into cfg following the partial update policy.
func (u *ConfigUpdate) Apply(cfg *GroupConfig) {
	if u == nil || cfg == nil {
		return
	}
	if u.AdminRoleID != nil {
		cfg.AdminRoleID = normalizeRole(u.AdminRoleID)
	}
	if u.JudgeRoleID != nil {
		cfg.JudgeRoleID = normalizeRole(u.JudgeRoleID)
	}
}

func normalizeRole(r *sharedtypes.RoleID) *sharedtypes.RoleID {
	if r == nil || *r == "" {
		return nil
	}
	v := *r
	return &v
}

// RolePtr is a convenience for building updates.
func RolePtr(r sharedtypes.RoleID) *sharedtypes.RoleID {
	return &r
}
