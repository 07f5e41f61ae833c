package scoretypes

import (
	"time"

	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/google/uuid"
)

// DefaultCategory is used by command surfaces when a request names no category.
const DefaultCategory = "general"

// DefaultValue is used by command surfaces when a request names no value.
const DefaultValue int64 = 1

// PointEvent is one immutable award.
type PointEvent struct {
	ID         uuid.UUID             `json:"id"`
	GuildID    sharedtypes.GuildID   `json:"guild_id"`
	SenderID   sharedtypes.DiscordID `json:"sender_id"`
	ReceiverID sharedtypes.DiscordID `json:"receiver_id"`
	Category   string                `json:"category"`
	Value      int64                 `json:"value"`
	CreatedAt  time.Time             `json:"created_at"`
}

// MemberScore is the aggregate a member received in one guild.
type MemberScore struct {
	GuildID       sharedtypes.GuildID   `json:"guild_id"`
	MemberID      sharedtypes.DiscordID `json:"member_id"`
	ReceivedTotal int64                 `json:"received_total"`
	Categories    map[string]int64      `json:"categories"`
}

// CategorySum returns the sum of all category totals.
func (m *MemberScore) CategorySum() int64 {
	var sum int64
	for _, v := range m.Categories {
		sum += v
	}
	return sum
}

// PointEventFilter narrows a point event listing. Zero fields do not filter.
type PointEventFilter struct {
	GuildID    sharedtypes.GuildID
	ReceiverID sharedtypes.DiscordID
	SenderID   sharedtypes.DiscordID
	Category   string
	Since      time.Time
	Limit      int
}

// MemberKey identifies a score record.
type MemberKey struct {
	GuildID  sharedtypes.GuildID
	MemberID sharedtypes.DiscordID
}

// AuditReport compares a stored aggregate against the totals derived from
// the member's point events.
type AuditReport struct {
	GuildID           sharedtypes.GuildID   `json:"guild_id"`
	MemberID          sharedtypes.DiscordID `json:"member_id"`
	StoredTotal       int64                 `json:"stored_total"`
	DerivedTotal      int64                 `json:"derived_total"`
	StoredCategories  map[string]int64      `json:"stored_categories"`
	DerivedCategories map[string]int64      `json:"derived_categories"`
	Drift             bool                  `json:"drift"`
}

// NewAuditReport builds a report and computes Drift.
func NewAuditReport(stored *MemberScore, derivedTotal int64, derivedCategories map[string]int64) *AuditReport {
	r := &AuditReport{
		GuildID:           stored.GuildID,
		MemberID:          stored.MemberID,
		StoredTotal:       stored.ReceivedTotal,
		DerivedTotal:      derivedTotal,
		StoredCategories:  stored.Categories,
		DerivedCategories: derivedCategories,
	}
	r.Drift = r.StoredTotal != r.DerivedTotal || stored.CategorySum() != stored.ReceivedTotal
	for category, derived := range derivedCategories {
		if stored.Categories[category] != derived {
			r.Drift = true
		}
	}
	for category, value := range stored.Categories {
		if _, ok := derivedCategories[category]; !ok && value != 0 {
			r.Drift = true
		}
	}
	return r
}
