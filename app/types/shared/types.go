package sharedtypes

// MaxIDLength is the width of every stored ID column. IDs are opaque:
// snowflakes, UUIDs and other platform keys all fit.
const MaxIDLength = 64

// GuildID identifies a group (a Discord guild).
type GuildID string

// DiscordID identifies a member.
type DiscordID string

// RoleID identifies a role within a guild.
type RoleID string

func (g GuildID) String() string   { return string(g) }
func (d DiscordID) String() string { return string(d) }
func (r RoleID) String() string    { return string(r) }

// Actor is the already-resolved identity of whoever issued a request.
type Actor struct {
	ID               DiscordID
	HasInherentAdmin bool
	RoleIDs          map[RoleID]struct{}
}

// NewActor builds an Actor holding the given roles.
func NewActor(id DiscordID, inherentAdmin bool, roles ...RoleID) Actor {
	held := make(map[RoleID]struct{}, len(roles))
	for _, r := range roles {
		if r == "" {
			continue
		}
		held[r] = struct{}{}
	}
	return Actor{ID: id, HasInherentAdmin: inherentAdmin, RoleIDs: held}
}

// HoldsRole reports whether the actor currently holds roleID.
func (a Actor) HoldsRole(roleID RoleID) bool {
	if roleID == "" {
		return false
	}
	_, ok := a.RoleIDs[roleID]
	return ok
}

// Roles returns the held roles as a slice, in no particular order.
func (a Actor) Roles() []RoleID {
	out := make([]RoleID, 0, len(a.RoleIDs))
	for r := range a.RoleIDs {
		out = append(out, r)
	}
	return out
}
