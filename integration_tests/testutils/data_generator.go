package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"

	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
)

// TestDataGenerator produces guild, member and award data for integration
// tests. A fixed seed reproduces a run.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewTestDataGenerator creates a generator with an optional seed.
func NewTestDataGenerator(seed ...uint64) *TestDataGenerator {
	s := uint64(time.Now().UnixNano())
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(s), seed: s}
}

// Seed returns the seed the generator was built with.
func (g *TestDataGenerator) Seed() uint64 { return g.seed }

// GuildID returns a snowflake-shaped guild ID.
func (g *TestDataGenerator) GuildID() sharedtypes.GuildID {
	return sharedtypes.GuildID(g.snowflake())
}

// MemberID returns a snowflake-shaped member ID.
func (g *TestDataGenerator) MemberID() sharedtypes.DiscordID {
	return sharedtypes.DiscordID(g.snowflake())
}

// RoleID returns a snowflake-shaped role ID.
func (g *TestDataGenerator) RoleID() sharedtypes.RoleID {
	return sharedtypes.RoleID(g.snowflake())
}

// Members returns n distinct member IDs.
func (g *TestDataGenerator) Members(n int) []sharedtypes.DiscordID {
	seen := make(map[sharedtypes.DiscordID]struct{}, n)
	out := make([]sharedtypes.DiscordID, 0, n)
	for len(out) < n {
		id := g.MemberID()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Category returns one of a small set of category names so totals collide.
func (g *TestDataGenerator) Category() string {
	return g.faker.RandomString([]string{"general", "helpful", "funny", "bugfix", "mentoring"})
}

// Value returns a point value in [-5, 10].
func (g *TestDataGenerator) Value() int64 {
	return int64(g.faker.Number(-5, 10))
}

// Pick returns a random element of ids.
func (g *TestDataGenerator) Pick(ids []sharedtypes.DiscordID) sharedtypes.DiscordID {
	return ids[g.faker.Number(0, len(ids)-1)]
}

func (g *TestDataGenerator) snowflake() string {
	return g.faker.Numerify("1#################")
}
