package scoreintegrationtests

import (
	"testing"

	guildservice "github.com/Black-And-White-Club/score-bot/app/modules/guild/application"
	guilddb "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/repositories"
	scoreservice "github.com/Black-And-White-Club/score-bot/app/modules/score/application"
	scoredb "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/repositories"
	scoremetrics "github.com/Black-And-White-Club/score-bot/app/observability/metrics/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/Black-And-White-Club/score-bot/integration_tests/testutils"
	"go.opentelemetry.io/otel/trace/noop"
)

// ScoreTestDeps holds the Postgres-backed service under test.
type ScoreTestDeps struct {
	*testutils.TestEnvironment
	GuildRepo guilddb.Repository
	ScoreRepo scoredb.Repository
	Service   *scoreservice.ScoreService
	Gen       *testutils.TestDataGenerator
}

// SetupTestScoreService resets the database and wires the service over the
// bun repositories.
func SetupTestScoreService(t *testing.T) ScoreTestDeps {
	t.Helper()
	if testEnv == nil {
		t.Fatal("test environment is not initialized")
	}
	if err := testEnv.Reset(testEnv.Ctx); err != nil {
		t.Fatalf("failed to reset environment: %v", err)
	}

	guildRepo := guilddb.NewRepository(testEnv.DB)
	scoreRepo := scoredb.NewRepository(testEnv.DB)
	tracer := noop.NewTracerProvider().Tracer("test")
	resolver := guildservice.NewPermissionResolver(guildRepo, guildservice.ActorRoleChecker{}, testEnv.Logger, tracer)
	svc := scoreservice.NewScoreService(
		guildRepo,
		scoreRepo,
		resolver,
		testEnv.Logger,
		scoremetrics.NewNoop(),
		tracer,
		testEnv.DB,
		scoreservice.Options{},
	)

	return ScoreTestDeps{
		TestEnvironment: testEnv,
		GuildRepo:       guildRepo,
		ScoreRepo:       scoreRepo,
		Service:         svc,
		Gen:             testutils.NewTestDataGenerator(42),
	}
}

func owner(id sharedtypes.DiscordID) sharedtypes.Actor {
	return sharedtypes.NewActor(id, true)
}

func member(id sharedtypes.DiscordID, roles ...sharedtypes.RoleID) sharedtypes.Actor {
	return sharedtypes.NewActor(id, false, roles...)
}

func rolePtr(r sharedtypes.RoleID) *sharedtypes.RoleID { return &r }
