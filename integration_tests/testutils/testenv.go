package testutils

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/score-bot/app/eventbus"
	"github.com/Black-And-White-Club/score-bot/config"
	"github.com/Black-And-White-Club/score-bot/db/bundb"
	"github.com/Black-And-White-Club/score-bot/integration_tests/containers"
)

// TestEnvironment holds the containers and connections shared by one
// integration test package.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer testcontainers.Container
	DB            *bun.DB
	NatsConn      *nats.Conn
	JetStream     jetstream.JetStream
	Config        *config.Config
	Logger        *slog.Logger
}

// NewTestEnvironment starts Postgres and NATS, opens the pool and applies
// every module's migrations.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	env := &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		Logger:        slog.New(slog.DiscardHandler),
	}

	if err := env.setupContainers(ctx); err != nil {
		env.Cleanup()
		return nil, err
	}
	return env, nil
}

func (env *TestEnvironment) setupContainers(ctx context.Context) error {
	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer

	cfg := config.Defaults()
	cfg.Postgres.DSN = pgConnStr
	cfg.Postgres.MaxOpenConns = 32
	cfg.NATS.URL = natsURL
	env.Config = &cfg

	db, err := bundb.NewBunDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	env.DB = db

	if err := bundb.RunMigrations(ctx, db, env.Logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	natsConn, err := nats.Connect(natsURL, nats.Timeout(10*time.Second))
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	env.NatsConn = natsConn

	js, err := jetstream.New(natsConn)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}
	env.JetStream = js
	return nil
}

// NewEventBus opens a JetStream-backed bus. Each queue group gets its own
// durable consumers, so observers never steal the service's messages.
func (env *TestEnvironment) NewEventBus(queueGroup string) (eventbus.EventBus, error) {
	return eventbus.NewNATS(env.Ctx, eventbus.Config{
		URL:        env.Config.NATS.URL,
		QueueGroup: queueGroup,
	}, env.Logger)
}

// Reset empties every table and purges the streams.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	if err := TruncateTables(ctx, env.DB); err != nil {
		return err
	}
	return env.PurgeStreams(ctx)
}

// PurgeStreams drops pending messages from the default streams that exist.
func (env *TestEnvironment) PurgeStreams(ctx context.Context) error {
	for _, sc := range eventbus.DefaultStreams {
		stream, err := env.JetStream.Stream(ctx, sc.Name)
		if err != nil {
			continue
		}
		if err := stream.Purge(ctx); err != nil {
			return fmt.Errorf("purge stream %s: %w", sc.Name, err)
		}
	}
	return nil
}

// Cleanup tears down connections and containers.
func (env *TestEnvironment) Cleanup() {
	if env.CancelContext != nil {
		env.CancelContext()
	}
	if env.NatsConn != nil {
		env.NatsConn.Close()
	}
	if env.DB != nil {
		if err := env.DB.Close(); err != nil {
			log.Printf("Error closing DB: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating Postgres container: %v", err)
		}
	}
}
