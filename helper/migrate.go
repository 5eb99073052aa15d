package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"spacebook/config"
	"spacebook/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationsSource = "file://migrations/postgres"

// Action is a migration direction understood by Runner.
type Action string

const (
	ActionUp     Action = "up"
	ActionDown   Action = "down"
	ActionStepUp Action = "step-up"
	ActionDrop   Action = "drop"
)

var ErrUnknownAction = errors.New("unknown migration action")

func connectionString(config *config.Config) string {
	migrationTable := config.DB.Postgres.MigrationTable
	if migrationTable == "" {
		migrationTable = "schema_migrations"
	}

	_, write := postgres.Endpoints(config)

	return write.DSN(url.Values{"x-migrations-table": {migrationTable}})
}

// Runner applies action to the booking schema. The exclusion constraint that backs reservation
// claims lives in these migrations, so the API must not serve before "up" succeeded.
func Runner(config *config.Config, action Action) error {
	mig, err := migrate.New(migrationsSource, connectionString(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	version, dirty, vErr := mig.Version()
	if vErr != nil && !errors.Is(vErr, migrate.ErrNilVersion) {
		log.Warn().Err(vErr).Msg("could not read schema version")
	}

	log.Info().Str("action", string(action)).Uint("version", version).Bool("dirty", dirty).Msg("Database migrations applied")

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}
