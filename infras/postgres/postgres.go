package postgres

//nolint:revive
import (
	"context"
	"fmt"
	"net"
	"net/url"
	"spacebook/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName = "postgres"

	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

// Connection splits traffic between a read replica and the primary. Reservation claims always use
// Write so the exclusion constraint is evaluated against current data.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one side of the read/write pair.
type Endpoint struct {
	Name     string
	Username string
	Password string
	Host     string
	Port     string
	Database string
	SSLMode  string
	Timezone string
}

func New(cfg *config.Config) *Connection {
	read, write := Endpoints(cfg)
	retries, wait := cfg.DB.Postgres.MaxRetry, time.Duration(cfg.DB.Postgres.RetryWaitTime)*time.Second

	return &Connection{
		Read:  connect(read, retries, wait),
		Write: connect(write, retries, wait),
	}
}

// Endpoints reads both endpoints from cfg, applying the database name prefix.
func Endpoints(cfg *config.Config) (read, write Endpoint) {
	pg := cfg.DB.Postgres

	read = Endpoint{
		Name:     "read",
		Username: pg.Read.Username,
		Password: pg.Read.Password,
		Host:     pg.Read.Host,
		Port:     pg.Read.Port,
		Database: pg.Prefix + pg.Read.Name,
		SSLMode:  pg.Read.SSLMode,
		Timezone: pg.Read.Timezone,
	}

	write = Endpoint{
		Name:     "write",
		Username: pg.Write.Username,
		Password: pg.Write.Password,
		Host:     pg.Write.Host,
		Port:     pg.Write.Port,
		Database: pg.Prefix + pg.Write.Name,
		SSLMode:  pg.Write.SSLMode,
		Timezone: pg.Write.Timezone,
	}

	return read, write
}

// DSN renders e as a postgres URL. extra is merged into the query string, which is how
// golang-migrate receives its x-migrations-table option.
func (e Endpoint) DSN(extra url.Values) string {
	query := url.Values{}
	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	if e.Timezone != "" {
		query.Set("timezone", e.Timezone)
	}

	for key, values := range extra {
		query[key] = values
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.Database,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// WithTx runs fn inside a transaction on the primary, committing on success. A panic in fn rolls
// back before it propagates.
func (c *Connection) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			rollback(tx)
			panic(recovered)
		}
	}()

	if err = fn(tx); err != nil {
		rollback(tx)

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil {
		log.Error().Err(err).Msg("failed to rollback transaction")
	}
}

// Ping reports whether the primary is reachable.
func (c *Connection) Ping(ctx context.Context) error {
	return c.Write.PingContext(ctx)
}

func (c *Connection) Close() error {
	if err := c.Read.Close(); err != nil {
		return fmt.Errorf("failed to close read connection: %w", err)
	}

	if err := c.Write.Close(); err != nil {
		return fmt.Errorf("failed to close write connection: %w", err)
	}

	return nil
}

// connect opens e, trying at least once and up to retries times before giving up fatally.
func connect(e Endpoint, retries int, wait time.Duration) *sqlx.DB {
	dsn := e.DSN(nil)

	for attempt := 1; attempt <= max(1, retries); attempt++ {
		db, err := sqlx.Connect(driverName, dsn)
		if err == nil {
			log.Info().Str("name", e.Name).Str("host", e.Host).Str("dbName", e.Database).Msg("Connected to database")

			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxLifetime(postgresConnMaxLifetime)

			return db
		}

		log.Error().
			Err(err).
			Str("name", e.Name).
			Str("host", e.Host).
			Int("attempt", attempt).
			Msg("Failed connecting to database, retrying")

		time.Sleep(wait)
	}

	log.Fatal().Str("name", e.Name).Str("host", e.Host).Msg("Could not connect to database")

	return nil
}
