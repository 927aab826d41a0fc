package postgres

//nolint:revive
import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"salon/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresMaxIdleTime       = 5 * time.Minute
)

type txKey struct{}

// Queryer is the subset of sqlx shared by *sqlx.DB and *sqlx.Tx.
type Queryer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New opens the read and write pools. A pool that cannot be reached stays nil and fails Ping.
func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  connect(cfg, "read", cfg.DB.Postgres.Read),
		Write: connect(cfg, "write", cfg.DB.Postgres.Write),
	}
}

// Reader returns the transaction bound to ctx, or the read replica.
func (c *Connection) Reader(ctx context.Context) Queryer {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}

	return c.Read
}

// Writer returns the transaction bound to ctx, or the primary.
func (c *Connection) Writer(ctx context.Context) Queryer {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}

	return c.Write
}

func TxFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sqlx.Tx)

	return tx, ok && tx != nil
}

// Transaction runs fn inside a single transaction on the primary. Nested calls join the outer one.
// The transaction commits when fn returns nil and rolls back otherwise.
func (c *Connection) Transaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := c.Write.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()

			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("failed to rollback transaction")
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Ping checks both pools.
func (c *Connection) Ping(ctx context.Context) error {
	if c.Read == nil || c.Write == nil {
		return errors.New("database connection not established")
	}

	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("write database unreachable: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("read database unreachable: %w", err)
	}

	return nil
}

func (c *Connection) Close() {
	for name, db := range map[string]*sqlx.DB{"read": c.Read, "write": c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Error().Err(err).Str("name", name).Msg("failed to close database connection")
		}
	}
}

// DSN builds the connection URL for node. Credentials are escaped, and query carries
// extra driver parameters next to sslmode.
func DSN(cfg *config.Config, node config.PostgresNode, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}

	query.Set("sslmode", node.SSLMode)

	target := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(node.Username, node.Password),
		Host:     net.JoinHostPort(node.Host, node.Port),
		Path:     "/" + cfg.DB.Postgres.Prefix + node.Name,
		RawQuery: query.Encode(),
	}

	return target.String()
}

// connect retries MaxRetry times, RetryWaitTime seconds apart, and returns nil when every attempt fails.
func connect(cfg *config.Config, name string, node config.PostgresNode) *sqlx.DB {
	settings := cfg.DB.Postgres
	wait := time.Duration(settings.RetryWaitTime) * time.Second
	logged := log.With().Str("name", name).Str("host", node.Host).Str("db", settings.Prefix+node.Name).Logger()

	for attempt := 1; attempt <= settings.MaxRetry; attempt++ {
		db, err := sqlx.Connect("postgres", DSN(cfg, node, nil))
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)
			db.SetConnMaxIdleTime(postgresMaxIdleTime)

			logged.Info().Msg("connected to database")

			return db
		}

		logged.Error().Err(err).Int("attempt", attempt).Msg("failed connecting to database, retrying")
		time.Sleep(wait)
	}

	logged.Error().Msg("giving up connecting to database")

	return nil
}
