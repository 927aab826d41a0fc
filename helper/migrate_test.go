package helper

import (
	"net/url"
	"salon/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"
	cfg.DB.Postgres.MigrationTable = "schema_migrations"
	cfg.DB.Postgres.Write.Username = "salon"
	cfg.DB.Postgres.Write.Password = "p@ss/word"
	cfg.DB.Postgres.Write.Host = "localhost"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "salon"
	cfg.DB.Postgres.Write.SSLMode = "disable"

	parsed, err := url.Parse(databaseURL(cfg))
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "postgres", parsed.Scheme)
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "localhost:5432", parsed.Host)
	assert.Equal(t, "/test_salon", parsed.Path)
	assert.Equal(t, "disable", parsed.Query().Get("sslmode"))
	assert.Equal(t, "schema_migrations", parsed.Query().Get("x-migrations-table"))
}

func TestRunnerRejectsUnknownAction(t *testing.T) {
	err := Runner(&config.Config{}, "sideways")

	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	mig, err := newMigratorSource()
	require.NoError(t, err)

	first, err := mig.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	for version := first; ; {
		up, _, err := mig.ReadUp(version)
		require.NoError(t, err, "version %d has no up migration", version)
		up.Close()

		down, _, err := mig.ReadDown(version)
		require.NoError(t, err, "version %d has no down migration", version)
		down.Close()

		next, err := mig.Next(version)
		if err != nil {
			break
		}

		version = next
	}
}
