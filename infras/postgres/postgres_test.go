package postgres_test

import (
	"context"
	"net/url"
	"salon/config"
	"salon/infras/postgres"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "test_"

	node := config.PostgresNode{
		Host:     "db.internal",
		Port:     "6432",
		Username: "salon",
		Password: "p@ss:w/rd",
		Name:     "salon",
		SSLMode:  "require",
	}

	parsed, err := url.Parse(postgres.DSN(cfg, node, url.Values{"application_name": {"salon"}}))
	require.NoError(t, err)

	password, _ := parsed.User.Password()

	assert.Equal(t, "p@ss:w/rd", password)
	assert.Equal(t, "db.internal:6432", parsed.Host)
	assert.Equal(t, "/test_salon", parsed.Path)
	assert.Equal(t, "require", parsed.Query().Get("sslmode"))
	assert.Equal(t, "salon", parsed.Query().Get("application_name"))
}

func TestTxFromContext(t *testing.T) {
	_, ok := postgres.TxFromContext(context.Background())

	assert.False(t, ok)
}

func TestPingWithoutPools(t *testing.T) {
	assert.Error(t, (&postgres.Connection{}).Ping(context.Background()))
}
