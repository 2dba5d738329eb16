package migration

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Version(t *testing.T) {
	var m Migrator = NewRunner()
	assert.Equal(t, "1.0.0", m.Version())
}

func TestRunner_Run_Idempotent(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := sqlx.Connect("postgres", url)
	require.NoError(t, err)
	defer db.Close()

	var m Migrator = NewRunner()
	require.NoError(t, m.Run(context.Background(), db))
	require.NoError(t, m.Run(context.Background(), db))

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = 'explanations'"))
	assert.Equal(t, 1, count)
}
