package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/tally/internal/shared/config"
)

func TestInitSQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{Driver: "sqlite", Database: ":memory:"}

	require.NoError(t, Init(cfg))
	t.Cleanup(func() { _ = Close() })

	require.NotNil(t, Get())
	var one int
	require.NoError(t, Get().Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestCloseWithoutInit(t *testing.T) {
	dbMu.Lock()
	saved := db
	db = nil
	dbMu.Unlock()
	t.Cleanup(func() {
		dbMu.Lock()
		db = saved
		dbMu.Unlock()
	})

	assert.NoError(t, Close())
}
