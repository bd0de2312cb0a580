package database

import (
	"testing"

	"messaging-service/internal/config"
	"messaging-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndMigrateSQLite(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: "file:database_test?mode=memory&cache=shared"})
	require.NoError(t, err)
	defer func() { _ = Close(db) }()

	require.NoError(t, Migrate(db))
	// Running twice must not fail on existing tables or indexes.
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasTable(&models.Message{}))
	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasIndex("messages", "idx_messages_recipient_inbox"))
	assert.True(t, db.Migrator().HasIndex("messages", "idx_messages_sender_outbox"))
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Dialector(config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestDialectorBuildsDrivers(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql", "sqlite"} {
		d, err := Dialector(config.DatabaseConfig{Driver: driver, Host: "localhost", Port: "1", DBName: "x", Path: "x.db"})
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}
}
