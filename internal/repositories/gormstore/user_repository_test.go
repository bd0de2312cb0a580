package gormstore

import (
	"context"
	"testing"

	"messaging-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepositoryCreateAndFind(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	user := &models.User{Username: "  Alice ", DisplayName: "Alice A.", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, "alice", user.Username)
	assert.NotZero(t, user.ID)

	found, err := repo.FindByUsername(ctx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice A.", byID.DisplayName)

	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.FindByID(ctx, user.ID+1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepositoryRejectsDuplicateUsername(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "bob", Password: "hash"}))
	err := repo.Create(ctx, &models.User{Username: "BOB", Password: "hash"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserRepositoryUpdateDisplayName(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	user := &models.User{Username: "carol", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.UpdateDisplayName(ctx, user.ID, "Carol C."))
	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Carol C.", found.DisplayName)
	assert.Equal(t, "carol", found.Username)

	assert.ErrorIs(t, repo.UpdateDisplayName(ctx, user.ID+10, "x"), ErrUserNotFound)
}
