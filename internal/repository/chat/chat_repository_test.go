package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-kanoon/internal/domain"
	"github.com/iyunix/go-kanoon/internal/testutil"
)

func TestSessionLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, &domain.User{Name: "Owner", Email: "o@x.in"}, "secret123")
	other := testutil.CreateUser(t, db, &domain.User{Name: "Other", Email: "other@x.in"}, "secret123")

	first, err := repo.Create(ctx, &domain.ChatSession{UserID: owner.ID, SessionTitle: "Bail"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, &domain.ChatSession{UserID: owner.ID, SessionTitle: "Rent"})
	require.NoError(t, err)

	require.NoError(t, repo.Touch(ctx, first.ID, 2))

	sessions, err := repo.ListActiveByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first.ID, sessions[0].ID, "most recently touched first")
	assert.Equal(t, 2, sessions[0].MessageCount)

	_, err = repo.FindByIDAndUser(ctx, first.ID, other.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, repo.SoftDelete(ctx, second.ID, other.ID), ErrSessionNotFound)
	require.NoError(t, repo.SoftDelete(ctx, second.ID, owner.ID))

	_, err = repo.FindByIDAndUser(ctx, second.ID, owner.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	sessions, err = repo.ListActiveByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestCreateRequiresTitle(t *testing.T) {
	repo := NewSessionRepository(testutil.NewDB(t))
	_, err := repo.Create(context.Background(), &domain.ChatSession{UserID: 1, SessionTitle: "   "})
	assert.Error(t, err)
}
