package user_services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-kanoon/internal/domain"
	userrepo "github.com/iyunix/go-kanoon/internal/repository/user"
	"github.com/iyunix/go-kanoon/internal/services"
	"github.com/iyunix/go-kanoon/internal/testutil"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(userrepo.NewGormUserRepository(db), services.NoOpLogger{})
	ctx := context.Background()

	client := testutil.CreateUser(t, db, &domain.User{Name: "Asha", Email: "asha@example.in"}, "secret123")
	lawyer := testutil.CreateUser(t, db, &domain.User{Name: "Vikram", Email: "vikram@example.in", UserType: domain.UserTypeLawyer}, "secret123")

	updated, err := svc.UpdateProfile(ctx, client.ID, ProfileUpdate{
		Name:    strPtr("  Asha Rao "),
		PhoneNo: strPtr("9876543210"),
		Degree:  strPtr("LLB"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", updated.Name)
	assert.Equal(t, "9876543210", updated.PhoneNo)
	assert.Empty(t, updated.Degree)

	updated, err = svc.UpdateProfile(ctx, lawyer.ID, ProfileUpdate{Degree: strPtr("LLM"), College: strPtr("NLU Delhi")})
	require.NoError(t, err)
	assert.Equal(t, "LLM", updated.Degree)
	assert.Equal(t, "NLU Delhi", updated.College)
	assert.Equal(t, "vikram@example.in", updated.Email)

	_, err = svc.UpdateProfile(ctx, client.ID, ProfileUpdate{Name: strPtr("   ")})
	assert.True(t, IsValidationError(err))
}

func TestChangePassword(t *testing.T) {
	db := testutil.NewDB(t)
	repo := userrepo.NewGormUserRepository(db)
	svc := NewUserService(repo, services.NoOpLogger{})
	ctx := context.Background()
	user := testutil.CreateUser(t, db, &domain.User{Name: "Asha", Email: "asha@example.in"}, "secret123")

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "wrong", "newsecret"), ErrIncorrectPassword)
	assert.True(t, IsValidationError(svc.ChangePassword(ctx, user.ID, "secret123", "123")))

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "secret123", "newsecret"))
	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NoError(t, stored.ValidatePassword("newsecret"))
}
