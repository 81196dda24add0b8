package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iyunix/go-kanoon/internal/domain"
	"github.com/iyunix/go-kanoon/internal/testutil"
)

func newUser(t *testing.T, name, email string, typ domain.UserType) *domain.User {
	t.Helper()
	u := &domain.User{Name: name, Email: email, UserType: typ, IsActive: true}
	require.NoError(t, u.HashPassword("secret123"))
	return u
}

func TestCreateNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	repo := NewGormUserRepository(testutil.NewDB(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, newUser(t, "Asha", "  Asha@Example.com ", domain.UserTypeUser))
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", created.Email)

	_, err = repo.Create(ctx, newUser(t, "Other", "ASHA@example.com", domain.UserTypeUser))
	assert.ErrorIs(t, err, ErrEmailTaken)

	found, err := repo.FindByEmail(ctx, "asha@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestCreateValidatesInput(t *testing.T) {
	repo := NewGormUserRepository(testutil.NewDB(t))

	tests := []struct {
		name string
		user *domain.User
	}{
		{"missing name", &domain.User{Email: "a@b.co", UserType: domain.UserTypeUser, PasswordHash: "x"}},
		{"bad email", &domain.User{Name: "A", Email: "nope", UserType: domain.UserTypeUser, PasswordHash: "x"}},
		{"bad type", &domain.User{Name: "A", Email: "a@b.co", UserType: "judge", PasswordHash: "x"}},
		{"no hash", &domain.User{Name: "A", Email: "a@b.co", UserType: domain.UserTypeUser}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(context.Background(), tt.user)
			assert.Error(t, err)
		})
	}
}

func TestFindByIDNotFound(t *testing.T) {
	repo := NewGormUserRepository(testutil.NewDB(t))
	_, err := repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSearchLawyers(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	lawyers := []*domain.User{
		{Name: "Bhavna", Email: "b@law.in", UserType: domain.UserTypeLawyer, Degree: "LLB", Qualifications: "Criminal Law practice", College: "NLSIU Bangalore"},
		{Name: "Chetan", Email: "c@law.in", UserType: domain.UserTypeLawyer, Degree: "LLM Family Law", College: "Delhi University"},
		{Name: "Deepa", Email: "d@law.in", UserType: domain.UserTypeLawyer, Degree: "LLB", Qualifications: "Corporate", College: "Mumbai Law College"},
	}
	for _, l := range lawyers {
		testutil.CreateUser(t, db, l, "secret123")
	}
	testutil.CreateUser(t, db, &domain.User{Name: "Client", Email: "client@x.in"}, "secret123")

	got, total, err := repo.SearchLawyers(ctx, LawyerFilter{Specialization: "criminal", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Bhavna", got[0].Name)

	got, total, err = repo.SearchLawyers(ctx, LawyerFilter{Location: "DELHI"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Chetan", got[0].Name)

	got, total, err = repo.ListLawyers(ctx, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Deepa", got[0].Name)
}

func TestSearchLawyersSkipsInactive(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGormUserRepository(db)

	l := testutil.CreateUser(t, db, &domain.User{Name: "Inactive", Email: "i@law.in", UserType: domain.UserTypeLawyer}, "secret123")
	require.NoError(t, db.Model(l).Update("is_active", false).Error)

	_, total, err := repo.ListLawyers(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdatePassword(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGormUserRepository(db)
	u := testutil.CreateUser(t, db, &domain.User{Name: "E", Email: "e@x.in"}, "secret123")

	require.NoError(t, u.HashPassword("newsecret"))
	require.NoError(t, repo.UpdatePassword(context.Background(), u.ID, u.PasswordHash))

	found, err := repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NoError(t, found.ValidatePassword("newsecret"))

	assert.ErrorIs(t, repo.UpdatePassword(context.Background(), 999, "hash"), ErrUserNotFound)
}

func TestCreateLosingInsertRaceReturnsEmailTaken(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGormUserRepository(db)

	// A concurrent registration lands after ExistsByEmail but before our INSERT.
	fired := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:concurrent_insert", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "users" {
			return
		}
		fired = true
		now := time.Now()
		_, err := tx.Statement.ConnPool.ExecContext(tx.Statement.Context,
			"INSERT INTO users (name, email, password_hash, user_type, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			"First", "race@example.com", "hash", domain.UserTypeUser, true, now, now)
		require.NoError(t, err)
	}))

	_, err := repo.Create(context.Background(), newUser(t, "Second", "race@example.com", domain.UserTypeUser))
	assert.True(t, fired)
	assert.ErrorIs(t, err, ErrEmailTaken)
}
