// File: internal/repository/user/gorm_user_repository.go
package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/iyunix/go-kanoon/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create validates and inserts a new user.
func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.Email = domain.NormalizeEmail(user.Email)
	if err := r.validateUserInput(user); err != nil {
		log.Printf("[UserRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := r.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		log.Printf("[UserRepository] Database error during user creation: %v", err)
		return nil, errors.New("database error creating user")
	}

	log.Printf("[UserRepository] User created successfully with ID: %d", user.ID)
	return user, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		return errors.New("invalid user ID")
	}
	if err := r.validateUserInput(user); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		log.Printf("[UserRepository] Database error during user update for ID %d: %v", user.ID, err)
		return errors.New("database error updating user")
	}
	return nil
}

// UpdatePassword replaces only the password hash.
func (r *gormUserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	if id == 0 || hash == "" {
		return errors.New("invalid password update")
	}
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		log.Printf("[UserRepository] Database error updating password for ID %d: %v", id, res.Error)
		return errors.New("database error updating password")
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user ID")
	}
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, ErrUserNotFound
	}
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", domain.NormalizeEmail(email)).
		Count(&count).Error
	if err != nil {
		log.Printf("[UserRepository] Database error checking email: %v", err)
		return false, errors.New("database query failed")
	}
	return count > 0, nil
}

// SearchLawyers matches specialization against degree or qualifications and
// location against college, case-insensitively.
func (r *gormUserRepository) SearchLawyers(ctx context.Context, filter LawyerFilter) ([]domain.User, int64, error) {
	query := r.activeLawyers(ctx)

	if s := strings.TrimSpace(filter.Specialization); s != "" {
		pattern := likePattern(s)
		query = query.Where("(LOWER(degree) LIKE ? OR LOWER(qualifications) LIKE ?)", pattern, pattern)
	}
	if l := strings.TrimSpace(filter.Location); l != "" {
		query = query.Where("LOWER(college) LIKE ?", likePattern(l))
	}

	return r.paginate(query, filter.Page, filter.PerPage)
}

func (r *gormUserRepository) ListLawyers(ctx context.Context, page, perPage int) ([]domain.User, int64, error) {
	return r.paginate(r.activeLawyers(ctx), page, perPage)
}

func (r *gormUserRepository) activeLawyers(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("user_type = ? AND is_active = ?", domain.UserTypeLawyer, true)
}

func (r *gormUserRepository) paginate(query *gorm.DB, page, perPage int) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[UserRepository] Database error counting lawyers: %v", err)
		return nil, 0, errors.New("database query failed")
	}

	var users []domain.User
	err := query.Order("name ASC").Offset((page - 1) * perPage).Limit(perPage).Find(&users).Error
	if err != nil {
		log.Printf("[UserRepository] Database error listing lawyers: %v", err)
		return nil, 0, errors.New("database query failed")
	}
	return users, total, nil
}

func (r *gormUserRepository) validateUserInput(user *domain.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if err := user.Validate(); err != nil {
		return err
	}
	if user.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if len(user.Name) > 100 {
		return errors.New("name must not exceed 100 characters")
	}
	return nil
}

// handleFindError maps gorm errors without leaking query details.
func (r *gormUserRepository) handleFindError(err error, user *domain.User) (*domain.User, error) {
	if err == nil {
		return user, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	log.Printf("[UserRepository] Database query error: %v", err)
	return nil, errors.New("database query failed")
}

// likePattern lower-cases s and strips LIKE wildcards.
func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`%`, "", `_`, "").Replace(s)
	return "%" + s + "%"
}
