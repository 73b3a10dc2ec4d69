package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pageza/recipe-api/backend/internal/models"
	"github.com/pageza/recipe-api/backend/internal/types"
)

// UserOption customizes a user before it is stored.
type UserOption func(*models.User)

// WithName sets the display name.
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = strings.TrimSpace(name)
	}
}

// WithStaff marks the user as staff.
func WithStaff() UserOption {
	return func(u *models.User) {
		u.IsStaff = true
	}
}

// UserService is the user store
type UserService struct {
	db  *gorm.DB
	log logrus.FieldLogger
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB, log logrus.FieldLogger) *UserService {
	return &UserService{db: db, log: log}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser validates, normalizes and stores a new user with a hashed password.
func (s *UserService) CreateUser(ctx context.Context, email, password string, opts ...UserOption) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, types.NewValidationError("email", "Users must have an email address.")
	}
	if password == "" {
		return nil, types.NewValidationError("password", "This field may not be blank.")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, types.NewValidationError("email", "user with this email already exists.")
	}

	user := &models.User{Email: email, IsActive: true}
	for _, opt := range opts {
		opt(user)
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.NewValidationError("email", "user with this email already exists.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":   user.ID,
		"staff":     user.IsStaff,
		"superuser": user.IsSuperuser,
	}).Info("user created")
	return user, nil
}

// CreateSuperuser creates a user with staff and superuser rights.
func (s *UserService) CreateSuperuser(ctx context.Context, email, password string) (*models.User, error) {
	return s.CreateUser(ctx, email, password, func(u *models.User) {
		u.IsStaff = true
		u.IsSuperuser = true
	})
}

// Authenticate returns the active user matching the credentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.CheckPassword(password) {
		return nil, types.ErrInvalidCredentials
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser changes the name and/or password of a user. Nil values are left alone.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, name, password *string) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		user.Name = strings.TrimSpace(*name)
	}
	if password != nil {
		if *password == "" {
			return nil, types.NewValidationError("password", "This field may not be blank.")
		}
		if err := user.SetPassword(*password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	if err := s.db.WithContext(ctx).Model(user).Select("name", "password_hash").Updates(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
