package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food_app/internal/domain"
	"food_app/internal/store"
	"food_app/internal/utils"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Columns a user update may touch
var userColumns = []string{"name", "email", "password", "role", "profile_image"}

// UpdateUserInput carries the fields of a user update; empty optional fields are left unchanged
type UpdateUserInput struct {
	Name         string
	Email        string
	Password     string
	Role         string
	ProfileImage string
}

// UserService is the account store: registration, login and admin management
type UserService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewUserService(db *gorm.DB, jwtSecret string) *UserService {
	return &UserService{db: db, jwtSecret: jwtSecret}
}

// Register creates a regular user
func (s *UserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	return s.create(ctx, name, email, password, domain.RoleUser)
}

// AdminCreate creates a user with an explicit role
func (s *UserService) AdminCreate(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	if !domain.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	return s.create(ctx, name, email, password, role)
}

func (s *UserService) create(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	name, email = strings.TrimSpace(name), normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	if err := s.emailFree(ctx, email, 0); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{Name: name, Email: email, Password: string(hash), Role: role}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("User created")
	return &user, nil
}

// Login checks credentials and returns the user with a signed token.
// The token is empty when no JWT secret is configured.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if s.jwtSecret == "" {
		return &user, "", nil
	}
	token, err := utils.GenerateJWT(user.ID, user.Role, s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return &user, token, nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// List returns all users, newest first
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	if err := s.db.WithContext(ctx).Order("created_at desc").Order("id desc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update applies an admin edit, role included
func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*domain.User, error) {
	return s.update(ctx, id, in, true)
}

// UpdateProfile applies a self-service edit; the role is never changed
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in UpdateUserInput) (*domain.User, error) {
	in.Role = ""
	return s.update(ctx, id, in, false)
}

func (s *UserService) update(ctx context.Context, id uint, in UpdateUserInput, allowRole bool) (*domain.User, error) {
	in.Name, in.Email = strings.TrimSpace(in.Name), normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}
	if in.Role != "" && !domain.IsValidRole(in.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
	}
	patch := store.NewPatch(userColumns...).
		Set("name", in.Name).
		Set("email", in.Email).
		SetIf(allowRole && in.Role != "", "role", in.Role).
		SetIf(in.ProfileImage != "", "profile_image", in.ProfileImage)
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		patch.Set("password", string(hash))
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}
		if in.Email != existing.Email {
			if err := emailFree(tx, in.Email, id); err != nil {
				return err
			}
		}
		if existing.Role == domain.RoleAdmin && allowRole && in.Role == domain.RoleUser {
			if err := ensureOtherAdmin(tx); err != nil {
				return err
			}
		}
		if _, err := patch.Apply(tx.Model(&domain.User{}).Where("id = ?", id)); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrEmailTaken
			}
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": id, "columns": patch.Columns()}).Info("User updated")
	return s.Get(ctx, id)
}

// ChangePassword replaces the password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, id uint, current, next string) error {
	if current == "" || next == "" {
		return fmt.Errorf("%w: current password and new password are required", ErrValidation)
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = store.NewPatch("password").Set("password", string(hash)).
		Apply(s.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id))
	return err
}

// Delete removes a user; the last admin cannot be removed
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}
		if user.Role == domain.RoleAdmin {
			if err := ensureOtherAdmin(tx); err != nil {
				return err
			}
		}
		if err := tx.Delete(&domain.User{}, id).Error; err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		logrus.WithFields(logrus.Fields{"user_id": id, "role": user.Role}).Info("User deleted")
		return nil
	})
}

func (s *UserService) emailFree(ctx context.Context, email string, exceptID uint) error {
	return emailFree(s.db.WithContext(ctx), email, exceptID)
}

func emailFree(db *gorm.DB, email string, exceptID uint) error {
	var count int64
	if err := db.Model(&domain.User{}).Where("email = ? AND id <> ?", email, exceptID).Count(&count).Error; err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

// ensureOtherAdmin fails unless more than one admin exists; admin rows stay locked until commit
func ensureOtherAdmin(tx *gorm.DB) error {
	var admins int64
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).
		Count(&admins).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if admins <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
