package service

import (
	"context"
	"testing"
	"time"

	"food_app/internal/domain"
	"food_app/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestRegisterAndLogin(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	u, err := s.users.Register(ctx, " Alice ", "Alice@Food.App", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "alice@food.app", u.Email)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.NotEqual(t, "pw123456", u.Password)

	_, err = s.users.Register(ctx, "Other", "alice@food.app", "x")
	assert.ErrorIs(t, err, ErrEmailTaken)
	_, err = s.users.Register(ctx, "", "x@food.app", "x")
	assert.ErrorIs(t, err, ErrValidation)

	logged, token, err := s.users.Login(ctx, "ALICE@food.app", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)
	claims, err := utils.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)

	_, _, err = s.users.Login(ctx, "alice@food.app", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = s.users.Login(ctx, "nobody@food.app", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// An insert that loses the email race to a concurrent registration hits the
// unique index after the emailFree check already passed.
func TestRegisterLosingEmailRaceReturnsEmailTaken(t *testing.T) {
	gdb := newTestDB(t)
	s := newServicesOn(t, gdb)
	ctx := context.Background()

	raced := false
	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("test:concurrent_signup", func(tx *gorm.DB) {
		if raced || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "users" {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO users (name, email, password, role, created_at) VALUES (?, ?, ?, ?, ?)",
			"Early", "race@food.app", "x", domain.RoleUser, time.Now())
	}))

	_, err := s.users.Register(ctx, "Late", "race@food.app", "pw123456")
	assert.True(t, raced)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginWithoutSecretReturnsNoToken(t *testing.T) {
	s := newServices(t)
	users := NewUserService(s.db, "")
	_, err := users.Register(context.Background(), "Bo", "bo@food.app", "pw")
	require.NoError(t, err)

	_, token, err := users.Login(context.Background(), "bo@food.app", "pw")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestAdminCreateValidatesRole(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	admin, err := s.users.AdminCreate(ctx, "Root", "root@food.app", "pw", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	_, err = s.users.AdminCreate(ctx, "X", "x@food.app", "pw", "owner")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateUserAppliesOnlyGivenFields(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := mustUser(t, s, "cara", domain.RoleUser)
	other := mustUser(t, s, "dina", domain.RoleUser)

	updated, err := s.users.Update(ctx, u.ID, UpdateUserInput{Name: "Cara B", Email: "cara@food.app", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "Cara B", updated.Name)
	assert.Equal(t, domain.RoleAdmin, updated.Role)
	assert.Equal(t, u.Password, updated.Password)

	_, err = s.users.Update(ctx, u.ID, UpdateUserInput{Name: "Cara", Email: other.Email})
	assert.ErrorIs(t, err, ErrEmailTaken)
	_, err = s.users.Update(ctx, 9999, UpdateUserInput{Name: "N", Email: "n@food.app"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = s.users.Update(ctx, u.ID, UpdateUserInput{Name: "N", Email: "n@food.app", Role: "owner"})
	assert.ErrorIs(t, err, ErrValidation)

	profile, err := s.users.UpdateProfile(ctx, other.ID, UpdateUserInput{
		Name: "Dina", Email: "dina@food.app", Role: domain.RoleAdmin, Password: "newpass", ProfileImage: "uploads/d.png",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, profile.Role)
	assert.Equal(t, "uploads/d.png", profile.ProfileImage)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte("newpass")))
}

func TestLastAdminIsProtected(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	admin := mustUser(t, s, "root", domain.RoleAdmin)

	err := s.users.Delete(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrLastAdmin)
	_, err = s.users.Update(ctx, admin.ID, UpdateUserInput{Name: "root", Email: admin.Email, Role: domain.RoleUser})
	assert.ErrorIs(t, err, ErrLastAdmin)

	second := mustUser(t, s, "ops", domain.RoleAdmin)
	require.NoError(t, s.users.Delete(ctx, admin.ID))
	assert.ErrorIs(t, s.users.Delete(ctx, second.ID), ErrLastAdmin)

	_, err = s.users.Get(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, s.users.Delete(ctx, admin.ID), ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	u := mustUser(t, s, "eve", domain.RoleUser) // password "secret"

	assert.ErrorIs(t, s.users.ChangePassword(ctx, u.ID, "wrong", "next"), ErrInvalidCredentials)
	assert.ErrorIs(t, s.users.ChangePassword(ctx, u.ID, "", "next"), ErrValidation)
	require.NoError(t, s.users.ChangePassword(ctx, u.ID, "secret", "next"))

	_, _, err := s.users.Login(ctx, u.Email, "next")
	assert.NoError(t, err)
}

func TestListUsers(t *testing.T) {
	s := newServices(t)
	mustUser(t, s, "a", domain.RoleUser)
	mustUser(t, s, "b", domain.RoleAdmin)

	users, err := s.users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "b", users[0].Name)
}
