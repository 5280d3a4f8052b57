package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lakkilakshman/matrimony-sub000/internal/config"
	"github.com/lakkilakshman/matrimony-sub000/internal/dto"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
	"github.com/lakkilakshman/matrimony-sub000/internal/moderation"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/interests"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/messaging"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/notifications"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/profiles"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/subscriptions"
	"github.com/lakkilakshman/matrimony-sub000/internal/services"
)

func setupAuth(t *testing.T) (*gorm.DB, *services.AuthService) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.RefreshToken{}, &models.Block{},
		&models.Report{}, &models.EmailOutbox{},
		&notifications.Notification{},
		&profiles.Profile{}, &profiles.ProfilePhoto{},
		&interests.InterestRequest{}, &messaging.Message{},
		&subscriptions.Plan{}, &subscriptions.Payment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   15 * time.Minute,
		JWTRefreshExpiry:  7 * 24 * time.Hour,
		MatrimonyIDPrefix: "MAT",
		MatrimonyIDOffset: 1000,
	}
	profileSvc := profiles.NewService(db, cfg, notifications.NewService(db), moderation.NewService(db))
	return db, services.NewAuthService(db, cfg, profileSvc)
}

func registerReq(email string) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:       email,
		Password:    "password123",
		FirstName:   "Anitha",
		LastName:    "Raj",
		Gender:      "female",
		DateOfBirth: "1995-04-12",
	}
}

func TestRegisterCreatesUserAndPendingProfile(t *testing.T) {
	db, svc := setupAuth(t)

	resp, err := svc.Register(registerReq("a@test.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "MAT1001", resp.User.MatrimonyID)
	assert.Equal(t, models.SubscriptionNone, resp.User.SubscriptionStatus)

	var profile profiles.Profile
	require.NoError(t, db.First(&profile, "user_id = ?", resp.User.ID).Error)
	assert.Equal(t, profiles.StatusPending, profile.Status)
}

func TestRegisterValidation(t *testing.T) {
	_, svc := setupAuth(t)

	req := registerReq("a@test.com")
	req.Password = "short"
	_, err := svc.Register(req)
	assert.Error(t, err)

	req = registerReq("b@test.com")
	req.Gender = ""
	_, err = svc.Register(req)
	assert.ErrorIs(t, err, profiles.ErrMissingFields)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db, svc := setupAuth(t)

	_, err := svc.Register(registerReq("a@test.com"))
	require.NoError(t, err)

	_, err = svc.Register(registerReq("a@test.com"))
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	// the failed registration must not leak a profile row
	var count int64
	db.Model(&profiles.Profile{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestLogin(t *testing.T) {
	_, svc := setupAuth(t)

	_, err := svc.Register(registerReq("a@test.com"))
	require.NoError(t, err)

	resp, err := svc.Login(&dto.LoginRequest{Email: "a@test.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "MAT1001", resp.User.MatrimonyID)

	_, err = svc.Login(&dto.LoginRequest{Email: "a@test.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = svc.Login(&dto.LoginRequest{Email: "nobody@test.com", Password: "password123"})
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestRefreshRotation(t *testing.T) {
	_, svc := setupAuth(t)

	registered, err := svc.Register(registerReq("a@test.com"))
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: registered.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// the consumed token is dead
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: registered.RefreshToken})
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestLogoutRevokesToken(t *testing.T) {
	_, svc := setupAuth(t)

	registered, err := svc.Register(registerReq("a@test.com"))
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: registered.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: registered.RefreshToken})
	assert.ErrorIs(t, err, services.ErrInvalidToken)
}

func TestDeleteAccount(t *testing.T) {
	db, svc := setupAuth(t)

	registered, err := svc.Register(registerReq("a@test.com"))
	require.NoError(t, err)

	err = svc.DeleteAccount(registered.User.ID, "wrong-password")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	require.NoError(t, svc.DeleteAccount(registered.User.ID, "password123"))

	var count int64
	db.Model(&models.User{}).Where("email = ?", "a@test.com").Count(&count)
	assert.Zero(t, count)
	db.Model(&profiles.Profile{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&models.RefreshToken{}).Count(&count)
	assert.Zero(t, count)
}
