package profiles_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lakkilakshman/matrimony-sub000/internal/config"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
	"github.com/lakkilakshman/matrimony-sub000/internal/moderation"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/notifications"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/profiles"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Block{}, &models.EmailOutbox{},
		&notifications.Notification{},
		&profiles.Profile{}, &profiles.ProfilePhoto{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newService(db *gorm.DB) *profiles.Service {
	cfg := &config.Config{MatrimonyIDPrefix: "MAT", MatrimonyIDOffset: 1000}
	return profiles.NewService(db, cfg, notifications.NewService(db), moderation.NewService(db))
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:                 uuid.New(),
		Email:              email,
		Password:           "x",
		Role:               models.RoleUser,
		SubscriptionStatus: models.SubscriptionNone,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createProfile(t *testing.T, db *gorm.DB, svc *profiles.Service, user *models.User) *profiles.Profile {
	t.Helper()
	p, err := svc.CreateForUser(db, user.ID, "Anitha", "Raj", "female", "1995-04-12")
	require.NoError(t, err)
	return p
}

func TestCreateForUserAllocatesSequentialMatrimonyIDs(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)

	p1 := createProfile(t, db, svc, createUser(t, db, "a@test.com"))
	p2 := createProfile(t, db, svc, createUser(t, db, "b@test.com"))

	assert.Equal(t, "MAT1001", p1.MatrimonyID)
	assert.Equal(t, "MAT1002", p2.MatrimonyID)
	assert.Equal(t, profiles.StatusPending, p1.Status)
}

func TestCreateForUserValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)
	user := createUser(t, db, "a@test.com")

	_, err := svc.CreateForUser(db, user.ID, "", "Raj", "female", "1995-04-12")
	assert.Error(t, err)

	_, err = svc.CreateForUser(db, user.ID, "Anitha", "Raj", "female", "12-04-1995")
	assert.Error(t, err)
}

func TestGetHidesUnverifiedFromOthers(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)

	owner := createUser(t, db, "owner@test.com")
	profile := createProfile(t, db, svc, owner)
	other := createUser(t, db, "other@test.com")
	admin := createUser(t, db, "admin@test.com")
	db.Model(admin).Update("role", models.RoleAdmin)
	admin.Role = models.RoleAdmin

	// pending profile: invisible to strangers and guests
	_, err := svc.Get(other, profile.ID)
	assert.ErrorIs(t, err, profiles.ErrProfileNotFound)
	_, err = svc.Get(nil, profile.ID)
	assert.ErrorIs(t, err, profiles.ErrProfileNotFound)

	// owner and admin still see it
	_, err = svc.Get(owner, profile.ID)
	assert.NoError(t, err)
	_, err = svc.Get(admin, profile.ID)
	assert.NoError(t, err)
}

func TestGetRedactsContactFields(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)

	owner := createUser(t, db, "owner@test.com")
	profile := createProfile(t, db, svc, owner)
	require.NoError(t, db.Model(&profiles.Profile{}).Where("id = ?", profile.ID).Updates(map[string]interface{}{
		"status":  profiles.StatusVerified,
		"phone":   "9876543210",
		"address": "12 Temple Street",
	}).Error)

	// guest sees no contact fields
	view, err := svc.Get(nil, profile.ID)
	require.NoError(t, err)
	assert.False(t, view.ContactVisible)
	assert.Empty(t, view.Phone)
	assert.Empty(t, view.Address)

	// unsubscribed member sees none either
	member := createUser(t, db, "member@test.com")
	view, err = svc.Get(member, profile.ID)
	require.NoError(t, err)
	assert.False(t, view.ContactVisible)

	// subscribed member sees them
	end := time.Now().Add(24 * time.Hour)
	premium := createUser(t, db, "premium@test.com")
	require.NoError(t, db.Model(premium).Updates(map[string]interface{}{
		"subscription_status": models.SubscriptionActive,
		"subscription_end":    end,
	}).Error)
	premium.SubscriptionStatus = models.SubscriptionActive
	premium.SubscriptionEnd = &end

	view, err = svc.Get(premium, profile.ID)
	require.NoError(t, err)
	assert.True(t, view.ContactVisible)
	assert.Equal(t, "9876543210", view.Phone)

	// owner always sees their own
	view, err = svc.Get(owner, profile.ID)
	require.NoError(t, err)
	assert.True(t, view.ContactVisible)
}

func TestUpdateMergesAdditively(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)

	owner := createUser(t, db, "owner@test.com")
	profile := createProfile(t, db, svc, owner)

	religion := "Hindu"
	_, err := svc.Update(owner, profile.ID, &profiles.UpdateProfileRequest{Religion: &religion})
	require.NoError(t, err)

	city := "Chennai"
	updated, err := svc.Update(owner, profile.ID, &profiles.UpdateProfileRequest{City: &city})
	require.NoError(t, err)

	// the earlier patch survives the later one
	assert.Equal(t, "Hindu", updated.Religion)
	assert.Equal(t, "Chennai", updated.City)
	assert.Equal(t, "Anitha", updated.FirstName)
}

func TestUpdateRequiresOwnerOrAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)

	owner := createUser(t, db, "owner@test.com")
	profile := createProfile(t, db, svc, owner)
	stranger := createUser(t, db, "stranger@test.com")

	name := "Hacked"
	_, err := svc.Update(stranger, profile.ID, &profiles.UpdateProfileRequest{FirstName: &name})
	assert.ErrorIs(t, err, profiles.ErrNotOwner)
}

func TestUpdateRejectsFilteredBio(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)

	owner := createUser(t, db, "owner@test.com")
	profile := createProfile(t, db, svc, owner)

	about := "call me at 987-654-3210"
	_, err := svc.Update(owner, profile.ID, &profiles.UpdateProfileRequest{About: &about})
	assert.Error(t, err)
}

func TestPhotoLifecycle(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)

	owner := createUser(t, db, "owner@test.com")
	profile := createProfile(t, db, svc, owner)

	// first photo becomes primary and is denormalized onto the profile
	first, err := svc.AddPhoto(owner, profile.ID, "https://cdn.test/one.jpg")
	require.NoError(t, err)
	assert.True(t, first.IsPrimary)

	reloaded, err := svc.GetByID(profile.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.PrimaryPhotoURL)
	assert.Equal(t, "https://cdn.test/one.jpg", *reloaded.PrimaryPhotoURL)

	// later photos are not primary
	second, err := svc.AddPhoto(owner, profile.ID, "https://cdn.test/two.jpg")
	require.NoError(t, err)
	assert.False(t, second.IsPrimary)

	// explicit primary swap
	require.NoError(t, svc.SetPrimaryPhoto(owner, profile.ID, second.ID))
	photos, err := svc.Photos(profile.ID)
	require.NoError(t, err)
	primaries := 0
	for _, photo := range photos {
		if photo.IsPrimary {
			primaries++
			assert.Equal(t, second.ID, photo.ID)
		}
	}
	assert.Equal(t, 1, primaries)

	// deleting the primary promotes the remaining photo
	require.NoError(t, svc.DeletePhoto(owner, profile.ID, second.ID))
	reloaded, err = svc.GetByID(profile.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.PrimaryPhotoURL)
	assert.Equal(t, "https://cdn.test/one.jpg", *reloaded.PrimaryPhotoURL)

	// deleting the last photo clears the reference
	require.NoError(t, svc.DeletePhoto(owner, profile.ID, first.ID))
	reloaded, err = svc.GetByID(profile.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.PrimaryPhotoURL)
}

func TestSearchReturnsVerifiedOnlyFeaturedFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)

	pending := createProfile(t, db, svc, createUser(t, db, "pending@test.com"))
	verified := createProfile(t, db, svc, createUser(t, db, "verified@test.com"))
	featured := createProfile(t, db, svc, createUser(t, db, "featured@test.com"))

	require.NoError(t, db.Model(&profiles.Profile{}).Where("id = ?", verified.ID).
		Update("status", profiles.StatusVerified).Error)
	require.NoError(t, db.Model(&profiles.Profile{}).Where("id = ?", featured.ID).
		Updates(map[string]interface{}{"status": profiles.StatusVerified, "featured": true}).Error)

	cards, total, err := svc.Search(profiles.SearchFilters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, cards, 2)
	assert.Equal(t, featured.ID, cards[0].ProfileID)

	for _, card := range cards {
		assert.NotEqual(t, pending.ID, card.ProfileID)
	}
}

func TestSearchFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)

	p, err := svc.CreateForUser(db, createUser(t, db, "m@test.com").ID, "Suresh", "Kumar", "male", "1990-01-15")
	require.NoError(t, err)
	require.NoError(t, db.Model(&profiles.Profile{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"status": profiles.StatusVerified, "religion": "Hindu",
	}).Error)

	cards, _, err := svc.Search(profiles.SearchFilters{Gender: "male", Religion: "Hindu", MinAge: 30, MaxAge: 40})
	require.NoError(t, err)
	assert.Len(t, cards, 1)

	cards, _, err = svc.Search(profiles.SearchFilters{Gender: "female"})
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestVerifyNotifiesOwnerAndQueuesEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)

	owner := createUser(t, db, "owner@test.com")
	profile := createProfile(t, db, svc, owner)

	require.NoError(t, svc.Verify(profile.ID))

	reloaded, err := svc.GetByID(profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profiles.StatusVerified, reloaded.Status)

	var notif notifications.Notification
	require.NoError(t, db.First(&notif, "user_id = ?", owner.ID).Error)
	assert.Equal(t, notifications.TypeProfileVerified, notif.Type)

	var outbox models.EmailOutbox
	require.NoError(t, db.First(&outbox, "recipient = ?", owner.Email).Error)
	assert.Equal(t, models.OutboxPending, outbox.Status)
}

func TestRejectNotifiesWithReason(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)

	owner := createUser(t, db, "owner@test.com")
	profile := createProfile(t, db, svc, owner)

	require.NoError(t, svc.Reject(profile.ID, "photo unclear"))

	reloaded, err := svc.GetByID(profile.ID)
	require.NoError(t, err)
	assert.Equal(t, profiles.StatusRejected, reloaded.Status)

	var notif notifications.Notification
	require.NoError(t, db.First(&notif, "user_id = ?", owner.ID).Error)
	assert.Equal(t, notifications.TypeProfileRejected, notif.Type)
}

func TestSetFeaturedUnknownProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := newService(db)

	err := svc.SetFeatured(uuid.New(), true)
	assert.ErrorIs(t, err, profiles.ErrProfileNotFound)
}
