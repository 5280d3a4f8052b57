package messaging_test

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
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/messaging"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/notifications"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/profiles"
)

type fixture struct {
	db  *gorm.DB
	svc *messaging.Service
	mod *moderation.Service
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Block{}, &models.EmailOutbox{},
		&notifications.Notification{},
		&profiles.Profile{}, &profiles.ProfilePhoto{},
		&messaging.Message{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{MatrimonyIDPrefix: "MAT", MatrimonyIDOffset: 1000}
	notif := notifications.NewService(db)
	mod := moderation.NewService(db)
	profileSvc := profiles.NewService(db, cfg, notif, mod)

	return &fixture{
		db:  db,
		svc: messaging.NewService(db, profileSvc, notif, mod),
		mod: mod,
	}
}

func (f *fixture) addUser(t *testing.T, email, status string) *models.User {
	t.Helper()
	user := &models.User{
		ID:                 uuid.New(),
		Email:              email,
		Password:           "x",
		Role:               models.RoleUser,
		SubscriptionStatus: status,
	}
	if status == models.SubscriptionActive {
		end := time.Now().Add(30 * 24 * time.Hour)
		user.SubscriptionEnd = &end
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func TestSendRequiresActiveSubscription(t *testing.T) {
	f := setup(t)
	sender := f.addUser(t, "free@test.com", models.SubscriptionNone)
	receiver := f.addUser(t, "receiver@test.com", models.SubscriptionNone)

	_, err := f.svc.Send(sender, receiver.ID, "hello")
	assert.ErrorIs(t, err, messaging.ErrSubscriptionRequired)

	// a submitted-but-unapproved payment grants nothing
	sender.SubscriptionStatus = models.SubscriptionPending
	_, err = f.svc.Send(sender, receiver.ID, "hello")
	assert.ErrorIs(t, err, messaging.ErrSubscriptionRequired)
}

func TestSendDeniedAfterExpiry(t *testing.T) {
	f := setup(t)
	sender := f.addUser(t, "expired@test.com", models.SubscriptionNone)
	receiver := f.addUser(t, "receiver@test.com", models.SubscriptionNone)

	// stored status still says active but the window has passed
	past := time.Now().Add(-time.Hour)
	sender.SubscriptionStatus = models.SubscriptionActive
	sender.SubscriptionEnd = &past

	_, err := f.svc.Send(sender, receiver.ID, "hello")
	assert.ErrorIs(t, err, messaging.ErrSubscriptionRequired)
}

func TestSendDeliversAndNotifies(t *testing.T) {
	f := setup(t)
	sender := f.addUser(t, "premium@test.com", models.SubscriptionActive)
	receiver := f.addUser(t, "receiver@test.com", models.SubscriptionNone)

	msg, err := f.svc.Send(sender, receiver.ID, "hello there")
	require.NoError(t, err)
	assert.Equal(t, sender.ID, msg.SenderID)
	assert.Equal(t, receiver.ID, msg.ReceiverID)
	assert.False(t, msg.Read)

	var notif notifications.Notification
	require.NoError(t, f.db.First(&notif, "user_id = ?", receiver.ID).Error)
	assert.Equal(t, notifications.TypeNewMessage, notif.Type)

	var outbox models.EmailOutbox
	require.NoError(t, f.db.First(&outbox, "recipient = ?", receiver.Email).Error)
	assert.Equal(t, models.OutboxPending, outbox.Status)
}

func TestAdminBypassesGate(t *testing.T) {
	f := setup(t)
	admin := f.addUser(t, "admin@test.com", models.SubscriptionNone)
	admin.Role = models.RoleAdmin
	receiver := f.addUser(t, "receiver@test.com", models.SubscriptionNone)

	_, err := f.svc.Send(admin, receiver.ID, "hello")
	assert.NoError(t, err)
}

func TestSendValidation(t *testing.T) {
	f := setup(t)
	sender := f.addUser(t, "premium@test.com", models.SubscriptionActive)

	_, err := f.svc.Send(sender, uuid.New(), "hello")
	assert.ErrorIs(t, err, messaging.ErrReceiverNotFound)

	receiver := f.addUser(t, "receiver@test.com", models.SubscriptionNone)
	_, err = f.svc.Send(sender, receiver.ID, "")
	assert.ErrorIs(t, err, messaging.ErrEmptyMessage)
}

func TestSendBlockedUser(t *testing.T) {
	f := setup(t)
	sender := f.addUser(t, "premium@test.com", models.SubscriptionActive)
	receiver := f.addUser(t, "receiver@test.com", models.SubscriptionNone)

	require.NoError(t, f.mod.BlockUser(receiver.ID, sender.ID))

	_, err := f.svc.Send(sender, receiver.ID, "hello")
	assert.ErrorIs(t, err, messaging.ErrBlocked)
}

func TestSendFilteredContent(t *testing.T) {
	f := setup(t)
	sender := f.addUser(t, "premium@test.com", models.SubscriptionActive)
	receiver := f.addUser(t, "receiver@test.com", models.SubscriptionNone)

	_, err := f.svc.Send(sender, receiver.ID, "find me at www.other-site.com")
	assert.Error(t, err)
}

func TestThreadOrderAndReadMarking(t *testing.T) {
	f := setup(t)
	a := f.addUser(t, "a@test.com", models.SubscriptionActive)
	b := f.addUser(t, "b@test.com", models.SubscriptionActive)

	_, err := f.svc.Send(a, b.ID, "first")
	require.NoError(t, err)
	_, err = f.svc.Send(b, a.ID, "second")
	require.NoError(t, err)
	_, err = f.svc.Send(a, b.ID, "third")
	require.NoError(t, err)

	// opening the thread as b marks a's messages read
	msgs, err := f.svc.Thread(b.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Body)
	assert.Equal(t, "third", msgs[2].Body)

	var unread int64
	f.db.Model(&messaging.Message{}).
		Where("receiver_id = ? AND read = ?", b.ID, false).
		Count(&unread)
	assert.Zero(t, unread)

	// b's own message to a stays unread until a opens the thread
	f.db.Model(&messaging.Message{}).
		Where("receiver_id = ? AND read = ?", a.ID, false).
		Count(&unread)
	assert.Equal(t, int64(1), unread)
}

func TestConversationsAggregation(t *testing.T) {
	f := setup(t)
	a := f.addUser(t, "a@test.com", models.SubscriptionActive)
	b := f.addUser(t, "b@test.com", models.SubscriptionActive)
	c := f.addUser(t, "c@test.com", models.SubscriptionActive)

	_, err := f.svc.Send(b, a.ID, "from b one")
	require.NoError(t, err)
	_, err = f.svc.Send(b, a.ID, "from b two")
	require.NoError(t, err)
	_, err = f.svc.Send(a, c.ID, "to c")
	require.NoError(t, err)

	conversations, err := f.svc.Conversations(a.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	byUser := make(map[uuid.UUID]messaging.Conversation)
	for _, conv := range conversations {
		byUser[conv.UserID] = conv
	}

	withB := byUser[b.ID]
	assert.Equal(t, "from b two", withB.LastMessage)
	assert.False(t, withB.LastFromMe)
	assert.Equal(t, int64(2), withB.UnreadCount)

	withC := byUser[c.ID]
	assert.Equal(t, "to c", withC.LastMessage)
	assert.True(t, withC.LastFromMe)
	assert.Zero(t, withC.UnreadCount)
}
