package mailer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lakkilakshman/matrimony-sub000/internal/mailer"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
)

type fakeMailer struct {
	sent []string
	err  error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.EmailOutbox{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestDispatchSendsDueRows(t *testing.T) {
	db := setupTestDB(t)
	fake := &fakeMailer{}
	d := mailer.NewDispatcher(db, fake, time.Second, 5)

	require.NoError(t, mailer.Queue(db, "a@test.com", "Hello", "body"))
	require.NoError(t, mailer.Queue(db, "b@test.com", "Hello", "body"))

	handled := d.DispatchDue(time.Now())
	assert.Equal(t, 2, handled)
	assert.ElementsMatch(t, []string{"a@test.com", "b@test.com"}, fake.sent)

	var row models.EmailOutbox
	require.NoError(t, db.First(&row, "recipient = ?", "a@test.com").Error)
	assert.Equal(t, models.OutboxSent, row.Status)
	assert.NotNil(t, row.SentAt)

	// nothing left to send
	assert.Zero(t, d.DispatchDue(time.Now()))
}

func TestDispatchRetriesWithBackoff(t *testing.T) {
	db := setupTestDB(t)
	fake := &fakeMailer{err: errors.New("smtp unreachable")}
	d := mailer.NewDispatcher(db, fake, time.Second, 5)

	require.NoError(t, mailer.Queue(db, "a@test.com", "Hello", "body"))

	now := time.Now()
	assert.Equal(t, 1, d.DispatchDue(now))

	var row models.EmailOutbox
	require.NoError(t, db.First(&row, "recipient = ?", "a@test.com").Error)
	assert.Equal(t, models.OutboxPending, row.Status)
	assert.Equal(t, 1, row.Attempts)
	assert.Equal(t, "smtp unreachable", row.LastError)
	assert.True(t, row.NextAttemptAt.After(now))

	// not due again until the backoff window passes
	assert.Zero(t, d.DispatchDue(now))
	assert.Equal(t, 1, d.DispatchDue(now.Add(time.Minute)))
}

func TestDispatchAbandonsAfterMaxAttempts(t *testing.T) {
	db := setupTestDB(t)
	fake := &fakeMailer{err: errors.New("smtp unreachable")}
	d := mailer.NewDispatcher(db, fake, time.Second, 3)

	require.NoError(t, mailer.Queue(db, "a@test.com", "Hello", "body"))

	now := time.Now()
	for i := 0; i < 3; i++ {
		// jump far past any backoff window
		now = now.Add(time.Hour)
		d.DispatchDue(now)
	}

	var row models.EmailOutbox
	require.NoError(t, db.First(&row, "recipient = ?", "a@test.com").Error)
	assert.Equal(t, models.OutboxFailed, row.Status)
	assert.Equal(t, 3, row.Attempts)

	// failed rows are never retried
	assert.Zero(t, d.DispatchDue(now.Add(24*time.Hour)))
}

func TestQueueRollsBackWithTransaction(t *testing.T) {
	db := setupTestDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := mailer.Queue(tx, "a@test.com", "Hello", "body"); err != nil {
			return err
		}
		return errors.New("primary change failed")
	})
	require.Error(t, err)

	var count int64
	db.Model(&models.EmailOutbox{}).Count(&count)
	assert.Zero(t, count)
}
