package moderation_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lakkilakshman/matrimony-sub000/internal/dto"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
	"github.com/lakkilakshman/matrimony-sub000/internal/moderation"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Report{}, &models.Block{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestContentFilter(t *testing.T) {
	f := moderation.NewContentFilter()

	cases := []struct {
		text   string
		ok     bool
		reason string
	}{
		{"Looking forward to hearing from you", true, ""},
		{"", true, ""},
		{"this is bullshit", false, "inappropriate_language"},
		{"visit www.example.com for photos", false, "url_not_allowed"},
		{"write to me at someone@example.com", false, "contact_info_not_allowed"},
		{"call 987-654-3210 anytime", false, "contact_info_not_allowed"},
		{"hellooooo!!!!", false, "spam_detected"},
	}

	for _, tc := range cases {
		ok, reason := f.Check(tc.text)
		assert.Equal(t, tc.ok, ok, "text: %q", tc.text)
		assert.Equal(t, tc.reason, reason, "text: %q", tc.text)
	}
}

func TestCreateAndActionReport(t *testing.T) {
	db := setupTestDB(t)
	svc := moderation.NewService(db)
	reporter := uuid.New()

	report, err := svc.CreateReport(reporter, &dto.CreateReportRequest{
		ContentType: "profile",
		ContentID:   uuid.New().String(),
		Reason:      "fake photos",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", report.Status)

	// invalid inputs
	_, err = svc.CreateReport(reporter, &dto.CreateReportRequest{ContentType: "video", Reason: "x"})
	assert.Error(t, err)
	_, err = svc.CreateReport(reporter, &dto.CreateReportRequest{ContentType: "photo", Reason: "  "})
	assert.Error(t, err)

	require.NoError(t, svc.ActionReport(report.ID, &dto.ActionReportRequest{
		Status: "dismissed", AdminNote: "photos match",
	}))

	reports, total, err := svc.ListReports("dismissed", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, reports, 1)
	assert.Equal(t, "photos match", reports[0].AdminNote)

	err = svc.ActionReport(uuid.New(), &dto.ActionReportRequest{Status: "reviewed"})
	assert.ErrorIs(t, err, moderation.ErrReportNotFound)
}

func TestBlockUser(t *testing.T) {
	db := setupTestDB(t)
	svc := moderation.NewService(db)
	a, b := uuid.New(), uuid.New()

	assert.ErrorIs(t, svc.BlockUser(a, a), moderation.ErrSelfBlock)

	require.NoError(t, svc.BlockUser(a, b))
	assert.ErrorIs(t, svc.BlockUser(a, b), moderation.ErrAlreadyBlocked)

	// blocks apply in both directions
	blocked, err := svc.IsBlocked(a, b)
	require.NoError(t, err)
	assert.True(t, blocked)
	blocked, err = svc.IsBlocked(b, a)
	require.NoError(t, err)
	assert.True(t, blocked)

	ids, err := svc.GetBlockedIDs(a)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b}, ids)

	require.NoError(t, svc.UnblockUser(a, b))
	blocked, err = svc.IsBlocked(a, b)
	require.NoError(t, err)
	assert.False(t, blocked)
}
