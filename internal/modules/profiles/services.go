package profiles

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lakkilakshman/matrimony-sub000/internal/config"
	"github.com/lakkilakshman/matrimony-sub000/internal/mailer"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
	"github.com/lakkilakshman/matrimony-sub000/internal/moderation"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/notifications"
	"github.com/lakkilakshman/matrimony-sub000/internal/modules/subscriptions"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrPhotoNotFound   = errors.New("photo not found")
	ErrNotOwner        = errors.New("you can only edit your own profile")
	ErrInvalidDOB      = errors.New("date_of_birth must be YYYY-MM-DD")
	ErrMissingFields   = errors.New("first_name, gender and date_of_birth are required")
)

type Service struct {
	db         *gorm.DB
	cfg        *config.Config
	notif      *notifications.Service
	moderation *moderation.Service
}

func NewService(db *gorm.DB, cfg *config.Config, notif *notifications.Service, mod *moderation.Service) *Service {
	return &Service{db: db, cfg: cfg, notif: notif, moderation: mod}
}

// CreateForUser creates the pending profile during registration, inside the
// caller's transaction, and assigns the matrimony ID from the next sequence
// value. Sequence gaps appear if profiles are ever hard-deleted; the ID is
// display-only so that is acceptable.
func (s *Service) CreateForUser(tx *gorm.DB, userID uuid.UUID, firstName, lastName, gender, dob string) (*Profile, error) {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(gender) == "" || strings.TrimSpace(dob) == "" {
		return nil, ErrMissingFields
	}

	dateOfBirth, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return nil, ErrInvalidDOB
	}

	var maxSeq int64
	if err := tx.Model(&Profile{}).Unscoped().
		Select("COALESCE(MAX(seq), 0)").Scan(&maxSeq).Error; err != nil {
		return nil, fmt.Errorf("failed to allocate matrimony id: %w", err)
	}
	seq := maxSeq + 1

	profile := Profile{
		ID:          uuid.New(),
		UserID:      userID,
		Seq:         seq,
		MatrimonyID: fmt.Sprintf("%s%d", s.cfg.MatrimonyIDPrefix, s.cfg.MatrimonyIDOffset+seq),
		FirstName:   firstName,
		LastName:    lastName,
		Gender:      strings.ToLower(gender),
		DateOfBirth: dateOfBirth,
		Status:      StatusPending,
	}

	if err := tx.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &profile, nil
}

func (s *Service) GetByUserID(userID uuid.UUID) (*Profile, error) {
	var profile Profile
	if err := s.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, ErrProfileNotFound
	}
	return &profile, nil
}

func (s *Service) GetByID(profileID uuid.UUID) (*Profile, error) {
	var profile Profile
	if err := s.db.First(&profile, "id = ?", profileID).Error; err != nil {
		return nil, ErrProfileNotFound
	}
	return &profile, nil
}

// Get returns the profile as the viewer may see it. Unverified profiles are
// visible only to their owner and admins; contact fields are redacted unless
// the subscription gate allows them.
func (s *Service) Get(viewer *models.User, profileID uuid.UUID) (*View, error) {
	profile, err := s.GetByID(profileID)
	if err != nil {
		return nil, err
	}

	isOwner := viewer != nil && viewer.ID == profile.UserID
	isAdmin := viewer != nil && viewer.Role == models.RoleAdmin
	if profile.Status != StatusVerified && !isOwner && !isAdmin {
		return nil, ErrProfileNotFound
	}

	now := time.Now()
	view := &View{
		Profile:        *profile,
		Age:            profile.Age(now),
		ContactVisible: subscriptions.CanViewContact(viewer, profile.UserID, now),
	}
	if !view.ContactVisible {
		view.Phone = ""
		view.Address = ""
	}
	return view, nil
}

// Update merges the patch additively: absent fields leave stored values
// untouched. Owner or admin only.
func (s *Service) Update(caller *models.User, profileID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	profile, err := s.GetByID(profileID)
	if err != nil {
		return nil, err
	}

	if caller.ID != profile.UserID && caller.Role != models.RoleAdmin {
		return nil, ErrNotOwner
	}

	if req.About != nil {
		if ok, reason := s.moderation.FilterContent(*req.About); !ok {
			return nil, errors.New(s.moderation.RejectionMessage(reason))
		}
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}

	applyString(&profile.FirstName, req.FirstName)
	applyString(&profile.LastName, req.LastName)
	applyString(&profile.MaritalStatus, req.MaritalStatus)
	applyInt(&profile.HeightCM, req.HeightCM)
	applyInt(&profile.WeightKG, req.WeightKG)
	applyString(&profile.Complexion, req.Complexion)
	applyString(&profile.Religion, req.Religion)
	applyString(&profile.Caste, req.Caste)
	applyString(&profile.Education, req.Education)
	applyString(&profile.Occupation, req.Occupation)
	applyString(&profile.AnnualIncome, req.AnnualIncome)
	applyString(&profile.Star, req.Star)
	applyString(&profile.Rasi, req.Rasi)
	applyString(&profile.BirthTime, req.BirthTime)
	applyString(&profile.BirthPlace, req.BirthPlace)
	applyString(&profile.About, req.About)
	applyString(&profile.Phone, req.Phone)
	applyString(&profile.Address, req.Address)
	applyString(&profile.City, req.City)
	applyString(&profile.State, req.State)
	applyString(&profile.Country, req.Country)

	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// Search returns verified profiles matching the filters, featured first,
// newest first.
func (s *Service) Search(filters SearchFilters) ([]Card, int64, error) {
	query := s.db.Model(&Profile{}).Where("status = ?", StatusVerified)

	if filters.Gender != "" {
		query = query.Where("gender = ?", strings.ToLower(filters.Gender))
	}
	if filters.Religion != "" {
		query = query.Where("religion = ?", filters.Religion)
	}
	if filters.Caste != "" {
		query = query.Where("caste = ?", filters.Caste)
	}
	if filters.MaritalStatus != "" {
		query = query.Where("marital_status = ?", filters.MaritalStatus)
	}

	now := time.Now()
	if filters.MinAge > 0 {
		query = query.Where("date_of_birth <= ?", now.AddDate(-filters.MinAge, 0, 0))
	}
	if filters.MaxAge > 0 {
		query = query.Where("date_of_birth > ?", now.AddDate(-filters.MaxAge-1, 0, 0))
	}

	var total int64
	query.Count(&total)

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []Profile
	err := query.Order("featured DESC, created_at DESC").
		Limit(limit).Offset(filters.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	cards := make([]Card, len(rows))
	for i := range rows {
		cards[i] = NewCard(&rows[i])
	}
	return cards, total, nil
}

// --- photos ---

func (s *Service) AddPhoto(caller *models.User, profileID uuid.UUID, url string) (*ProfilePhoto, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("url is required")
	}

	profile, err := s.GetByID(profileID)
	if err != nil {
		return nil, err
	}
	if caller.ID != profile.UserID && caller.Role != models.RoleAdmin {
		return nil, ErrNotOwner
	}

	photo := ProfilePhoto{
		ID:        uuid.New(),
		ProfileID: profile.ID,
		URL:       url,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&ProfilePhoto{}).Where("profile_id = ?", profile.ID).Count(&count)
		photo.IsPrimary = count == 0

		if err := tx.Create(&photo).Error; err != nil {
			return err
		}
		if photo.IsPrimary {
			return tx.Model(&Profile{}).Where("id = ?", profile.ID).
				Update("profile_photo", photo.URL).Error
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add photo: %w", err)
	}
	return &photo, nil
}

func (s *Service) Photos(profileID uuid.UUID) ([]ProfilePhoto, error) {
	var photos []ProfilePhoto
	err := s.db.Where("profile_id = ?", profileID).Order("created_at ASC").Find(&photos).Error
	return photos, err
}

// SetPrimaryPhoto resets every primary flag for the profile and sets the
// chosen one, in a single transaction so readers never observe two primaries.
func (s *Service) SetPrimaryPhoto(caller *models.User, profileID, photoID uuid.UUID) error {
	profile, err := s.GetByID(profileID)
	if err != nil {
		return err
	}
	if caller.ID != profile.UserID && caller.Role != models.RoleAdmin {
		return ErrNotOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var photo ProfilePhoto
		if err := tx.First(&photo, "id = ? AND profile_id = ?", photoID, profile.ID).Error; err != nil {
			return ErrPhotoNotFound
		}

		if err := tx.Model(&ProfilePhoto{}).Where("profile_id = ?", profile.ID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&ProfilePhoto{}).Where("id = ?", photo.ID).
			Update("is_primary", true).Error; err != nil {
			return err
		}
		return tx.Model(&Profile{}).Where("id = ?", profile.ID).
			Update("profile_photo", photo.URL).Error
	})
}

// DeletePhoto removes a photo. Deleting the primary promotes the next-oldest
// remaining photo, or clears the denormalized reference when none remain.
func (s *Service) DeletePhoto(caller *models.User, profileID, photoID uuid.UUID) error {
	profile, err := s.GetByID(profileID)
	if err != nil {
		return err
	}
	if caller.ID != profile.UserID && caller.Role != models.RoleAdmin {
		return ErrNotOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var photo ProfilePhoto
		if err := tx.First(&photo, "id = ? AND profile_id = ?", photoID, profile.ID).Error; err != nil {
			return ErrPhotoNotFound
		}

		if err := tx.Delete(&photo).Error; err != nil {
			return err
		}

		if !photo.IsPrimary {
			return nil
		}

		var next ProfilePhoto
		err := tx.Where("profile_id = ?", profile.ID).Order("created_at ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Model(&Profile{}).Where("id = ?", profile.ID).
				Update("profile_photo", nil).Error
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&ProfilePhoto{}).Where("id = ?", next.ID).
			Update("is_primary", true).Error; err != nil {
			return err
		}
		return tx.Model(&Profile{}).Where("id = ?", profile.ID).
			Update("profile_photo", next.URL).Error
	})
}

// --- admin ---

func (s *Service) ListByStatus(status string, limit, offset int) ([]Profile, int64, error) {
	var rows []Profile
	var total int64

	query := s.db.Model(&Profile{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	query.Count(&total)

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Verify marks the profile verified and notifies the owner.
func (s *Service) Verify(profileID uuid.UUID) error {
	return s.setStatus(profileID, StatusVerified, "")
}

// Reject marks the profile rejected with an optional reason.
func (s *Service) Reject(profileID uuid.UUID, reason string) error {
	return s.setStatus(profileID, StatusRejected, reason)
}

func (s *Service) setStatus(profileID uuid.UUID, status, reason string) error {
	profile, err := s.GetByID(profileID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Profile{}).Where("id = ?", profileID).
			Update("status", status).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, "id = ?", profile.UserID).Error; err != nil {
			return err
		}

		var typ, title, body, subject, emailBody string
		if status == StatusVerified {
			typ = notifications.TypeProfileVerified
			title = "Profile verified"
			body = "Your profile has been verified and is now visible to other members."
			subject, emailBody = mailer.ProfileVerifiedEmail(profile.FirstName)
		} else {
			typ = notifications.TypeProfileRejected
			title = "Profile not verified"
			body = "Your profile could not be verified. Please review and update it."
			subject, emailBody = mailer.ProfileRejectedEmail(profile.FirstName, reason)
		}

		if err := s.notif.Create(tx, user.ID, typ, title, body, &profile.ID); err != nil {
			return err
		}
		return mailer.Queue(tx, user.Email, subject, emailBody)
	})
}

func (s *Service) SetFeatured(profileID uuid.UUID, featured bool) error {
	result := s.db.Model(&Profile{}).Where("id = ?", profileID).Update("featured", featured)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// DisplayName is the name used in notifications and emails.
func (p *Profile) DisplayName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
