package profiles

import (
	"time"

	"github.com/google/uuid"
	"github.com/lakkilakshman/matrimony-sub000/internal/models"
	"gorm.io/gorm"
)

// Profile lifecycle: created pending at registration, moved to verified or
// rejected only by an administrator.
const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

// Profile is the matrimony listing, 1:1 with a user account. Seq feeds the
// human-readable matrimony ID (prefix + offset + seq) and is assigned once
// at creation.
type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	MatrimonyID string    `gorm:"size:20;not null;uniqueIndex" json:"matrimony_id"`
	Seq         int64     `gorm:"not null;index" json:"-"`

	FirstName     string    `gorm:"size:100;not null" json:"first_name"`
	LastName      string    `gorm:"size:100" json:"last_name"`
	Gender        string    `gorm:"size:10;not null" json:"gender"`
	DateOfBirth   time.Time `json:"date_of_birth"`
	MaritalStatus string    `gorm:"size:30" json:"marital_status"`

	HeightCM   int    `json:"height_cm"`
	WeightKG   int    `json:"weight_kg"`
	Complexion string `gorm:"size:30" json:"complexion"`

	Religion string `gorm:"size:50;index" json:"religion"`
	Caste    string `gorm:"size:50;index" json:"caste"`

	Education    string `gorm:"size:100" json:"education"`
	Occupation   string `gorm:"size:100" json:"occupation"`
	AnnualIncome string `gorm:"size:50" json:"annual_income"`

	// Astrology attributes.
	Star       string `gorm:"size:50" json:"star"`
	Rasi       string `gorm:"size:50" json:"rasi"`
	BirthTime  string `gorm:"size:20" json:"birth_time"`
	BirthPlace string `gorm:"size:100" json:"birth_place"`

	About string `gorm:"type:text" json:"about"`

	// Contact fields, redacted unless the viewer passes the subscription gate.
	Phone   string `gorm:"size:20" json:"phone,omitempty"`
	Address string `gorm:"size:255" json:"address,omitempty"`
	City    string `gorm:"size:100" json:"city"`
	State   string `gorm:"size:100" json:"state"`
	Country string `gorm:"size:100" json:"country"`

	Status   string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Featured bool   `gorm:"default:false;index" json:"featured"`

	// Denormalized URL of the primary photo, nil when no photos remain.
	PrimaryPhotoURL *string `gorm:"column:profile_photo" json:"profile_photo"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	User      models.User    `gorm:"foreignKey:UserID" json:"-"`
}

// Age derives the profile holder's age from the stored date of birth.
func (p *Profile) Age(now time.Time) int {
	age := now.Year() - p.DateOfBirth.Year()
	if now.YearDay() < p.DateOfBirth.YearDay() {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// ProfilePhoto belongs to a profile's gallery. Exactly one photo per profile
// is primary at any time; the swap happens inside a transaction.
type ProfilePhoto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"`
	URL       string    `gorm:"type:text;not null" json:"url"`
	IsPrimary bool      `gorm:"default:false" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

// --- DTOs ---

// UpdateProfileRequest uses pointers so absent fields leave stored values
// untouched.
type UpdateProfileRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	MaritalStatus *string `json:"marital_status"`
	HeightCM      *int    `json:"height_cm"`
	WeightKG      *int    `json:"weight_kg"`
	Complexion    *string `json:"complexion"`
	Religion      *string `json:"religion"`
	Caste         *string `json:"caste"`
	Education     *string `json:"education"`
	Occupation    *string `json:"occupation"`
	AnnualIncome  *string `json:"annual_income"`
	Star          *string `json:"star"`
	Rasi          *string `json:"rasi"`
	BirthTime     *string `json:"birth_time"`
	BirthPlace    *string `json:"birth_place"`
	About         *string `json:"about"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	Country       *string `json:"country"`
}

type AddPhotoRequest struct {
	URL string `json:"url"`
}

type RejectProfileRequest struct {
	Reason string `json:"reason"`
}

type FeatureProfileRequest struct {
	Featured bool `json:"featured"`
}

// View is a profile as seen by a particular viewer: contact fields present
// only when the subscription gate allows.
type View struct {
	Profile
	Age            int  `json:"age"`
	ContactVisible bool `json:"contact_visible"`
}

// Card is the condensed listing used in search results and interest lists.
type Card struct {
	ProfileID   uuid.UUID `json:"profile_id"`
	MatrimonyID string    `json:"matrimony_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Gender      string    `json:"gender"`
	Age         int       `json:"age"`
	Religion    string    `json:"religion"`
	Caste       string    `json:"caste"`
	City        string    `json:"city"`
	Featured    bool      `json:"featured"`
	PhotoURL    *string   `json:"photo_url"`
}

func NewCard(p *Profile) Card {
	return Card{
		ProfileID:   p.ID,
		MatrimonyID: p.MatrimonyID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Gender:      p.Gender,
		Age:         p.Age(time.Now()),
		Religion:    p.Religion,
		Caste:       p.Caste,
		City:        p.City,
		Featured:    p.Featured,
		PhotoURL:    p.PrimaryPhotoURL,
	}
}

type SearchFilters struct {
	Gender        string
	Religion      string
	Caste         string
	MaritalStatus string
	MinAge        int
	MaxAge        int
	Limit         int
	Offset        int
}
