package entities

import (
	"time"

	"github.com/best-koder-ever/matchmaking-service/internal/domain/valueobjects"
)

// Profile is one active account's matching-relevant facts: demographics,
// preferences, lifestyle flags and the per-user scoring weights that the
// compatibility scorer combines with. Exactly one Profile exists per userId.
type Profile struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"uniqueIndex;not null"`

	Gender    valueobjects.Gender `gorm:"type:varchar(20);not null"`
	Age       int                 `gorm:"not null"`
	Latitude  float64             `gorm:"column:lat"`
	Longitude float64             `gorm:"column:lon"`
	City      string              `gorm:"size:100"`
	Country   string              `gorm:"size:100"`

	PreferredGender valueobjects.PreferredGender `gorm:"type:varchar(20);not null"`
	MinAge          int                          `gorm:"not null;default:18"`
	MaxAge          int                          `gorm:"not null;default:99"`
	MaxDistanceKm   float64                      `gorm:"not null;default:50"`
	LookingFor      string                       `gorm:"size:50"`

	WantsChildren  *bool                        `gorm:""`
	HasChildren    *bool                        `gorm:""`
	SmokingStatus  valueobjects.SmokingStatus   `gorm:"type:varchar(20)"`
	DrinkingStatus valueobjects.DrinkingStatus  `gorm:"type:varchar(20)"`
	Religion       string                       `gorm:"size:50"`
	Education      valueobjects.EducationLevel  `gorm:"type:varchar(20)"`
	Interests      valueobjects.StringSet       `gorm:"serializer:json"`

	LocationWeight  float64 `gorm:"not null;default:1.0"`
	AgeWeight       float64 `gorm:"not null;default:1.0"`
	InterestsWeight float64 `gorm:"not null;default:1.0"`
	EducationWeight float64 `gorm:"not null;default:0.5"`
	LifestyleWeight float64 `gorm:"not null;default:1.0"`

	IsActive          bool      `gorm:"not null;default:true"`
	IsVerified        bool      `gorm:"not null;default:false"`
	DesirabilityScore float64   `gorm:"not null;default:50"`
	LastActiveAt      time.Time `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Profile) TableName() string { return "profiles" }

// HasLocation reports whether the profile carries a usable coordinate pair.
func (p *Profile) HasLocation() bool {
	return p.Latitude != 0 || p.Longitude != 0
}

// Deactivate soft-deletes the profile (isActive=false). Hard deletion and the
// Match/UserInteraction cascade are driven by the account-delete use case,
// not by this method.
func (p *Profile) Deactivate() {
	p.IsActive = false
}

// AcceptsGender reports whether this profile's preferredGender admits the
// given candidate gender, honoring the "everyone" synonyms.
func (p *Profile) AcceptsGender(candidateGender valueobjects.Gender) bool {
	if p.PreferredGender.IsEveryone() {
		return true
	}
	return string(p.PreferredGender) == string(candidateGender)
}

// AgeAccepts reports whether age falls within [MinAge, MaxAge] inclusive.
func (p *Profile) AgeAccepts(age int) bool {
	return age >= p.MinAge && age <= p.MaxAge
}

// ClampWeights guards against negative per-user weights leaking into the
// scorer; weights are otherwise unconstrained non-negative doubles per the
// data model.
func (p *Profile) ClampWeights() {
	if p.LocationWeight < 0 {
		p.LocationWeight = 0
	}
	if p.AgeWeight < 0 {
		p.AgeWeight = 0
	}
	if p.InterestsWeight < 0 {
		p.InterestsWeight = 0
	}
	if p.EducationWeight < 0 {
		p.EducationWeight = 0
	}
	if p.LifestyleWeight < 0 {
		p.LifestyleWeight = 0
	}
}
