package users

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex"`
	PasswordHash string
	UserType     string `gorm:"size:20;index"` // patient, caregiver

	FirstName   string
	LastName    string
	Username    *string `gorm:"uniqueIndex"`
	DisplayName string
	Age         *int
	Gender      string `gorm:"size:20"`
	AvatarURL   string

	Archetype         string `gorm:"size:50"`
	DiagnosisTimeline string `gorm:"size:30"`

	OnboardingCompleted bool `gorm:"default:false"`
	OnboardingStep      int  `gorm:"default:0"`

	// ShareWithCommunity doubles as the matching consent flag.
	ShareWithCommunity bool `gorm:"default:true"`
	ShareForResearch   bool `gorm:"default:false"`

	IsActive     bool `gorm:"default:true"`
	IsMemorial   bool `gorm:"default:false"`
	MemorialDate *time.Time

	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
}

func (User) TableName() string {
	return "users"
}

type PatientProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex"`

	DiagnosisDate         *time.Time
	TimeSinceDiagnosis    string `gorm:"size:50"`
	MgmtStatus            string `gorm:"size:20"`
	IdhStatus             string `gorm:"size:20"`
	CurrentTreatmentPhase string `gorm:"size:50"`
	KarnofskyScore        *int
	AgeAtDiagnosis        *int
	TreatingInstitution   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

func (u *User) ResolvedDisplayName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "Anonymous"
}
