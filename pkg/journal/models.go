package journal

import (
	"time"

	"github.com/google/uuid"
)

// Moods a journal entry can carry.
var ValidMoods = map[string]bool{
	"great":     true,
	"good":      true,
	"okay":      true,
	"difficult": true,
	"rough":     true,
}

type Entry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index"`
	Title     string    `gorm:"size:255"`
	Content   string    `gorm:"type:text"`
	Mood      string    `gorm:"size:20"`
	IsPrivate bool      `gorm:"default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Entry) TableName() string {
	return "journal_entries"
}

// Checkin is the daily symptom check-in, one row per user per calendar day.
// Levels are 1-10 self-reported scores.
type Checkin struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;index:idx_checkin_user_date,unique"`
	Date             string    `gorm:"size:10;index:idx_checkin_user_date,unique"` // YYYY-MM-DD
	EnergyLevel      int
	PainLevel        int
	MoodLevel        int
	CognitiveClarity int
	Notes            string `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Checkin) TableName() string {
	return "daily_checkins"
}
