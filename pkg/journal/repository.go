package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEntryNotFound = errors.New("journal entry not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Entry{}, &Checkin{})
}

func (r *Repository) ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Entry, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&Entry{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []Entry
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries)
	return entries, total, result.Error
}

// GetEntry enforces ownership: an entry belonging to another user behaves as
// not found.
func (r *Repository) GetEntry(ctx context.Context, userID, entryID uuid.UUID) (*Entry, error) {
	var entry Entry
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", entryID, userID).
		First(&entry)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrEntryNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}

func (r *Repository) CreateEntry(ctx context.Context, entry *Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *Repository) SaveEntry(ctx context.Context, entry *Entry) error {
	entry.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *Repository) DeleteEntry(ctx context.Context, entry *Entry) error {
	return r.db.WithContext(ctx).Delete(entry).Error
}

func (r *Repository) GetCheckin(ctx context.Context, userID uuid.UUID, date string) (*Checkin, error) {
	var checkin Checkin
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&checkin)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, gorm.ErrRecordNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &checkin, nil
}

func (r *Repository) SaveCheckin(ctx context.Context, checkin *Checkin) error {
	now := time.Now().UTC()
	if checkin.ID == uuid.Nil {
		checkin.ID = uuid.New()
		checkin.CreatedAt = now
	}
	checkin.UpdatedAt = now
	return r.db.WithContext(ctx).Save(checkin).Error
}

func (r *Repository) ListCheckinsSince(ctx context.Context, userID uuid.UUID, startDate string) ([]Checkin, error) {
	var checkins []Checkin
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, startDate).
		Order("date DESC").
		Find(&checkins)
	return checkins, result.Error
}
