package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("patient profile not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username is already taken")
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&User{}, &PatientProfile{})
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	var user User
	result := r.db.WithContext(ctx).Where("email = ?", normalized).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	result := r.db.WithContext(ctx).Where("username = ?", username).First(&user)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *Repository) Create(ctx context.Context, email, userType, passwordHash string) (*User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	var existing int64
	if err := r.db.WithContext(ctx).Model(&User{}).Where("email = ?", normalized).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrEmailAlreadyExists
	}

	now := time.Now().UTC()
	user := User{
		ID:                 uuid.New(),
		Email:              normalized,
		PasswordHash:       passwordHash,
		UserType:           userType,
		ShareWithCommunity: true,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := r.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameTaken reports whether another user already owns the username.
func (r *Repository) UsernameTaken(ctx context.Context, username string, excludeUserID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&User{}).Where("username = ?", username)
	if excludeUserID != uuid.Nil {
		query = query.Where("id <> ?", excludeUserID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists field updates on an already-loaded user.
func (r *Repository) Save(ctx context.Context, user *User) error {
	user.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *Repository) SetOnboardingStep(ctx context.Context, userID uuid.UUID, step int) error {
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{"onboarding_step": step, "updated_at": time.Now().UTC()}).Error
}

func (r *Repository) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", userID).
		Update("last_login_at", now).Error
}

func (r *Repository) GetPatientProfile(ctx context.Context, userID uuid.UUID) (*PatientProfile, error) {
	var profile PatientProfile
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &profile, nil
}

// UpsertPatientProfile creates the profile row on first write and applies
// the non-nil fields on subsequent writes.
func (r *Repository) UpsertPatientProfile(ctx context.Context, userID uuid.UUID, apply func(*PatientProfile)) (*PatientProfile, error) {
	profile, err := r.GetPatientProfile(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		now := time.Now().UTC()
		profile = &PatientProfile{
			ID:        uuid.New(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		apply(profile)
		if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
			return nil, err
		}
		return profile, nil
	}
	if err != nil {
		return nil, err
	}

	apply(profile)
	profile.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// ListConsentingUsers returns one page of active users who opted into
// community sharing, excluding the given user. The order
// is stable (created_at, then id) so callers can page through the whole pool
// without skips or repeats.
func (r *Repository) ListConsentingUsers(ctx context.Context, excludeUserID uuid.UUID, offset, limit int) ([]User, error) {
	if limit <= 0 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	var candidates []User
	result := r.db.WithContext(ctx).
		Where("share_with_community = ? AND is_active = ? AND id <> ?", true, true, excludeUserID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&candidates)
	return candidates, result.Error
}

// ProfilesByUserIDs loads patient profiles for a candidate set in one query.
func (r *Repository) ProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*PatientProfile, error) {
	profiles := make(map[uuid.UUID]*PatientProfile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	var rows []PatientProfile
	result := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	for i := range rows {
		profiles[rows[i].UserID] = &rows[i]
	}
	return profiles, nil
}

// UsersByIDs loads a set of users in one query, keyed by id.
func (r *Repository) UsersByIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*User, error) {
	userMap := make(map[uuid.UUID]*User, len(userIDs))
	if len(userIDs) == 0 {
		return userMap, nil
	}

	var rows []User
	result := r.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	for i := range rows {
		userMap[rows[i].ID] = &rows[i]
	}
	return userMap, nil
}
