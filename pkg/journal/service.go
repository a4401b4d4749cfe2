package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/we4us/platform/pkg/common/models"
)

var (
	ErrInvalidMood  = errors.New("invalid mood")
	ErrInvalidLevel = errors.New("symptom levels must be between 1 and 10")
	ErrEmptyContent = errors.New("entry content is required")
)

const dateLayout = "2006-01-02"

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListEntries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Entry, int64, error) {
	return s.repo.ListEntries(ctx, userID, limit, offset)
}

func (s *Service) GetEntry(ctx context.Context, userID, entryID uuid.UUID) (*Entry, error) {
	return s.repo.GetEntry(ctx, userID, entryID)
}

func (s *Service) CreateEntry(ctx context.Context, userID uuid.UUID, req models.CreateJournalEntryRequest) (*Entry, error) {
	if req.Content == "" {
		return nil, ErrEmptyContent
	}
	if req.Mood != "" && !ValidMoods[req.Mood] {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMood, req.Mood)
	}

	entry := &Entry{
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		Mood:      req.Mood,
		IsPrivate: true,
	}
	if req.IsPrivate != nil {
		entry.IsPrivate = *req.IsPrivate
	}
	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) UpdateEntry(ctx context.Context, userID, entryID uuid.UUID, req models.UpdateJournalEntryRequest) (*Entry, error) {
	entry, err := s.repo.GetEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Content != nil {
		if *req.Content == "" {
			return nil, ErrEmptyContent
		}
		entry.Content = *req.Content
	}
	if req.Mood != nil {
		if *req.Mood != "" && !ValidMoods[*req.Mood] {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMood, *req.Mood)
		}
		entry.Mood = *req.Mood
	}
	if req.IsPrivate != nil {
		entry.IsPrivate = *req.IsPrivate
	}
	if err := s.repo.SaveEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	entry, err := s.repo.GetEntry(ctx, userID, entryID)
	if err != nil {
		return err
	}
	return s.repo.DeleteEntry(ctx, entry)
}

// TodayCheckin returns nil without error when the user has not checked in yet
// today.
func (s *Service) TodayCheckin(ctx context.Context, userID uuid.UUID) (*Checkin, error) {
	checkin, err := s.repo.GetCheckin(ctx, userID, time.Now().UTC().Format(dateLayout))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return checkin, err
}

// SaveCheckin writes today's check-in, replacing an earlier one for the same
// day so a user can revise their scores.
func (s *Service) SaveCheckin(ctx context.Context, userID uuid.UUID, req models.SaveCheckinRequest) (*Checkin, error) {
	for _, level := range []int{req.EnergyLevel, req.PainLevel, req.MoodLevel, req.CognitiveClarity} {
		if level < 1 || level > 10 {
			return nil, ErrInvalidLevel
		}
	}

	today := time.Now().UTC().Format(dateLayout)
	checkin, err := s.repo.GetCheckin(ctx, userID, today)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		checkin = &Checkin{UserID: userID, Date: today}
	} else if err != nil {
		return nil, err
	}

	checkin.EnergyLevel = req.EnergyLevel
	checkin.PainLevel = req.PainLevel
	checkin.MoodLevel = req.MoodLevel
	checkin.CognitiveClarity = req.CognitiveClarity
	checkin.Notes = req.Notes

	if err := s.repo.SaveCheckin(ctx, checkin); err != nil {
		return nil, err
	}
	return checkin, nil
}

func (s *Service) CheckinHistory(ctx context.Context, userID uuid.UUID, days int) ([]Checkin, error) {
	if days <= 0 {
		days = 30
	}
	start := time.Now().UTC().AddDate(0, 0, -days).Format(dateLayout)
	return s.repo.ListCheckinsSince(ctx, userID, start)
}

func (s *Service) SymptomTrends(ctx context.Context, userID uuid.UUID, days int) (models.SymptomTrends, error) {
	if days <= 0 {
		days = 30
	}
	checkins, err := s.CheckinHistory(ctx, userID, days)
	if err != nil {
		return models.SymptomTrends{}, err
	}
	return ComputeTrends(checkins, days), nil
}
