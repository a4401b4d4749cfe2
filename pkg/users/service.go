package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/we4us/platform/pkg/common/kafka"
	"github.com/we4us/platform/pkg/common/logger"
	"github.com/we4us/platform/pkg/common/models"
)

// VectorInvalidator drops a user's cached match vector after a profile
// change. Implemented by the matching service.
type VectorInvalidator interface {
	InvalidateVector(ctx context.Context, userID uuid.UUID) error
}

type Service struct {
	repo     *Repository
	producer *kafka.Producer
	vectors  VectorInvalidator
}

func NewService(repo *Repository, producer *kafka.Producer, vectors VectorInvalidator) *Service {
	return &Service{repo: repo, producer: producer, vectors: vectors}
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, email, userType, passwordHash string) (*User, error) {
	return s.repo.Create(ctx, email, userType, passwordHash)
}

func (s *Service) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	return s.repo.TouchLastLogin(ctx, userID)
}

func (s *Service) IsUsernameAvailable(ctx context.Context, username string, excludeUserID uuid.UUID) (bool, error) {
	taken, err := s.repo.UsernameTaken(ctx, username, excludeUserID)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// UpdateProfile applies the non-nil fields of the request to the user.
// Username changes are checked for uniqueness first.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req models.UpdateProfileRequest) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != "" {
		taken, err := s.repo.UsernameTaken(ctx, *req.Username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUsernameTaken
		}
		user.Username = req.Username
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Age != nil {
		user.Age = req.Age
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.ShareWithCommunity != nil {
		user.ShareWithCommunity = *req.ShareWithCommunity
	}
	if req.ShareForResearch != nil {
		user.ShareForResearch = *req.ShareForResearch
	}

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.notifyProfileChanged(ctx, userID)
	return user, nil
}

func (s *Service) GetPatientProfile(ctx context.Context, userID uuid.UUID) (*PatientProfile, error) {
	return s.repo.GetPatientProfile(ctx, userID)
}

// UpdatePatientProfile upserts the clinical profile and invalidates the
// cached match vector, since the vector is derived from these fields.
func (s *Service) UpdatePatientProfile(ctx context.Context, userID uuid.UUID, req models.UpdatePatientProfileRequest) (*PatientProfile, error) {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := s.repo.UpsertPatientProfile(ctx, userID, func(p *PatientProfile) {
		if req.DiagnosisDate != nil {
			p.DiagnosisDate = req.DiagnosisDate
		}
		if req.TimeSinceDiagnosis != nil {
			p.TimeSinceDiagnosis = *req.TimeSinceDiagnosis
		}
		if req.MgmtStatus != nil {
			p.MgmtStatus = *req.MgmtStatus
		}
		if req.IdhStatus != nil {
			p.IdhStatus = *req.IdhStatus
		}
		if req.CurrentTreatmentPhase != nil {
			p.CurrentTreatmentPhase = *req.CurrentTreatmentPhase
		}
		if req.KarnofskyScore != nil {
			p.KarnofskyScore = req.KarnofskyScore
		}
		if req.AgeAtDiagnosis != nil {
			p.AgeAtDiagnosis = req.AgeAtDiagnosis
		}
		if req.TreatingInstitution != nil {
			p.TreatingInstitution = *req.TreatingInstitution
		}
	})
	if err != nil {
		return nil, err
	}

	s.notifyProfileChanged(ctx, userID)
	return profile, nil
}

// CompleteOnboarding writes the collected wizard answers onto the user and,
// for patients with medical info, upserts the clinical profile.
func (s *Service) CompleteOnboarding(ctx context.Context, userID uuid.UUID, req models.CompleteOnboardingRequest) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.UsernameTaken(ctx, req.Username, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	username := req.Username
	user.Username = &username
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	} else {
		user.DisplayName = req.FirstName
	}
	user.Age = req.Age
	user.Gender = req.Gender
	user.Archetype = req.Archetype
	user.DiagnosisTimeline = req.DiagnosisTimeline
	if req.ShareWithCommunity != nil {
		user.ShareWithCommunity = *req.ShareWithCommunity
	}
	if req.ShareForResearch != nil {
		user.ShareForResearch = *req.ShareForResearch
	}
	user.OnboardingCompleted = true

	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	if user.UserType == "patient" && (req.MgmtStatus != "" || req.TreatmentPhase != "" || req.AgeAtDiagnosis != nil || req.KarnofskyScore != nil) {
		_, err := s.repo.UpsertPatientProfile(ctx, userID, func(p *PatientProfile) {
			if req.MgmtStatus != "" {
				p.MgmtStatus = req.MgmtStatus
			}
			if req.TreatmentPhase != "" {
				p.CurrentTreatmentPhase = req.TreatmentPhase
			}
			if req.DiagnosisTimeline != "" {
				p.TimeSinceDiagnosis = req.DiagnosisTimeline
			}
			if req.IdhStatus != nil {
				p.IdhStatus = *req.IdhStatus
			}
			if req.AgeAtDiagnosis != nil {
				p.AgeAtDiagnosis = req.AgeAtDiagnosis
			}
			if req.KarnofskyScore != nil {
				p.KarnofskyScore = req.KarnofskyScore
			}
		})
		if err != nil {
			return nil, err
		}
	}

	s.notifyProfileChanged(ctx, userID)
	return user, nil
}

func (s *Service) SetOnboardingStep(ctx context.Context, userID uuid.UUID, step int) error {
	return s.repo.SetOnboardingStep(ctx, userID, step)
}

func (s *Service) notifyProfileChanged(ctx context.Context, userID uuid.UUID) {
	if s.vectors != nil {
		if err := s.vectors.InvalidateVector(ctx, userID); err != nil {
			logger.Log.WithError(err).WithField("user_id", userID).Warn("failed to invalidate match vector")
		}
	}
	if s.producer != nil {
		payload := map[string]interface{}{"user_id": userID.String()}
		if err := s.producer.PublishEvent(ctx, "profile_updated", "users-service", payload); err != nil {
			logger.Log.WithError(err).Warn("failed to publish profile event")
		}
	}
}

func (s *Service) Sanitize(user *User) models.UserSummary {
	summary := models.UserSummary{
		ID:                  user.ID,
		Email:               user.Email,
		DisplayName:         user.DisplayName,
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		Age:                 user.Age,
		Gender:              user.Gender,
		UserType:            user.UserType,
		Archetype:           user.Archetype,
		OnboardingCompleted: user.OnboardingCompleted,
		CreatedAt:           user.CreatedAt,
	}
	if user.Username != nil {
		summary.Username = *user.Username
	}
	return summary
}

func (s *Service) PublicProfile(user *User) models.PublicProfile {
	profile := models.PublicProfile{
		ID:          user.ID,
		DisplayName: user.ResolvedDisplayName(),
		UserType:    user.UserType,
		Archetype:   user.Archetype,
		AvatarURL:   user.AvatarURL,
		IsMemorial:  user.IsMemorial,
		CreatedAt:   user.CreatedAt,
	}
	if user.Username != nil {
		profile.Username = *user.Username
	}
	return profile
}

// AuthorSummaries resolves display information for a batch of user ids, for
// attributing community content. Missing or deactivated users come back as
// anonymous rather than being dropped.
func (s *Service) AuthorSummaries(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]models.AuthorSummary, error) {
	userMap, err := s.repo.UsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	summaries := make(map[uuid.UUID]models.AuthorSummary, len(userIDs))
	for _, id := range userIDs {
		summary := models.AuthorSummary{ID: id, DisplayName: "Anonymous"}
		if user, ok := userMap[id]; ok {
			summary.DisplayName = user.ResolvedDisplayName()
			summary.UserType = user.UserType
			summary.DiagnosisTimeline = user.DiagnosisTimeline
		}
		summaries[id] = summary
	}
	return summaries, nil
}
