package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/we4us/platform/pkg/matching"
)

// Directory adapts the user store to the matcher's data-access contract.
type Directory struct {
	repo *Repository
}

func NewDirectory(repo *Repository) *Directory {
	return &Directory{repo: repo}
}

// GetPatientRecord builds the raw clinical record for a user. Patients
// without a stored clinical profile map to matching.ErrNotFound so the
// caller can prompt them to complete their profile; caregivers have no
// clinical profile and match on user type alone.
func (d *Directory) GetPatientRecord(ctx context.Context, userID uuid.UUID) (matching.PatientRecord, error) {
	user, err := d.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return matching.PatientRecord{}, matching.ErrNotFound
		}
		return matching.PatientRecord{}, err
	}

	record := matching.PatientRecord{UserType: user.UserType}

	profile, err := d.repo.GetPatientProfile(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		if user.UserType == "patient" {
			return matching.PatientRecord{}, matching.ErrNotFound
		}
		return record, nil
	}
	if err != nil {
		return matching.PatientRecord{}, err
	}

	record.MgmtStatus = profile.MgmtStatus
	record.IdhStatus = profile.IdhStatus
	record.AgeAtDiagnosis = profile.AgeAtDiagnosis
	record.KarnofskyScore = profile.KarnofskyScore
	record.CurrentTreatmentPhase = profile.CurrentTreatmentPhase
	record.TimeSinceDiagnosis = profile.TimeSinceDiagnosis
	return record, nil
}

// ListConsentingCandidates returns one page of the candidate pool:
// consenting active users in stable order, each with whatever clinical data
// they have stored. A candidate without a profile still yields a well-formed
// record (defaults apply at encoding) and simply scores accordingly. The
// matcher pages through until a short page, so every consenting user is
// scored.
func (d *Directory) ListConsentingCandidates(ctx context.Context, excludeUserID uuid.UUID, offset, limit int) ([]matching.CandidateRecord, error) {
	candidates, err := d.repo.ListConsentingUsers(ctx, excludeUserID, offset, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	profiles, err := d.repo.ProfilesByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	records := make([]matching.CandidateRecord, 0, len(candidates))
	for _, c := range candidates {
		record := matching.PatientRecord{UserType: c.UserType}
		if profile, ok := profiles[c.ID]; ok {
			record.MgmtStatus = profile.MgmtStatus
			record.IdhStatus = profile.IdhStatus
			record.AgeAtDiagnosis = profile.AgeAtDiagnosis
			record.KarnofskyScore = profile.KarnofskyScore
			record.CurrentTreatmentPhase = profile.CurrentTreatmentPhase
			record.TimeSinceDiagnosis = profile.TimeSinceDiagnosis
		}
		records = append(records, matching.CandidateRecord{
			UserID:  c.ID,
			Record:  record,
			Consent: c.ShareWithCommunity,
		})
	}
	return records, nil
}

func (d *Directory) GetDisplayInfo(ctx context.Context, userID uuid.UUID) (matching.DisplayInfo, error) {
	user, err := d.repo.FindByID(ctx, userID)
	if err != nil {
		return matching.DisplayInfo{}, err
	}

	info := matching.DisplayInfo{Name: user.ResolvedDisplayName()}
	if profile, err := d.repo.GetPatientProfile(ctx, userID); err == nil {
		info.CurrentPhase = profile.CurrentTreatmentPhase
	}
	return info, nil
}
