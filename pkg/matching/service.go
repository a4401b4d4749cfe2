package matching

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/we4us/platform/pkg/common/logger"
	"github.com/we4us/platform/pkg/common/models"
	"github.com/we4us/platform/pkg/observability/metrics"
)

// ErrNotFound signals that the requesting user has no stored patient record.
// It is never silently defaulted away: "no data" and "default-valued data"
// are different things for matching quality.
var ErrNotFound = errors.New("patient record not found")

// DisplayInfo is the presentation-only lookup for a matched user.
type DisplayInfo struct {
	Name         string
	CurrentPhase string
}

// CandidateRecord is one entry of the raw candidate pool.
type CandidateRecord struct {
	UserID  uuid.UUID
	Record  PatientRecord
	Consent bool
}

// PatientDirectory is the data-access collaborator the matcher reads from.
// Implementations must return ErrNotFound from GetPatientRecord when the
// user has no stored record. ListConsentingCandidates returns one page of
// the pool in a stable order; the matcher pages through until exhaustion, so
// every consenting candidate is scored no matter how large the pool grows.
type PatientDirectory interface {
	GetPatientRecord(ctx context.Context, userID uuid.UUID) (PatientRecord, error)
	ListConsentingCandidates(ctx context.Context, excludeUserID uuid.UUID, offset, limit int) ([]CandidateRecord, error)
	GetDisplayInfo(ctx context.Context, userID uuid.UUID) (DisplayInfo, error)
}

type Service struct {
	directory    PatientDirectory
	engine       *Engine
	cache        *VectorCache
	defaultLimit int
	poolBatch    int
}

// poolBatch bounds memory per directory read, never the number of candidates
// scored.
func NewService(directory PatientDirectory, engine *Engine, cache *VectorCache, defaultLimit, poolBatch int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	if poolBatch <= 0 {
		poolBatch = 1000
	}
	return &Service{
		directory:    directory,
		engine:       engine,
		cache:        cache,
		defaultLimit: defaultLimit,
		poolBatch:    poolBatch,
	}
}

// GetMatches returns the top-limit most similar consenting users for the
// requester. A non-positive limit coerces to the default. An empty candidate
// pool yields an empty list, not an error.
func (s *Service) GetMatches(ctx context.Context, userID uuid.UUID, limit int) ([]models.MatchView, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}

	record, err := s.directory.GetPatientRecord(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("requester %s: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	query := s.vectorFor(ctx, userID, record)

	// Page through the whole consenting pool; a truncated scan could drop
	// the best match.
	var candidates []Candidate
	for offset := 0; ; offset += s.poolBatch {
		page, err := s.directory.ListConsentingCandidates(ctx, userID, offset, s.poolBatch)
		if err != nil {
			return nil, err
		}
		for _, c := range page {
			candidates = append(candidates, Candidate{
				UserID:  c.UserID,
				Vector:  s.vectorFor(ctx, c.UserID, c.Record),
				Consent: c.Consent,
			})
		}
		if len(page) < s.poolBatch {
			break
		}
	}

	ranked := s.engine.TopK(query, userID, candidates, limit)
	metrics.IncMatchesComputed(len(ranked))

	views := make([]models.MatchView, 0, len(ranked))
	for _, match := range ranked {
		view := models.MatchView{
			UserID:           match.UserID,
			Name:             "Community member",
			Similarity:       math.Round(match.Score*100) / 100,
			SharedAttributes: match.SharedAttributes,
		}
		info, err := s.directory.GetDisplayInfo(ctx, match.UserID)
		if err != nil {
			logger.Log.WithError(err).WithField("user_id", match.UserID).Warn("display info lookup failed")
		} else {
			if info.Name != "" {
				view.Name = info.Name
			}
			view.Phase = PhaseLabel(info.CurrentPhase)
		}
		views = append(views, view)
	}

	return views, nil
}

// WarmVector encodes the user's current record into the cache. Used by the
// match worker after profile updates.
func (s *Service) WarmVector(ctx context.Context, userID uuid.UUID) error {
	record, err := s.directory.GetPatientRecord(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return s.cache.Invalidate(ctx, userID)
		}
		return err
	}
	return s.cache.Put(ctx, userID, Encode(record))
}

func (s *Service) InvalidateVector(ctx context.Context, userID uuid.UUID) error {
	return s.cache.Invalidate(ctx, userID)
}

func (s *Service) vectorFor(ctx context.Context, userID uuid.UUID, record PatientRecord) FeatureVector {
	if vector, ok := s.cache.Get(ctx, userID); ok {
		metrics.IncVectorCacheHit()
		return vector
	}
	metrics.IncVectorCacheMiss()

	vector := Encode(record)
	if err := s.cache.Put(ctx, userID, vector); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Debug("vector cache write failed")
	}
	return vector
}

// PhaseLabel turns a treatment phase key into a display string, e.g.
// "adjuvant_chemotherapy" -> "Adjuvant chemotherapy".
func PhaseLabel(phase string) string {
	if phase == "" {
		return ""
	}
	label := strings.ReplaceAll(phase, "_", " ")
	return strings.ToUpper(label[:1]) + label[1:]
}
