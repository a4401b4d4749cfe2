package matching

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Candidate pairs an encoded vector with the identity and consent flag of the
// user it was derived from.
type Candidate struct {
	UserID  uuid.UUID
	Vector  FeatureVector
	Consent bool
}

// MatchResult is ephemeral ranking output, computed per request and never
// persisted.
type MatchResult struct {
	UserID           uuid.UUID
	Score            float64
	SharedAttributes []string
}

// Engine ranks candidates by weighted cosine similarity. It holds only the
// immutable weight table and is safe for concurrent use.
type Engine struct {
	weights Weights
}

func NewEngine(weights Weights) *Engine {
	if weights.Validate() != nil {
		weights = DefaultWeights()
	}
	return &Engine{weights: weights}
}

// Similarity computes cosine similarity in the weighted inner-product space:
// each component is multiplied by its weight before the dot product and norms
// are accumulated. A zero-norm side yields 0, never NaN.
func (e *Engine) Similarity(u, v FeatureVector) float64 {
	uv := u.Values()
	vv := v.Values()
	wv := e.weights.Values()

	var dot, normU, normV float64
	for i := 0; i < NumFeatures; i++ {
		a := wv[i] * uv[i]
		b := wv[i] * vv[i]
		dot += a * b
		normU += a * a
		normV += b * b
	}

	if normU == 0 || normV == 0 {
		return 0
	}

	return dot / (math.Sqrt(normU) * math.Sqrt(normV))
}

// TopK returns the k most similar consenting candidates to the query vector,
// ranked descending by score with ties broken by user id ascending. The
// requester and non-consenting candidates are excluded before ranking, so
// exclusion never shrinks the result below k while eligible candidates
// remain. Inputs are not mutated.
func (e *Engine) TopK(query FeatureVector, requesterID uuid.UUID, candidates []Candidate, k int) []MatchResult {
	if k <= 0 {
		return nil
	}

	results := make([]MatchResult, 0, len(candidates))
	for _, c := range candidates {
		if !c.Consent || c.UserID == requesterID {
			continue
		}
		results = append(results, MatchResult{
			UserID:           c.UserID,
			Score:            e.Similarity(query, c.Vector),
			SharedAttributes: SharedAttributes(query, c.Vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].UserID.String() < results[j].UserID.String()
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}
