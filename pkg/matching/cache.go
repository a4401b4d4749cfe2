package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/we4us/platform/pkg/common/logger"
)

// VectorCache keeps encoded feature vectors in Redis so a match request does
// not re-encode every candidate on every call. Vectors are a deterministic
// function of the profile, so entries are invalidated whenever the profile
// changes and otherwise expire on TTL.
type VectorCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewVectorCache(client *redis.Client, ttl time.Duration) *VectorCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &VectorCache{client: client, ttl: ttl}
}

func vectorKey(userID uuid.UUID) string {
	return fmt.Sprintf("matchvec:%s", userID)
}

func (c *VectorCache) Get(ctx context.Context, userID uuid.UUID) (FeatureVector, bool) {
	if c == nil || c.client == nil {
		return FeatureVector{}, false
	}

	data, err := c.client.Get(ctx, vectorKey(userID)).Bytes()
	if err != nil {
		return FeatureVector{}, false
	}

	var vector FeatureVector
	if err := json.Unmarshal(data, &vector); err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Warn("corrupt cached vector, dropping")
		c.client.Del(ctx, vectorKey(userID))
		return FeatureVector{}, false
	}

	return vector, true
}

func (c *VectorCache) Put(ctx context.Context, userID uuid.UUID, vector FeatureVector) error {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := json.Marshal(vector)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, vectorKey(userID), data, c.ttl).Err()
}

func (c *VectorCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, vectorKey(userID)).Err()
}
