package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/property-monitor/internal/repository"
)

const seenKeyPrefix = "crawl:seen:"

// Sets expire on their own in case a cycle dies before Clear runs.
const seenSetTTL = 48 * time.Hour

// SeenRepoImpl provides a concrete implementation for the SeenRepository interface using Redis sets.
type SeenRepoImpl struct {
	client *redis.Client
}

// NewSeenRepo creates a new instance of SeenRepoImpl.
func NewSeenRepo(client *redis.Client) *SeenRepoImpl {
	return &SeenRepoImpl{client: client}
}

func (r *SeenRepoImpl) key(cycleID string) string {
	return fmt.Sprintf("%s%s", seenKeyPrefix, cycleID)
}

// MarkSeen adds an external id to the cycle's set and refreshes its TTL.
func (r *SeenRepoImpl) MarkSeen(ctx context.Context, cycleID, externalID string) error {
	key := r.key(cycleID)
	if err := r.client.SAdd(ctx, key, externalID).Err(); err != nil {
		return fmt.Errorf("%w: mark seen %s: %w", repository.ErrStorage, externalID, err)
	}
	return r.client.Expire(ctx, key, seenSetTTL).Err()
}

// SeenIDs returns every external id recorded for the cycle.
func (r *SeenRepoImpl) SeenIDs(ctx context.Context, cycleID string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.key(cycleID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: read seen set: %w", repository.ErrStorage, err)
	}
	return ids, nil
}

// Clear drops the cycle's set.
func (r *SeenRepoImpl) Clear(ctx context.Context, cycleID string) error {
	return r.client.Del(ctx, r.key(cycleID)).Err()
}
