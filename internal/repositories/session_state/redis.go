package sessionstate

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/campaignkit/session-api/internal/errors"
	"github.com/campaignkit/session-api/internal/pkg/clock"
	redisclient "github.com/campaignkit/session-api/internal/redis"
)

const (
	// Key patterns: session:{campaign}:live, session:{campaign}:archive:{n}
	liveKeyFormat       = "session:%s:live"
	archiveKeyFormat    = "session:%s:archive:%d"
	archiveSeqKeyFormat = "session:%s:archive_seq"

	// Error messages
	errCampaignEmpty = "campaign cannot be empty"
	errStateNil      = "state cannot be nil"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock

	// DefaultTTL applies to live snapshots when SaveInput.TTL is zero.
	// Zero means snapshots do not expire. Archives never expire.
	DefaultTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client     redisclient.Client
	clock      clock.Clock
	defaultTTL time.Duration
}

// NewRedisRepository creates a new Redis repository for session state
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client:     cfg.Client,
		clock:      cfg.Clock,
		defaultTTL: cfg.DefaultTTL,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

// Save writes the campaign's live snapshot, replacing any previous one
func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Campaign == "" {
		return nil, errors.InvalidArgument(errCampaignEmpty)
	}
	if input.State == nil {
		return nil, errors.InvalidArgument(errStateNil)
	}

	record := &StateRecord{
		Campaign: input.Campaign,
		State:    input.State,
		SavedAt:  r.clock.Now().UTC(),
	}

	recordJSON, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal session state")
	}

	ttl := input.TTL
	if ttl == 0 {
		ttl = r.defaultTTL
	}

	key := liveKey(input.Campaign)
	if err := r.client.Set(ctx, key, recordJSON, ttl).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to store session state in Redis")
	}

	return &SaveOutput{Record: record}, nil
}

// Load reads the campaign's live snapshot
func (r *redisRepository) Load(ctx context.Context, input LoadInput) (*LoadOutput, error) {
	if input.Campaign == "" {
		return nil, errors.InvalidArgument(errCampaignEmpty)
	}

	recordJSON, err := r.client.Get(ctx, liveKey(input.Campaign)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no live session for campaign %q", input.Campaign)
		}
		return nil, errors.Wrap(err, "failed to read session state from Redis")
	}

	var record StateRecord
	if err := json.Unmarshal([]byte(recordJSON), &record); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session state")
	}

	return &LoadOutput{Record: &record}, nil
}

// Delete removes the campaign's live snapshot
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.Campaign == "" {
		return nil, errors.InvalidArgument(errCampaignEmpty)
	}

	deleted, err := r.client.Del(ctx, liveKey(input.Campaign)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete session state from Redis")
	}

	return &DeleteOutput{Deleted: deleted > 0}, nil
}

// Archive copies the live snapshot under the campaign's next archive number
func (r *redisRepository) Archive(ctx context.Context, input ArchiveInput) (*ArchiveOutput, error) {
	if input.Campaign == "" {
		return nil, errors.InvalidArgument(errCampaignEmpty)
	}

	recordJSON, err := r.client.Get(ctx, liveKey(input.Campaign)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no live session for campaign %q", input.Campaign)
		}
		return nil, errors.Wrap(err, "failed to read session state from Redis")
	}

	seq, err := r.client.Incr(ctx, fmt.Sprintf(archiveSeqKeyFormat, input.Campaign)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to allocate archive number")
	}

	key := fmt.Sprintf(archiveKeyFormat, input.Campaign, seq)
	if err := r.client.Set(ctx, key, recordJSON, 0).Err(); err != nil {
		return nil, errors.Wrap(err, "failed to store session archive in Redis")
	}

	return &ArchiveOutput{ArchiveIndex: int(seq)}, nil
}

func liveKey(campaign string) string {
	return fmt.Sprintf(liveKeyFormat, campaign)
}
