package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storyfusion/internal/model"
)

// ScoreCache keeps scored upload summaries so list views skip re-grading
type ScoreCache interface {
	GetSummary(ctx context.Context, uploadID int64) (*model.UploadSummary, error)
	SetSummary(ctx context.Context, summary *model.UploadSummary) error
	// FillSummary stores summary only when nothing is cached for the upload
	FillSummary(ctx context.Context, summary *model.UploadSummary) error
	Invalidate(ctx context.Context, uploadID int64) error
}

type scoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewScoreCache creates a new score cache. A zero ttl falls back to one hour.
func NewScoreCache(client *redis.Client, ttl time.Duration) ScoreCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &scoreCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *scoreCache) key(uploadID int64) string {
	return fmt.Sprintf("upload:%d:summary", uploadID)
}

func (c *scoreCache) GetSummary(ctx context.Context, uploadID int64) (*model.UploadSummary, error) {
	data, err := c.client.Get(ctx, c.key(uploadID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var summary model.UploadSummary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *scoreCache) SetSummary(ctx context.Context, summary *model.UploadSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(summary.ID), data, c.ttl).Err()
}

func (c *scoreCache) FillSummary(ctx context.Context, summary *model.UploadSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.SetNX(ctx, c.key(summary.ID), data, c.ttl).Err()
}

func (c *scoreCache) Invalidate(ctx context.Context, uploadID int64) error {
	return c.client.Del(ctx, c.key(uploadID)).Err()
}
