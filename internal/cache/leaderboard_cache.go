package cache

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"storyfusion/internal/model"
)

const (
	leaderboardKey = "uploads:lb"

	// accuracy is the high part of a member's score, the correct count the low part
	correctScale = 1_000_000
)

// LeaderboardCache ranks prediction uploads in a Redis ZSET. Members are
// ordered by accuracy, then correct count, then newest upload first.
type LeaderboardCache interface {
	// UpdateScore records a final score, replacing any earlier one
	UpdateScore(ctx context.Context, summary *model.UploadSummary) error
	// Backfill records a score only when the upload is not ranked yet
	Backfill(ctx context.Context, summary *model.UploadSummary) error
	GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	GetRank(ctx context.Context, uploadID int64) (int64, error)
	Members(ctx context.Context) ([]int64, error)
	Remove(ctx context.Context, uploadID int64) error
}

// LeaderboardEntry represents a single leaderboard entry
type LeaderboardEntry struct {
	UploadID int64  `json:"uploadId"`
	Name     string `json:"name,omitempty"`
	Accuracy int    `json:"accuracy"`
	Rank     int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a new leaderboard cache
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{
		client: client,
	}
}

// member zero-pads the id so equal scores fall back to newest upload first
func member(uploadID int64) string {
	return fmt.Sprintf("%019d", uploadID)
}

func score(summary *model.UploadSummary) float64 {
	correct := summary.CorrectCount
	if correct >= correctScale {
		correct = correctScale - 1
	}
	return float64(summary.Accuracy)*correctScale + float64(correct)
}

func entry(summary *model.UploadSummary) redis.Z {
	return redis.Z{Score: score(summary), Member: member(summary.ID)}
}

func (c *leaderboardCache) UpdateScore(ctx context.Context, summary *model.UploadSummary) error {
	return c.client.ZAdd(ctx, leaderboardKey, entry(summary)).Err()
}

func (c *leaderboardCache) Backfill(ctx context.Context, summary *model.UploadSummary) error {
	return c.client.ZAddNX(ctx, leaderboardKey, entry(summary)).Err()
}

func (c *leaderboardCache) GetTop(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return []LeaderboardEntry{}, nil
	}
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for _, z := range results {
		raw, _ := z.Member.(string)
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UploadID: id,
			Accuracy: int(int64(z.Score) / correctScale),
			Rank:     len(entries) + 1,
		})
	}
	return entries, nil
}

func (c *leaderboardCache) GetRank(ctx context.Context, uploadID int64) (int64, error) {
	rank, err := c.client.ZRevRank(ctx, leaderboardKey, member(uploadID)).Result()
	if err == redis.Nil {
		return -1, nil
	}
	return rank + 1, err // 1-indexed
}

func (c *leaderboardCache) Members(ctx context.Context) ([]int64, error) {
	raw, err := c.client.ZRange(ctx, leaderboardKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(raw))
	for _, m := range raw {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (c *leaderboardCache) Remove(ctx context.Context, uploadID int64) error {
	return c.client.ZRem(ctx, leaderboardKey, member(uploadID)).Err()
}
