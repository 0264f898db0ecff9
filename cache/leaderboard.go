package cache

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	config "github.com/learnsphere/backend/configs"
)

// Leaderboard keeps a per-quiz ZSET of best scores so the quiz
// leaderboard endpoint does not hit Postgres on every request. The
// database remains the source of truth; every method is a no-op when
// Redis is not configured.
var Leaderboard *LeaderboardCache

type LeaderboardCache struct {
	client *redis.Client
	ctx    context.Context
}

type LeaderboardEntry struct {
	FullName string `json:"full_name"`
	Score    int    `json:"score"`
}

func InitLeaderboard() {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		log.Println("⚠️ REDIS_ADDR not set, quiz leaderboards will be served from Postgres only")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable at %s: %v", addr, err)
		return
	}

	Leaderboard = &LeaderboardCache{client: client, ctx: context.Background()}
	log.Println("✅ Redis leaderboard cache connected")
}

func leaderboardKey(quizID uuid.UUID) string {
	return "quiz:leaderboard:" + quizID.String()
}

// RecordScore stores the score only when it beats the member's current
// best, matching the "best attempt = max score" rule.
func (c *LeaderboardCache) RecordScore(quizID uuid.UUID, fullName string, score int) {
	if c == nil {
		return
	}

	current, err := c.client.ZScore(c.ctx, leaderboardKey(quizID), fullName).Result()
	if err == nil && int(current) >= score {
		return
	}

	pipe := c.client.Pipeline()
	pipe.ZAdd(c.ctx, leaderboardKey(quizID), &redis.Z{
		Score:  float64(score),
		Member: fullName,
	})
	pipe.Expire(c.ctx, leaderboardKey(quizID), 24*time.Hour)
	if _, err := pipe.Exec(c.ctx); err != nil {
		log.Printf("Error updating leaderboard for quiz %s: %v", quizID, err)
	}
}

func (c *LeaderboardCache) TopScores(quizID uuid.UUID, limit int64) ([]LeaderboardEntry, bool) {
	if c == nil {
		return nil, false
	}

	results, err := c.client.ZRevRangeWithScores(c.ctx, leaderboardKey(quizID), 0, limit-1).Result()
	if err != nil || len(results) == 0 {
		return nil, false
	}

	entries := make([]LeaderboardEntry, len(results))
	for i, z := range results {
		name, _ := z.Member.(string)
		entries[i] = LeaderboardEntry{FullName: name, Score: int(z.Score)}
	}
	return entries, true
}

// Fill repopulates a quiz leaderboard from Postgres-derived entries,
// used as the read-through path when the ZSET is empty or expired.
func (c *LeaderboardCache) Fill(quizID uuid.UUID, entries []LeaderboardEntry) {
	if c == nil {
		return
	}

	pipe := c.client.Pipeline()
	pipe.Del(c.ctx, leaderboardKey(quizID))
	for _, entry := range entries {
		pipe.ZAdd(c.ctx, leaderboardKey(quizID), &redis.Z{
			Score:  float64(entry.Score),
			Member: entry.FullName,
		})
	}
	pipe.Expire(c.ctx, leaderboardKey(quizID), 24*time.Hour)
	if _, err := pipe.Exec(c.ctx); err != nil {
		log.Printf("Error filling leaderboard for quiz %s: %v", quizID, err)
	}
}
