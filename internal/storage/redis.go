package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/sjtug/cerberus-solver/internal/util"
)

const (
	keyPrefix = "cerberus:"

	// Key patterns
	keySolutions    = keyPrefix + "solutions"
	keyAttempts     = keyPrefix + "attempts"
	keySolvedCount  = keyPrefix + "solved"
	keySolvedByDiff = keyPrefix + "solved:difficulty"
	keyLastSolution = keyPrefix + "solutions:last"
)

// RedisClient wraps Redis operations for the solver
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client
func NewRedisClient(url, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     url,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	util.Info("Connected to Redis at ", url)
	return &RedisClient{client: client, ctx: ctx}, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// WriteSolution stores a solved challenge
func (r *RedisClient) WriteSolution(sol *Solution) error {
	if sol.Timestamp == 0 {
		sol.Timestamp = time.Now().Unix()
	}

	data, err := json.Marshal(sol)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.ZAdd(r.ctx, keySolutions, &redis.Z{
		Score:  float64(sol.Timestamp),
		Member: string(data),
	})
	pipe.Incr(r.ctx, keySolvedCount)
	pipe.HIncrBy(r.ctx, keySolvedByDiff, strconv.Itoa(int(sol.Difficulty)), 1)
	pipe.Set(r.ctx, keyLastSolution, sol.Timestamp, 0)

	_, err = pipe.Exec(r.ctx)
	return err
}

// RecordAttempts adds to the global attempt counter
func (r *RedisClient) RecordAttempts(n uint64) error {
	return r.client.IncrBy(r.ctx, keyAttempts, int64(n)).Err()
}

// GetRecentSolutions returns the most recent solutions, newest first
func (r *RedisClient) GetRecentSolutions(limit int64) ([]*Solution, error) {
	raw, err := r.client.ZRevRange(r.ctx, keySolutions, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}

	solutions := make([]*Solution, 0, len(raw))
	for _, item := range raw {
		var sol Solution
		if err := json.Unmarshal([]byte(item), &sol); err != nil {
			util.Warnf("Skipping malformed solution entry: %v", err)
			continue
		}
		solutions = append(solutions, &sol)
	}
	return solutions, nil
}

// GetStats returns lifetime solver statistics
func (r *RedisClient) GetStats() (*Stats, error) {
	stats := &Stats{
		ByDifficulty: make(map[string]uint64),
	}

	solved, err := r.client.Get(r.ctx, keySolvedCount).Uint64()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	stats.Solutions = solved

	attempts, err := r.client.Get(r.ctx, keyAttempts).Uint64()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	stats.Attempts = attempts

	byDiff, err := r.client.HGetAll(r.ctx, keySolvedByDiff).Result()
	if err != nil {
		return nil, err
	}
	for df, count := range byDiff {
		c, _ := strconv.ParseUint(count, 10, 64)
		stats.ByDifficulty[df] = c
	}

	last, err := r.client.Get(r.ctx, keyLastSolution).Int64()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	stats.LastSolution = last

	return stats, nil
}
