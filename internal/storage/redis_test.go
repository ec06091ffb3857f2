package storage

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client, err := NewRedisClient(mr.Addr(), "", 0)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create Redis client: %v", err)
	}

	return client, mr
}

func TestNewRedisClientInvalid(t *testing.T) {
	if _, err := NewRedisClient("invalid:9999", "", 0); err == nil {
		t.Error("NewRedisClient should return error for invalid address")
	}
}

func TestWriteSolution(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	sol := &Solution{
		Prefix:     "challenge|1|",
		Nonce:      1234567890,
		Hash:       "00000afe" + "deadbeef",
		Difficulty: 6,
		Attempts:   64000,
		ElapsedMs:  120,
		Timestamp:  1700000000,
	}

	if err := client.WriteSolution(sol); err != nil {
		t.Fatalf("WriteSolution error = %v", err)
	}

	recent, err := client.GetRecentSolutions(10)
	if err != nil {
		t.Fatalf("GetRecentSolutions error = %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("got %d solutions, want 1", len(recent))
	}
	if recent[0].Nonce != sol.Nonce || recent[0].Difficulty != sol.Difficulty {
		t.Errorf("round-trip mismatch: %+v", recent[0])
	}
}

func TestWriteSolutionStampsTimestamp(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	sol := &Solution{Nonce: 1, Difficulty: 5}
	if err := client.WriteSolution(sol); err != nil {
		t.Fatalf("WriteSolution error = %v", err)
	}
	if sol.Timestamp == 0 {
		t.Error("WriteSolution should stamp a zero timestamp")
	}
}

func TestGetRecentSolutionsOrder(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	for i := 0; i < 5; i++ {
		sol := &Solution{
			Nonce:      uint64(i),
			Difficulty: 5,
			Timestamp:  1700000000 + int64(i),
		}
		if err := client.WriteSolution(sol); err != nil {
			t.Fatalf("WriteSolution error = %v", err)
		}
	}

	recent, err := client.GetRecentSolutions(3)
	if err != nil {
		t.Fatalf("GetRecentSolutions error = %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("got %d solutions, want 3", len(recent))
	}
	if recent[0].Nonce != 4 {
		t.Errorf("newest first: got nonce %d, want 4", recent[0].Nonce)
	}
}

func TestGetStats(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	// Fresh database reads as zeroes, not errors.
	stats, err := client.GetStats()
	if err != nil {
		t.Fatalf("GetStats on empty db error = %v", err)
	}
	if stats.Solutions != 0 || stats.Attempts != 0 {
		t.Errorf("empty stats = %+v, want zeroes", stats)
	}

	if err := client.RecordAttempts(128000); err != nil {
		t.Fatalf("RecordAttempts error = %v", err)
	}
	if err := client.WriteSolution(&Solution{Nonce: 7, Difficulty: 6, Timestamp: 1700000001}); err != nil {
		t.Fatalf("WriteSolution error = %v", err)
	}
	if err := client.WriteSolution(&Solution{Nonce: 8, Difficulty: 6, Timestamp: 1700000002}); err != nil {
		t.Fatalf("WriteSolution error = %v", err)
	}

	stats, err = client.GetStats()
	if err != nil {
		t.Fatalf("GetStats error = %v", err)
	}
	if stats.Attempts != 128000 {
		t.Errorf("Attempts = %d, want 128000", stats.Attempts)
	}
	if stats.Solutions != 2 {
		t.Errorf("Solutions = %d, want 2", stats.Solutions)
	}
	if stats.ByDifficulty["6"] != 2 {
		t.Errorf("ByDifficulty[6] = %d, want 2", stats.ByDifficulty["6"])
	}
	if stats.LastSolution != 1700000002 {
		t.Errorf("LastSolution = %d, want 1700000002", stats.LastSolution)
	}
}
