package worker

import (
	"context"
	"encoding/binary"
	"strconv"
	"testing"

	zeebo "github.com/zeebo/blake3"

	"github.com/sjtug/cerberus-solver/internal/solver"
)

func checkResult(t *testing.T, prefix string, df uint8, res *Result) {
	t.Helper()

	h := zeebo.New()
	h.Write([]byte(prefix))
	h.Write([]byte(strconv.FormatUint(res.Nonce, 10)))
	digest := h.Sum(nil)

	var ref [8]uint32
	for i := range ref {
		ref[i] = binary.LittleEndian.Uint32(digest[i*4:])
	}
	if ref != res.Hash {
		t.Fatalf("hash mismatch for nonce %d", res.Nonce)
	}

	mask, _ := solver.ComputeMask(df)
	if ref[0]&mask != 0 {
		t.Fatalf("nonce %d does not meet difficulty %d", res.Nonce, df)
	}

	if res.Attempt != prefix+strconv.FormatUint(res.Nonce, 10) {
		t.Errorf("Attempt = %q, want prefix+nonce", res.Attempt)
	}
}

func TestPoolSolve(t *testing.T) {
	pool := NewPool(4, KernelQuad)

	res, err := pool.Solve(context.Background(), []byte("pool-challenge|42|"), 5, nil)
	if err != nil {
		t.Fatalf("Solve error = %v", err)
	}
	checkResult(t, "pool-challenge|42|", 5, res)

	if res.WorkerID >= 4 {
		t.Errorf("WorkerID = %d, want < 4", res.WorkerID)
	}
}

func TestPoolSolveScalar(t *testing.T) {
	pool := NewPool(2, KernelScalar)

	res, err := pool.Solve(context.Background(), []byte("scalar-pool"), 5, nil)
	if err != nil {
		t.Fatalf("Solve error = %v", err)
	}
	checkResult(t, "scalar-pool", 5, res)
}

func TestPoolSolveSingleThread(t *testing.T) {
	pool := NewPool(1, KernelQuad)

	res, err := pool.Solve(context.Background(), nil, 5, nil)
	if err != nil {
		t.Fatalf("Solve error = %v", err)
	}
	checkResult(t, "", 5, res)
}

func TestPoolInvalidDifficulty(t *testing.T) {
	pool := NewPool(1, KernelQuad)

	if _, err := pool.Solve(context.Background(), []byte("x"), 0, nil); err != solver.ErrInvalidDifficulty {
		t.Errorf("Solve(df=0) error = %v, want ErrInvalidDifficulty", err)
	}
	if _, err := pool.Solve(context.Background(), []byte("x"), 17, nil); err != solver.ErrInvalidDifficulty {
		t.Errorf("Solve(df=17) error = %v, want ErrInvalidDifficulty", err)
	}
}

func TestPoolPrefixTooLong(t *testing.T) {
	pool := NewPool(2, KernelQuad)

	long := make([]byte, solver.MaxPrefixLen+1)
	if _, err := pool.Solve(context.Background(), long, 5, nil); err != solver.ErrPrefixTooLong {
		t.Errorf("Solve error = %v, want ErrPrefixTooLong", err)
	}
}

func TestPoolCancelled(t *testing.T) {
	pool := NewPool(2, KernelQuad)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pool.Solve(ctx, []byte("cancelled"), 5, nil); err != context.Canceled {
		t.Errorf("Solve error = %v, want context.Canceled", err)
	}
}

func TestPoolAttemptsAccumulate(t *testing.T) {
	pool := NewPool(2, KernelQuad)

	// Difficulty 7 usually crosses at least one report boundary; the
	// counter must never go backwards either way.
	before := pool.Attempts()
	if _, err := pool.Solve(context.Background(), []byte("attempt-counter"), 7, nil); err != nil {
		t.Fatalf("Solve error = %v", err)
	}
	if pool.Attempts() < before {
		t.Error("attempt counter went backwards")
	}
}

func TestPoolZeroThreadsClamped(t *testing.T) {
	pool := NewPool(0, KernelQuad)
	if pool.Threads() != 1 {
		t.Errorf("Threads() = %d, want 1", pool.Threads())
	}
}
