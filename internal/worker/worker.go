// Package worker partitions the Cerberus nonce space across parallel
// solver goroutines and aggregates their progress.
package worker

import (
	"context"
	"math"
	"sync"
	"sync/atomic"

	"github.com/sjtug/cerberus-solver/internal/solver"
	"github.com/sjtug/cerberus-solver/internal/util"
)

// Kernel selects the solver implementation.
type Kernel string

const (
	// KernelQuad is the four-lane reduced-compression solver.
	KernelQuad Kernel = "quad"

	// KernelScalar is the one-nonce-per-compression fallback.
	KernelScalar Kernel = "scalar"
)

// Result is a solved challenge.
type Result struct {
	Nonce      uint64
	Hash       [8]uint32
	HashHex    string
	Attempt    string
	Difficulty uint8
	Attempts   uint64
	WorkerID   uint32
}

// Pool runs one search across a fixed number of workers. Workers share
// nothing but the immutable challenge; worker i starts at working set i and
// advances by the worker count when an instance's space is exhausted.
type Pool struct {
	threads uint32
	kernel  Kernel

	attempts atomic.Uint64
}

// NewPool creates a pool with the given parallelism. threads must be >= 1.
func NewPool(threads uint32, kernel Kernel) *Pool {
	if threads == 0 {
		threads = 1
	}
	return &Pool{threads: threads, kernel: kernel}
}

// Threads returns the pool's parallelism.
func (p *Pool) Threads() uint32 { return p.threads }

// Attempts returns the total hash attempts made across all searches, to
// report-period precision.
func (p *Pool) Attempts() uint64 { return p.attempts.Load() }

func (p *Pool) newSolver(m *solver.Message) solver.Solver {
	if p.kernel == KernelScalar {
		return solver.NewScalarSolver(m)
	}
	return solver.NewQuadSolver(m)
}

// Solve searches for a nonce satisfying the difficulty factor. The first
// worker to find one wins; candidate order within a worker is
// deterministic, but across workers the winner is whoever finishes first.
//
// Cancellation is honored between solver invocations: the inner search has
// no suspension points, so a worker mid-instance runs that instance to
// completion or exhaustion before observing ctx.
func (p *Pool) Solve(ctx context.Context, prefix []byte, difficultyFactor uint8, onProgress func(delta uint32)) (*Result, error) {
	mask, err := solver.ComputeMask(difficultyFactor)
	if err != nil {
		return nil, err
	}

	start := p.attempts.Load()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan *Result, int(p.threads))
	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once

	for tid := uint32(0); tid < p.threads; tid++ {
		wg.Add(1)
		go func(tid uint32) {
			defer wg.Done()
			res, err := p.runWorker(ctx, tid, prefix, mask, onProgress)
			if err != nil {
				errOnce.Do(func() { firstErr = err })
				cancel()
				return
			}
			if res != nil {
				res.Difficulty = difficultyFactor
				results <- res
				cancel()
			}
		}(tid)
	}

	wg.Wait()
	close(results)

	res, ok := <-results
	if !ok {
		if firstErr != nil {
			return nil, firstErr
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, solver.ErrWorkingSetExhausted
	}
	res.Attempts = p.attempts.Load() - start
	res.Attempt = string(prefix) + util.FormatNonce(res.Nonce)
	res.HashHex = util.EncodeHashLE(res.Hash)
	return res, nil
}

func (p *Pool) runWorker(ctx context.Context, tid uint32, prefix []byte, mask uint32, onProgress func(delta uint32)) (*Result, error) {
	set := tid
	progress := func(delta uint32) {
		p.attempts.Add(uint64(delta))
		if onProgress != nil {
			onProgress(delta)
		}
	}

	for {
		if ctx.Err() != nil {
			return nil, nil
		}

		m, err := solver.NewMessage(prefix, set)
		if err != nil {
			return nil, err
		}

		s := p.newSolver(m)
		s.SetReportSlot(tid, p.threads)

		nonce, hash, ok := s.Solve(mask, progress)
		if ok {
			util.Debugf("worker %d solved with working set %d", tid, set)
			return &Result{Nonce: nonce, Hash: hash, WorkerID: tid}, nil
		}

		// Exhausted this instance's 9-digit space; take the next slice.
		if set > math.MaxUint32-p.threads {
			return nil, nil
		}
		set += p.threads
	}
}
