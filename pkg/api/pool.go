package api

import (
	"context"
	"sync/atomic"
)

// lane is a counting semaphore with usage counters.
type lane struct {
	sem    chan struct{}
	queued int64
	active int64
	total  int64
}

func newLane(size int) *lane {
	return &lane{sem: make(chan struct{}, size)}
}

func (l *lane) acquire(ctx context.Context) error {
	atomic.AddInt64(&l.queued, 1)
	defer atomic.AddInt64(&l.queued, -1)

	select {
	case l.sem <- struct{}{}:
		atomic.AddInt64(&l.active, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lane) tryAcquire() bool {
	select {
	case l.sem <- struct{}{}:
		atomic.AddInt64(&l.active, 1)
		return true
	default:
		return false
	}
}

func (l *lane) release() {
	atomic.AddInt64(&l.active, -1)
	atomic.AddInt64(&l.total, 1)
	<-l.sem
}

// WorkerPool bounds concurrent work. Match operations are cheap and get a
// wide lane; simulations run thousands of matches and get a narrow one.
type WorkerPool struct {
	match *lane
	sim   *lane
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxMatchWorkers      int // Max concurrent match operations (default: 100)
	MaxSimulationWorkers int // Max concurrent simulations (default: 4)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxMatchWorkers:      100,
		MaxSimulationWorkers: 4,
	}
}

// NewWorkerPool creates a new worker pool with the given configuration.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	def := DefaultPoolConfig()
	if config.MaxMatchWorkers <= 0 {
		config.MaxMatchWorkers = def.MaxMatchWorkers
	}
	if config.MaxSimulationWorkers <= 0 {
		config.MaxSimulationWorkers = def.MaxSimulationWorkers
	}
	return &WorkerPool{
		match: newLane(config.MaxMatchWorkers),
		sim:   newLane(config.MaxSimulationWorkers),
	}
}

// AcquireMatch waits for a match slot or for ctx to end.
func (p *WorkerPool) AcquireMatch(ctx context.Context) error { return p.match.acquire(ctx) }

// ReleaseMatch frees a match slot.
func (p *WorkerPool) ReleaseMatch() { p.match.release() }

// AcquireSimulation waits for a simulation slot or for ctx to end.
func (p *WorkerPool) AcquireSimulation(ctx context.Context) error { return p.sim.acquire(ctx) }

// TryAcquireSimulation takes a simulation slot without waiting.
func (p *WorkerPool) TryAcquireSimulation() bool { return p.sim.tryAcquire() }

// ReleaseSimulation frees a simulation slot.
func (p *WorkerPool) ReleaseSimulation() { p.sim.release() }

// PoolStats is a snapshot of pool usage.
type PoolStats struct {
	ActiveMatch      int64 `json:"active_match"`
	ActiveSimulation int64 `json:"active_simulation"`
	QueuedMatch      int64 `json:"queued_match"`
	QueuedSimulation int64 `json:"queued_simulation"`
	TotalMatch       int64 `json:"total_match"`
	TotalSimulation  int64 `json:"total_simulation"`
	MaxMatch         int   `json:"max_match"`
	MaxSimulation    int   `json:"max_simulation"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		ActiveMatch:      atomic.LoadInt64(&p.match.active),
		ActiveSimulation: atomic.LoadInt64(&p.sim.active),
		QueuedMatch:      atomic.LoadInt64(&p.match.queued),
		QueuedSimulation: atomic.LoadInt64(&p.sim.queued),
		TotalMatch:       atomic.LoadInt64(&p.match.total),
		TotalSimulation:  atomic.LoadInt64(&p.sim.total),
		MaxMatch:         cap(p.match.sem),
		MaxSimulation:    cap(p.sim.sem),
	}
}
