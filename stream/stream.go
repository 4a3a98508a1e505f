// ABOUTME: Single-subscriber progress update channel
// ABOUTME: Non-blocking emission with throughput estimation

// Package stream implements the engine's progress channel (spec.md §4.I):
// an immutable Update value emitted once per generation to a single
// cooperative subscriber, grounded on the teacher's progressTracker
// (progress.go), same non-blocking select/default send and close-once
// semantics, generalized from a GA-specific update to the Update shape
// spec.md §3 defines.
package stream

import (
	"sync"
	"time"

	"github.com/sthamann/lagrangian-evolve/genome"
)

// Status is the run-level state carried by every Update.
type Status int

const (
	Running Status = iota
	Stopped
	Completed
	Failed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	case Completed:
		return "Completed"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Update is the immutable value emitted after every generation (spec.md
// §3). Top is a deep-copied, caller-owned slice (genome.Population.Top).
type Update struct {
	Generation int
	Top        []genome.Candidate
	Best       genome.Candidate
	EvalPerSec float64
	Status     Status
	Diagnostic string // populated only when Status == Failed
}

// Publisher is a single-subscriber, non-blocking progress channel. An
// embedder that never calls Subscribe simply never receives anything;
// emissions are silently dropped rather than blocking the engine (spec.md
// §4.I "if no subscriber is attached, emissions are dropped").
type Publisher struct {
	mu   sync.Mutex
	ch   chan Update
	once sync.Once

	startTime  time.Time
	totalEvals int64
}

// NewPublisher creates a Publisher with the given channel buffer depth.
func NewPublisher(buffer int) *Publisher {
	return &Publisher{
		ch:        make(chan Update, buffer),
		startTime: timeNow(),
	}
}

// timeNow exists so tests can substitute a deterministic clock if needed;
// production code always uses time.Now.
var timeNow = time.Now

// Subscribe returns the receive-only channel. Only one subscriber is
// supported; calling it more than once returns the same channel (spec.md
// §4.I "cooperative single-subscriber channel").
func (p *Publisher) Subscribe() <-chan Update {
	return p.ch
}

// Emit sends an Update, recomputing the rolling throughput estimate from
// the cumulative evaluation count (spec.md §4.I "total_evaluations /
// elapsed_seconds"). Non-blocking: a full or unsubscribed channel drops
// the update rather than stalling the engine.
func (p *Publisher) Emit(u Update, evalsThisGen int) {
	p.mu.Lock()
	p.totalEvals += int64(evalsThisGen)
	elapsed := timeNow().Sub(p.startTime).Seconds()
	total := p.totalEvals
	p.mu.Unlock()

	if elapsed > 0 {
		u.EvalPerSec = float64(total) / elapsed
	}

	select {
	case p.ch <- u:
	default:
	}
}

// Close closes the update channel exactly once, safe to call from
// multiple goroutines or multiple times (spec.md §4.I terminal emission
// followed by no further sends).
func (p *Publisher) Close() {
	p.once.Do(func() { close(p.ch) })
}
