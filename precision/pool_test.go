// ABOUTME: Tests for the precision worker pool
// ABOUTME: Covers self-test, timeout recycling, and availability

package precision

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewPoolAllFailSelfTest(t *testing.T) {
	_, err := NewPool(3, func() error { return errors.New("boom") })
	if !errors.Is(err, ErrPoolEmpty) {
		t.Fatalf("expected ErrPoolEmpty, got %v", err)
	}
}

func TestPoolRunSuccess(t *testing.T) {
	p, err := NewPool(2, func() error { return nil })
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	v, err := p.Run(context.Background(), time.Second, func() (any, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if v.(int) != 42 {
		t.Fatalf("got %v, want 42", v)
	}
	if p.Available() != 2 {
		t.Fatalf("expected token returned, available=%d", p.Available())
	}
}

func TestPoolRunTimeoutRecyclesWorker(t *testing.T) {
	p, err := NewPool(1, func() error { return nil })
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}

	_, err = p.Run(context.Background(), 10*time.Millisecond, func() (any, error) {
		time.Sleep(100 * time.Millisecond)
		return nil, nil
	})
	if !errors.Is(err, ErrEvalTimeout) {
		t.Fatalf("expected ErrEvalTimeout, got %v", err)
	}

	// The pool should have recycled a replacement worker since selfTest
	// always succeeds here.
	deadline := time.After(time.Second)
	for p.Available() == 0 {
		select {
		case <-deadline:
			t.Fatalf("worker was never recycled")
		case <-time.After(time.Millisecond):
		}
	}
}
