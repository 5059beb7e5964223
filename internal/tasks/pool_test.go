package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPool(t *testing.T) {
	t.Run("NewPool applies defaults", func(t *testing.T) {
		p := NewPool(0, 0)
		defer p.Close()

		if p.Size() != DefaultSize {
			t.Errorf("expected default size %d, got %d", DefaultSize, p.Size())
		}
	})

	t.Run("Run returns the function result", func(t *testing.T) {
		p := NewPool(2, 8)
		defer p.Close()

		got, err := Run(context.Background(), p, func() (int, error) {
			return 42, nil
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != 42 {
			t.Errorf("expected 42, got %d", got)
		}
	})

	t.Run("Run propagates errors", func(t *testing.T) {
		p := NewPool(2, 8)
		defer p.Close()

		boom := errors.New("boom")
		if _, err := Run(context.Background(), p, func() (int, error) {
			return 0, boom
		}); !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	})

	t.Run("concurrency never exceeds pool size", func(t *testing.T) {
		const size = 3
		p := NewPool(size, 32)
		defer p.Close()

		var running, peak atomic.Int64
		var wg sync.WaitGroup

		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = Run(context.Background(), p, func() (struct{}, error) {
					n := running.Add(1)
					for {
						old := peak.Load()
						if n <= old || peak.CompareAndSwap(old, n) {
							break
						}
					}
					time.Sleep(5 * time.Millisecond)
					running.Add(-1)
					return struct{}{}, nil
				})
			}()
		}
		wg.Wait()

		if got := peak.Load(); got > size {
			t.Errorf("expected at most %d concurrent tasks, observed %d", size, got)
		}
	})

	t.Run("Run honors context cancellation while queued", func(t *testing.T) {
		p := NewPool(1, 1)
		defer p.Close()

		release := make(chan struct{})
		started := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Run(context.Background(), p, func() (struct{}, error) {
				close(started)
				<-release
				return struct{}{}, nil
			})
		}()

		// Wait until the blocking task occupies the single worker.
		<-started

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := Run(ctx, p, func() (struct{}, error) {
			return struct{}{}, nil
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}

		close(release)
		wg.Wait()
	})

	t.Run("Queued reflects waiting jobs", func(t *testing.T) {
		p := NewPool(1, 8)
		defer p.Close()

		release := make(chan struct{})
		var wg sync.WaitGroup
		for i := 0; i < 3; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = Run(context.Background(), p, func() (struct{}, error) {
					<-release
					return struct{}{}, nil
				})
			}()
		}

		deadline := time.Now().Add(time.Second)
		for p.Queued() < 2 && time.Now().Before(deadline) {
			time.Sleep(time.Millisecond)
		}
		if q := p.Queued(); q < 2 {
			t.Errorf("expected at least 2 queued jobs, got %d", q)
		}

		close(release)
		wg.Wait()

		if q := p.Queued(); q != 0 {
			t.Errorf("expected empty queue after drain, got %d", q)
		}
	})

	t.Run("Close is idempotent and drains", func(t *testing.T) {
		p := NewPool(2, 8)

		if _, err := Run(context.Background(), p, func() (string, error) {
			return "done", nil
		}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		p.Close()
		p.Close()
	})
}
