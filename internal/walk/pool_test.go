package walk

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

// syntheticTree enqueues children named dir/0 .. dir/fanout-1 down to depth.
func syntheticTree(fanout, depth int, visits *sync.Map, count *int64) VisitFunc {
	return func(ctx context.Context, dir string, enqueue func(string)) {
		atomic.AddInt64(count, 1)
		if n, loaded := visits.LoadOrStore(dir, 1); loaded {
			visits.Store(dir, n.(int)+1)
		}
		level := 0
		for _, c := range dir {
			if c == '/' {
				level++
			}
		}
		if level >= depth {
			return
		}
		for i := 0; i < fanout; i++ {
			enqueue(fmt.Sprintf("%s/%d", dir, i))
		}
	}
}

func TestPoolVisitsEachDirectoryOnce(t *testing.T) {
	var visits sync.Map
	var count int64

	p := NewPool(8)
	if err := p.Run(context.Background(), "r", syntheticTree(4, 5, &visits, &count)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// 1 + 4 + 16 + 64 + 256 + 1024
	const want = 1365
	if count != want {
		t.Errorf("Expected %d visits, got %d", want, count)
	}
	visits.Range(func(k, v any) bool {
		if v.(int) != 1 {
			t.Errorf("Directory %v visited %d times", k, v)
		}
		return true
	})
}

func TestPoolSingleWorkerDeepTree(t *testing.T) {
	var visits sync.Map
	var count int64

	if err := NewPool(1).Run(context.Background(), "r", syntheticTree(1, 5000, &visits, &count)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if count != 5001 {
		t.Errorf("Expected 5001 visits, got %d", count)
	}
}

func TestPoolReuseAndIsolation(t *testing.T) {
	p := NewPool(4)

	var wg sync.WaitGroup
	counts := make([]int64, 4)
	for i := range counts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var visits sync.Map
			if err := p.Run(context.Background(), fmt.Sprintf("run%d", i), syntheticTree(3, 4, &visits, &counts[i])); err != nil {
				t.Errorf("Run failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	for i, c := range counts {
		// 1 + 3 + 9 + 27 + 81
		if c != 121 {
			t.Errorf("run %d: expected 121 visits, got %d", i, c)
		}
	}
}

func TestPoolCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var count int64
	visit := func(ctx context.Context, dir string, enqueue func(string)) {
		if atomic.AddInt64(&count, 1) == 10 {
			cancel()
		}
		// An endless tree; only cancellation ends the run.
		enqueue(dir + "/x")
		enqueue(dir + "/y")
	}

	err := NewPool(2).Run(ctx, "r", visit)
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPoolPanicPropagates(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected panic to propagate")
		}
	}()

	_ = NewPool(2).Run(context.Background(), "r", func(ctx context.Context, dir string, enqueue func(string)) {
		if dir == "r/1" {
			panic("boom")
		}
		if dir == "r" {
			enqueue("r/0")
			enqueue("r/1")
		}
	})
}

func TestNewPoolDefaults(t *testing.T) {
	if DefaultWorkers() < 1 {
		t.Fatalf("DefaultWorkers returned %d", DefaultWorkers())
	}
	if got := NewPool(0).Workers(); got != DefaultWorkers() {
		t.Errorf("NewPool(0).Workers() = %d, want %d", got, DefaultWorkers())
	}
	if got := NewPool(3).Workers(); got != 3 {
		t.Errorf("NewPool(3).Workers() = %d, want 3", got)
	}
}
