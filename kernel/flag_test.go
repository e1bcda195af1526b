package kernel

import (
	"runtime"
	"sync"
	"testing"
)

func TestFlagToggleInvolution(t *testing.T) {
	for _, initial := range []bool{true, false} {
		f := NewFlag(initial)
		if got := f.Toggle(); got == initial {
			t.Fatalf("Toggle() = %v, want %v", got, !initial)
		}
		if got := f.Toggle(); got != initial {
			t.Fatalf("second Toggle() = %v, want %v", got, initial)
		}
		if f.Load() != initial {
			t.Fatalf("Load() = %v after two toggles, want %v", f.Load(), initial)
		}
	}
}

func TestFlagConcurrentToggles(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(4)
	defer runtime.GOMAXPROCS(oldProcs)

	const (
		togglers = 4
		perTask  = 10_000
	)

	f := NewFlag(true)
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(togglers + 1)
	for i := 0; i < togglers; i++ {
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < perTask; j++ {
				f.Toggle()
			}
		}()
	}
	go func() {
		defer wg.Done()
		<-start
		for j := 0; j < perTask; j++ {
			_ = f.Load()
		}
	}()
	close(start)
	wg.Wait()

	// An even number of flips returns to the initial value only if none was lost.
	if !f.Load() {
		t.Fatal("Load() = false after an even number of toggles, want true")
	}
}
