package kernel

import "sync/atomic"

// Flag is a boolean shared between tasks without locking.
//
// Load and Toggle are each indivisible; a Toggle that completes before a Load
// starts is always observed by it.
type Flag struct {
	_ [0]func() // prevent accidental copying.
	v atomic.Bool
}

// NewFlag returns a flag holding initial.
func NewFlag(initial bool) *Flag {
	f := &Flag{}
	f.v.Store(initial)
	return f
}

// Load returns the current value.
func (f *Flag) Load() bool {
	return f.v.Load()
}

// Toggle atomically flips the value and returns the new one.
func (f *Flag) Toggle() bool {
	for {
		old := f.v.Load()
		if f.v.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
