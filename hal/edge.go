package hal

import (
	"fmt"
	"sync"
)

// EdgeDetector turns a sampled level into transitions.
//
// The first sample only establishes the baseline.
type EdgeDetector struct {
	last   bool
	primed bool
}

// Sample feeds one level and reports the transition it completes.
func (d *EdgeDetector) Sample(level bool) (rising, falling bool) {
	if d.primed {
		rising = level && !d.last
		falling = !level && d.last
	}
	d.last = level
	d.primed = true
	return rising, falling
}

// PolledEdgePin adds edge handlers to a pin without interrupt support by
// sampling it on every Poll.
type PolledEdgePin struct {
	GPIOPin

	mu      sync.Mutex
	det     EdgeDetector
	edge    GPIOEdge
	handler func()
}

// NewPolledEdgePin wraps pin. It returns nil for a nil pin.
func NewPolledEdgePin(pin GPIOPin) *PolledEdgePin {
	if pin == nil {
		return nil
	}
	return &PolledEdgePin{GPIOPin: pin}
}

func (p *PolledEdgePin) Caps() GPIOCaps { return p.GPIOPin.Caps() | GPIOCapInterrupt }

func (p *PolledEdgePin) SetEdgeHandler(edge GPIOEdge, fn func()) error {
	if edge&GPIOEdgeBoth == 0 {
		return fmt.Errorf("gpio: pin %s: invalid edge", p.Name())
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edge = edge
	p.handler = fn
	return nil
}

// Poll samples the pin once. Read errors leave the baseline untouched.
func (p *PolledEdgePin) Poll() {
	level, err := p.Read()
	if err != nil {
		return
	}

	p.mu.Lock()
	rising, falling := p.det.Sample(level)
	fn := p.handler
	fire := (rising && p.edge&GPIOEdgeRising != 0) || (falling && p.edge&GPIOEdgeFalling != 0)
	p.mu.Unlock()

	if fire && fn != nil {
		fn()
	}
}
