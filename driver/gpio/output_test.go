package gpio

import (
	"errors"
	"testing"

	"ember/hal"
)

type brokenPin struct {
	*hal.VirtualPin
	fail bool
}

var errStuck = errors.New("stuck")

func (p *brokenPin) Write(level bool) error {
	if p.fail {
		return errStuck
	}
	return p.VirtualPin.Write(level)
}

func newOutPin() *hal.VirtualPin {
	return hal.NewVirtualPin("OUT", hal.GPIOCapOutput|hal.GPIOCapInput)
}

func TestNewOutputDrivesInitialLevel(t *testing.T) {
	pin := newOutPin()
	out, err := NewOutput(pin, High)
	if err != nil {
		t.Fatalf("NewOutput: %v", err)
	}
	if out.Level() != High || !pin.Level() {
		t.Fatalf("level = %s pin = %v, want HIGH", out.Level(), pin.Level())
	}
}

func TestOutputToggleAlternates(t *testing.T) {
	pin := newOutPin()
	out, err := NewOutput(pin, Low)
	if err != nil {
		t.Fatalf("NewOutput: %v", err)
	}

	want := []Level{High, Low, High, Low, High}
	for i, w := range want {
		if got := out.Toggle(); got != w {
			t.Fatalf("toggle %d = %s, want %s", i+1, got, w)
		}
		if pin.Level() != bool(w) {
			t.Fatalf("toggle %d: pin level %v, want %s", i+1, pin.Level(), w)
		}
	}
}

func TestOutputToggleFaultPanics(t *testing.T) {
	pin := &brokenPin{VirtualPin: newOutPin()}
	out, err := NewOutput(pin, Low)
	if err != nil {
		t.Fatalf("NewOutput: %v", err)
	}
	pin.fail = true

	defer func() {
		r := recover()
		fe, ok := r.(*FaultError)
		if !ok {
			t.Fatalf("recovered %v, want *FaultError", r)
		}
		if fe.Pin != "OUT" || !errors.Is(fe, errStuck) {
			t.Fatalf("fault = %v", fe)
		}
		if out.Level() != Low {
			t.Fatal("level must not change on a failed write")
		}
	}()
	out.Toggle()
}

func TestNewOutputRejectsInputOnlyPin(t *testing.T) {
	if _, err := NewOutput(hal.NewVirtualPin("IN", hal.GPIOCapInput), Low); err == nil {
		t.Fatal("expected error for input-only pin")
	}
	if _, err := NewOutput(nil, Low); err == nil {
		t.Fatal("expected error for nil pin")
	}
}

func TestLevelString(t *testing.T) {
	if High.String() != "HIGH" || Low.String() != "LOW" {
		t.Fatalf("strings = %s %s", High, Low)
	}
}
