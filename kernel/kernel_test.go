package kernel

import (
	"context"
	"errors"
	"testing"
	"time"
)

type funcTask func(*Context)

func (f funcTask) Step(ctx *Context) { f(ctx) }

type tickTask struct {
	t       *Ticker
	started bool
	resumes int
	resumed chan struct{}
}

func (tt *tickTask) Step(ctx *Context) {
	if tt.started {
		tt.resumes++
		if tt.resumed != nil {
			select {
			case tt.resumed <- struct{}{}:
			default:
			}
		}
	}
	tt.started = true
	tt.t.Next(ctx)
}

type irqTask struct {
	irq     *IRQ
	started bool
	resumes int
	resumed chan struct{}
}

func (it *irqTask) Step(ctx *Context) {
	if it.started {
		it.resumes++
		if it.resumed != nil {
			select {
			case it.resumed <- struct{}{}:
			default:
			}
		}
	}
	it.started = true
	ctx.WaitIRQ(it.irq)
}

func newTickTask(t *testing.T, k *Kernel, period time.Duration) *tickTask {
	t.Helper()
	tk, err := NewTicker(k, period)
	if err != nil {
		t.Fatalf("NewTicker: %v", err)
	}
	return &tickTask{t: tk}
}

func newIRQTask(t *testing.T, k *Kernel) *irqTask {
	t.Helper()
	irq, err := k.NewIRQ("edge")
	if err != nil {
		t.Fatalf("NewIRQ: %v", err)
	}
	return &irqTask{irq: irq}
}

func mustAdd(t *testing.T, k *Kernel, name string, task Task) TaskID {
	t.Helper()
	id, err := k.AddTask(name, task)
	if err != nil {
		t.Fatalf("AddTask(%q): %v", name, err)
	}
	return id
}

// drain steps the kernel until nothing is ready and returns the step count.
func drain(t *testing.T, k *Kernel) int {
	t.Helper()
	n := 0
	for k.Step() {
		n++
		if n > 1000 {
			t.Fatal("kernel never went idle")
		}
	}
	return n
}

func TestAddTaskTableFull(t *testing.T) {
	k := New()
	park := funcTask(func(ctx *Context) { ctx.SleepUntil(1 << 62) })
	for i := 0; i < maxTasks; i++ {
		mustAdd(t, k, "park", park)
	}
	if _, err := k.AddTask("extra", park); !errors.Is(err, ErrTaskTableFull) {
		t.Fatalf("AddTask past capacity err = %v, want ErrTaskTableFull", err)
	}
}

func TestAddTaskAfterStartIsSealed(t *testing.T) {
	k := New()
	mustAdd(t, k, "tick", newTickTask(t, k, 10*time.Millisecond))
	if !k.Step() {
		t.Fatal("expected first step to run")
	}
	if _, err := k.AddTask("late", newTickTask(t, k, 10*time.Millisecond)); !errors.Is(err, ErrSealed) {
		t.Fatalf("AddTask after Step err = %v, want ErrSealed", err)
	}
}

func TestAddTaskNil(t *testing.T) {
	k := New()
	if _, err := k.AddTask("nil", nil); err == nil {
		t.Fatal("expected error for nil task")
	}
}

func TestNewIRQTableFull(t *testing.T) {
	k := New()
	for i := 0; i < maxIRQs; i++ {
		if _, err := k.NewIRQ("line"); err != nil {
			t.Fatalf("NewIRQ %d: %v", i, err)
		}
	}
	if _, err := k.NewIRQ("extra"); !errors.Is(err, ErrIRQTableFull) {
		t.Fatalf("NewIRQ past capacity err = %v, want ErrIRQTableFull", err)
	}
}

func TestStepParksSleepingTask(t *testing.T) {
	k := New()
	tt := newTickTask(t, k, 10*time.Millisecond)
	mustAdd(t, k, "tick", tt)

	if !k.Step() {
		t.Fatal("expected initial step")
	}
	if k.Step() {
		t.Fatal("expected no ready task before the deadline")
	}

	info := k.Tasks()[0]
	if info.State != TaskSleeping {
		t.Fatalf("state = %s, want sleeping", info.State)
	}
	if info.Due != 10 {
		t.Fatalf("due = %d, want 10", info.Due)
	}
	if info.Steps != 1 {
		t.Fatalf("steps = %d, want 1", info.Steps)
	}
}

func TestTickToWakesSleeper(t *testing.T) {
	k := New()
	tt := newTickTask(t, k, 10*time.Millisecond)
	mustAdd(t, k, "tick", tt)
	drain(t, k)

	k.TickTo(9)
	if k.Step() {
		t.Fatal("task resumed before its deadline")
	}
	k.TickTo(10)
	if !k.Step() {
		t.Fatal("task did not resume at its deadline")
	}
	if tt.resumes != 1 {
		t.Fatalf("resumes = %d, want 1", tt.resumes)
	}
}

func TestTickToIgnoresOlderValues(t *testing.T) {
	k := New()
	k.TickTo(20)
	k.TickTo(5)
	if got := k.Now(); got != 20 {
		t.Fatalf("Now() = %d, want 20", got)
	}
}

func TestStepRoundRobin(t *testing.T) {
	k := New()
	var counts [2]int
	for i := range counts {
		i := i
		mustAdd(t, k, "spin", funcTask(func(ctx *Context) {
			counts[i]++
			ctx.SleepUntil(0)
		}))
	}

	for i := 0; i < 10; i++ {
		if !k.Step() {
			t.Fatalf("step %d: expected a ready task", i)
		}
	}
	if counts[0] != 5 || counts[1] != 5 {
		t.Fatalf("counts = %v, want [5 5]", counts)
	}
}

func TestFallThroughHalts(t *testing.T) {
	k := New()
	mustAdd(t, k, "lazy", funcTask(func(*Context) {}))

	if !k.Step() {
		t.Fatal("expected step to run")
	}
	if !k.Halted() {
		t.Fatal("expected kernel to halt")
	}
	err := k.Fault()
	if !errors.Is(err, ErrHalted) || !errors.Is(err, ErrFellThrough) {
		t.Fatalf("Fault() = %v, want ErrHalted wrapping ErrFellThrough", err)
	}
	if k.Step() {
		t.Fatal("halted kernel must not run tasks")
	}
}

func TestDoubleSuspendHalts(t *testing.T) {
	k := New()
	irq, err := k.NewIRQ("edge")
	if err != nil {
		t.Fatalf("NewIRQ: %v", err)
	}
	mustAdd(t, k, "greedy", funcTask(func(ctx *Context) {
		ctx.SleepUntil(10)
		ctx.WaitIRQ(irq)
	}))

	k.Step()
	if !errors.Is(k.Fault(), ErrDoubleSuspend) {
		t.Fatalf("Fault() = %v, want ErrDoubleSuspend", k.Fault())
	}
}

func TestWaitForeignIRQHalts(t *testing.T) {
	other := New()
	irq, err := other.NewIRQ("edge")
	if err != nil {
		t.Fatalf("NewIRQ: %v", err)
	}

	k := New()
	mustAdd(t, k, "confused", funcTask(func(ctx *Context) { ctx.WaitIRQ(irq) }))
	k.Step()
	if !k.Halted() {
		t.Fatal("expected halt on foreign irq")
	}
}

func TestTaskPanicInvokesHandler(t *testing.T) {
	var got []PanicInfo
	SetPanicHandler(func(info PanicInfo) { got = append(got, info) })
	defer SetPanicHandler(nil)

	k := New()
	mustAdd(t, k, "ok", newTickTask(t, k, 10*time.Millisecond))
	id := mustAdd(t, k, "bad", funcTask(func(*Context) { panic("boom") }))

	drain(t, k)
	if !k.Halted() {
		t.Fatal("expected kernel to halt after panic")
	}
	if len(got) != 1 {
		t.Fatalf("handler calls = %d, want 1", len(got))
	}
	if got[0].TaskID != id || got[0].Task != "bad" {
		t.Fatalf("info = %+v, want task %d bad", got[0], id)
	}
	if got[0].Value != "boom" {
		t.Fatalf("info.Value = %v, want boom", got[0].Value)
	}
	if len(got[0].Stack) == 0 {
		t.Fatal("expected a captured stack")
	}
	if !errors.Is(k.Fault(), ErrHalted) {
		t.Fatalf("Fault() = %v, want ErrHalted", k.Fault())
	}
}

func TestRunNoTasks(t *testing.T) {
	if err := New().Run(context.Background()); !errors.Is(err, ErrNoTasks) {
		t.Fatalf("Run() = %v, want ErrNoTasks", err)
	}
}

func TestRunReturnsFault(t *testing.T) {
	k := New()
	mustAdd(t, k, "lazy", funcTask(func(*Context) {}))

	errCh := make(chan error, 1)
	go func() { errCh <- k.Run(context.Background()) }()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrHalted) {
			t.Fatalf("Run() = %v, want ErrHalted", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
}

func TestRunIdlesWithoutEvents(t *testing.T) {
	k := New()
	tt := newTickTask(t, k, 50*time.Millisecond)
	it := newIRQTask(t, k)
	mustAdd(t, k, "tick", tt)
	mustAdd(t, k, "edge", it)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := k.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() = %v, want DeadlineExceeded", err)
	}

	if tt.resumes != 0 || it.resumes != 0 {
		t.Fatalf("resumes = tick %d edge %d, want none", tt.resumes, it.resumes)
	}
	for _, info := range k.Tasks() {
		if info.Steps != 1 {
			t.Fatalf("task %s steps = %d, want only the initial step", info.Name, info.Steps)
		}
	}
}

func TestRunWakesOnEvents(t *testing.T) {
	k := New()
	tt := newTickTask(t, k, 50*time.Millisecond)
	tt.resumed = make(chan struct{}, 1)
	it := newIRQTask(t, k)
	it.resumed = make(chan struct{}, 1)
	mustAdd(t, k, "tick", tt)
	mustAdd(t, k, "edge", it)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- k.Run(ctx) }()

	time.Sleep(5 * time.Millisecond)
	it.irq.Raise()
	select {
	case <-it.resumed:
	case <-time.After(time.Second):
		t.Fatal("edge task was not resumed by Raise")
	}

	k.TickTo(50)
	select {
	case <-tt.resumed:
	case <-time.After(time.Second):
		t.Fatal("tick task was not resumed by TickTo")
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want Canceled", err)
	}
	if tt.resumes != 1 || it.resumes != 1 {
		t.Fatalf("resumes = tick %d edge %d, want 1 each", tt.resumes, it.resumes)
	}
}
