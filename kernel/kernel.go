package kernel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

const (
	maxTasks = 8
	maxIRQs  = 8
)

// TickDuration is the length of one kernel tick.
const TickDuration = time.Millisecond

type TaskID uint8

var (
	ErrTaskTableFull = errors.New("kernel: task table full")
	ErrIRQTableFull  = errors.New("kernel: irq table full")
	ErrSealed        = errors.New("kernel: task set is sealed once scheduling starts")
	ErrNoTasks       = errors.New("kernel: no tasks registered")
	ErrHalted        = errors.New("kernel: halted")
	ErrFellThrough   = errors.New("returned without suspending")
	ErrDoubleSuspend = errors.New("suspended twice in one step")
	ErrInvalidPeriod = errors.New("kernel: period must be a whole number of ticks")
)

// Task is a cooperative unit of execution.
//
// Step runs the task from its last suspension point to the next one. Every
// step must end by suspending through the Context (SleepUntil or WaitIRQ);
// a step that returns without suspending is a fault and halts the kernel.
type Task interface {
	Step(*Context)
}

// TaskState reports where a task is parked.
type TaskState uint8

const (
	TaskRunnable TaskState = iota
	TaskSleeping
	TaskWaitingIRQ
)

func (s TaskState) String() string {
	switch s {
	case TaskRunnable:
		return "runnable"
	case TaskSleeping:
		return "sleeping"
	case TaskWaitingIRQ:
		return "waiting-irq"
	default:
		return "unknown"
	}
}

type taskState struct {
	name  string
	task  Task
	state TaskState
	due   uint64
	irq   *IRQ
	steps uint64
}

// TaskInfo is a snapshot of one task table entry.
type TaskInfo struct {
	ID    TaskID
	Name  string
	State TaskState
	Due   uint64
	Steps uint64
}

// Kernel is a minimal cooperative scheduler over a fixed task table.
//
// Step, Run, AddTask and Tasks belong to the executor goroutine. TickTo and
// IRQ.Raise may be called from any goroutine.
type Kernel struct {
	tasks     [maxTasks]taskState
	taskCount TaskID
	sealed    bool

	rr TaskID

	irqs     [maxIRQs]IRQ
	irqCount uint8

	now     atomic.Uint64
	nextDue atomic.Uint64
	wake    chan struct{}

	halted    atomic.Bool
	fault     error
	panicOnce atomic.Bool
}

// New creates a kernel instance.
func New() *Kernel {
	k := &Kernel{wake: make(chan struct{}, 1)}
	k.nextDue.Store(math.MaxUint64)
	return k
}

// AddTask registers a task and returns its ID.
//
// The task set is fixed: registration fails once the table is full or once
// the kernel has started scheduling.
func (k *Kernel) AddTask(name string, t Task) (TaskID, error) {
	if t == nil {
		return 0, fmt.Errorf("kernel: add task %q: nil task", name)
	}
	if k.sealed {
		return 0, fmt.Errorf("add task %q: %w", name, ErrSealed)
	}
	if k.taskCount >= maxTasks {
		return 0, fmt.Errorf("add task %q: %w", name, ErrTaskTableFull)
	}
	id := k.taskCount
	k.taskCount++
	k.tasks[id] = taskState{name: name, task: t, state: TaskRunnable}
	return id, nil
}

// NewIRQ allocates an interrupt line from the fixed IRQ table.
func (k *Kernel) NewIRQ(name string) (*IRQ, error) {
	if k.irqCount >= maxIRQs {
		return nil, fmt.Errorf("new irq %q: %w", name, ErrIRQTableFull)
	}
	q := &k.irqs[k.irqCount]
	k.irqCount++
	q.k = k
	q.name = name
	return q, nil
}

// Now returns the current tick.
func (k *Kernel) Now() uint64 {
	return k.now.Load()
}

// TickTo advances the tick counter to seq. Older values are ignored.
func (k *Kernel) TickTo(seq uint64) {
	for {
		cur := k.now.Load()
		if seq <= cur {
			return
		}
		if k.now.CompareAndSwap(cur, seq) {
			break
		}
	}
	if seq >= k.nextDue.Load() {
		k.notify()
	}
}

func (k *Kernel) notify() {
	select {
	case k.wake <- struct{}{}:
	default:
	}
}

// Step runs at most one ready task step and reports whether one ran.
func (k *Kernel) Step() bool {
	if k.taskCount == 0 || k.halted.Load() {
		return false
	}
	k.sealed = true
	k.poll()

	for i := TaskID(0); i < k.taskCount; i++ {
		id := (k.rr + i) % k.taskCount
		st := &k.tasks[id]
		if st.state != TaskRunnable {
			continue
		}

		k.rr = (id + 1) % k.taskCount
		k.runStep(id, st)
		return true
	}
	return false
}

// poll moves parked tasks whose condition is satisfied back to runnable.
//
// nextDue is published before the clock is read so a concurrent TickTo
// either observes the new deadline or is observed here.
func (k *Kernel) poll() {
	due := uint64(math.MaxUint64)
	for id := TaskID(0); id < k.taskCount; id++ {
		st := &k.tasks[id]
		if st.state == TaskSleeping && st.due < due {
			due = st.due
		}
	}
	k.nextDue.Store(due)

	now := k.now.Load()
	for id := TaskID(0); id < k.taskCount; id++ {
		st := &k.tasks[id]
		switch st.state {
		case TaskSleeping:
			if st.due <= now {
				st.state = TaskRunnable
			}
		case TaskWaitingIRQ:
			if st.irq.take() {
				st.state = TaskRunnable
				st.irq = nil
			}
		}
	}
}

func (k *Kernel) runStep(id TaskID, st *taskState) {
	defer func() {
		if r := recover(); r != nil {
			k.halt(id, r)
		}
	}()

	ctx := &Context{k: k, taskID: id}
	st.steps++
	st.task.Step(ctx)

	switch ctx.block {
	case blockSleep:
		st.state = TaskSleeping
		st.due = ctx.due
	case blockIRQ:
		st.state = TaskWaitingIRQ
		st.irq = ctx.irq
	default:
		k.halt(id, ErrFellThrough)
	}
}

func (k *Kernel) halt(id TaskID, v any) {
	name := k.tasks[id].name
	if err, ok := v.(error); ok {
		k.fault = fmt.Errorf("%w: task %s: %w", ErrHalted, name, err)
	} else {
		k.fault = fmt.Errorf("%w: task %s: %v", ErrHalted, name, v)
	}
	k.halted.Store(true)
	if k.panicOnce.CompareAndSwap(false, true) {
		triggerPanic(PanicInfo{TaskID: id, Task: name, Value: v})
	}
}

// Halted reports whether a task fault stopped the kernel.
func (k *Kernel) Halted() bool {
	return k.halted.Load()
}

// Fault returns the error that halted the kernel, if any.
func (k *Kernel) Fault() error {
	if !k.halted.Load() {
		return nil
	}
	return k.fault
}

// Run drives the task set until a task faults or ctx is done.
//
// When no task is ready the executor parks until a tick reaches the earliest
// deadline or an IRQ is raised.
func (k *Kernel) Run(ctx context.Context) error {
	if k.taskCount == 0 {
		return ErrNoTasks
	}
	for {
		if k.halted.Load() {
			return k.fault
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if k.Step() {
			continue
		}
		if k.halted.Load() {
			return k.fault
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-k.wake:
		}
	}
}

// Tasks returns a snapshot of the task table.
func (k *Kernel) Tasks() []TaskInfo {
	out := make([]TaskInfo, 0, k.taskCount)
	for id := TaskID(0); id < k.taskCount; id++ {
		st := &k.tasks[id]
		out = append(out, TaskInfo{
			ID:    id,
			Name:  st.name,
			State: st.state,
			Due:   st.due,
			Steps: st.steps,
		})
	}
	return out
}
