package kernel

import "fmt"

type blockKind uint8

const (
	blockNone blockKind = iota
	blockSleep
	blockIRQ
)

// Context provides task-local access to kernel operations for one step.
type Context struct {
	k      *Kernel
	taskID TaskID

	block blockKind
	due   uint64
	irq   *IRQ
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// Now returns the current tick.
func (c *Context) Now() uint64 {
	if c.k == nil {
		return 0
	}
	return c.k.Now()
}

// SleepUntil suspends the task until the tick counter reaches due.
//
// A deadline already in the past resumes the task on the next scheduling pass.
// The task must return from Step right after suspending.
func (c *Context) SleepUntil(due uint64) {
	c.suspend(blockSleep)
	c.due = due
}

// WaitIRQ suspends the task until irq has a pending event, which is consumed
// when the task resumes.
func (c *Context) WaitIRQ(irq *IRQ) {
	if irq == nil || irq.k != c.k {
		panic(fmt.Errorf("kernel: task %d: wait on foreign irq", c.taskID))
	}
	c.suspend(blockIRQ)
	c.irq = irq
}

func (c *Context) suspend(kind blockKind) {
	if c.block != blockNone {
		panic(ErrDoubleSuspend)
	}
	c.block = kind
}
