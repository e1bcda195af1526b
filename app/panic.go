package app

import (
	"fmt"
	"strings"

	"ember/hal"
	"ember/kernel"
)

func installPanicHandler(l hal.Logger) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		if l == nil {
			return
		}
		l.WriteLineString(fmt.Sprintf("ember panic: task=%d (%s) panic=%v", info.TaskID, info.Task, info.Value))
		if len(info.Stack) == 0 {
			l.WriteLineString("stack: unavailable")
			return
		}
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line == "" {
				continue
			}
			l.WriteLineString(line)
		}
	})
}
