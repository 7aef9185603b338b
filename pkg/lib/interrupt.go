package lib

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	interruptOnce sync.Once
	interruptCtx  context.Context
)

// InterruptContext returns a process-wide context that is canceled when the
// current process receives SIGINT or SIGTERM. The same context is handed to
// every unit that needs to observe the interrupt, so a single signal fans out
// to all of them at once; there is no handler ordering to reason about.
func InterruptContext() context.Context {
	interruptOnce.Do(func() {
		interruptCtx, _ = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	})
	return interruptCtx
}
