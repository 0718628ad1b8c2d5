package platform

import (
	"os"
	"os/signal"
)

// Status is a decoded process exit.
type Status struct {
	// Code is the exit code, or 128+signal when the process was killed.
	Code     int
	Signaled bool
	Signal   string
}

// IgnoreInterrupts stops terminal interrupts from killing this process while
// a foreground child handles them. The returned func restores the default
// behavior.
func IgnoreInterrupts() (restore func()) {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, forwardedSignals...)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}
