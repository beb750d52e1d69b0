package app

import (
	"sync"

	"grayscope/internal/logger"
)

type shutdownStep struct {
	name string
	fn   func()
}

// Lifecycle runs the shutdown steps once, in registration order.
type Lifecycle struct {
	logger logger.Logger
	steps  []shutdownStep
	once   sync.Once
}

func NewLifecycle(log logger.Logger) *Lifecycle {
	return &Lifecycle{logger: log}
}

func (l *Lifecycle) OnShutdown(name string, fn func()) {
	l.steps = append(l.steps, shutdownStep{name: name, fn: fn})
}

func (l *Lifecycle) Shutdown() {
	l.once.Do(func() {
		l.logger.Info("Lifecycle", "shutdown sequence initiated", nil)
		for _, step := range l.steps {
			step.fn()
			l.logger.Debug("Lifecycle", "shutdown step completed", map[string]interface{}{
				"step": step.name,
			})
		}
		l.logger.Info("Lifecycle", "shutdown sequence completed", nil)
	})
}

// ShutdownAsync runs Shutdown on its own goroutine and then calls done.
// Cleanup may wait for a running filter to release the coordinator, so
// callers on the UI goroutine use this instead of Shutdown.
func (l *Lifecycle) ShutdownAsync(done func()) {
	go func() {
		l.Shutdown()
		if done != nil {
			done()
		}
	}()
}
