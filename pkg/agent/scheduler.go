package agent

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/sanonone/dimembed/pkg/embedding"
)

// cronLogger adapts embedding.Logger to cron.Logger.
type cronLogger struct {
	l *embedding.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// Scheduler calls Agent.OnTick on a cron schedule. A tick that is still
// running when the next one fires causes that one to be skipped.
type Scheduler struct {
	c *cron.Cron
}

// NewScheduler prepares a scheduler for spec, a standard 5-field cron
// expression or a descriptor such as "@every 30s".
func NewScheduler(a *Agent, spec string) (*Scheduler, error) {
	logger := cronLogger{l: a.logger}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(spec, func() {
		// OnTick logs its own failures.
		_ = a.OnTick()
	}); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return &Scheduler{c: c}, nil
}

// Start begins firing ticks in the background.
func (s *Scheduler) Start() { s.c.Start() }

// Stop halts the scheduler. The returned context is done once a running
// tick has finished.
func (s *Scheduler) Stop() context.Context { return s.c.Stop() }
