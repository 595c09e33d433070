// Package poller periodically re-reads every managed switch in the background.
package poller

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Reloader rebuilds the switch state from the stored credentials.
type Reloader interface {
	Reload() error
}

type Poller struct {
	target Reloader
	logger *slog.Logger
	cron   *cron.Cron
	job    cron.Job
}

func New(target Reloader, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Poller{
		target: target,
		logger: logger,
		cron:   cron.New(),
	}
	// A tick that fires while the previous reload still runs is dropped and logged.
	skips := cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelWarn))
	p.job = cron.NewChain(cron.SkipIfStillRunning(skips)).Then(cron.FuncJob(p.RunOnce))
	return p
}

// Start schedules the reload job and starts the scheduler. An empty schedule
// disables polling.
func (p *Poller) Start(schedule string) error {
	if schedule == "" {
		p.logger.Info("background polling disabled")
		return nil
	}
	if _, err := p.cron.AddJob(schedule, p.job); err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}
	p.cron.Start()
	p.logger.Info("background polling started", "schedule", schedule)
	return nil
}

// Stop halts the scheduler and waits for a running reload to finish.
func (p *Poller) Stop() {
	<-p.cron.Stop().Done()
	p.logger.Info("background polling stopped")
}

func (p *Poller) RunOnce() {
	start := time.Now()
	if err := p.target.Reload(); err != nil {
		p.logger.Error("poll failed", "error", err, "duration", time.Since(start))
		return
	}
	p.logger.Debug("poll finished", "duration", time.Since(start))
}
