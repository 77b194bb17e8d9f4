package job

import (
	"context"
	"time"

	"github.com/managemeals/manage-meals-api/internal/metrics"
	"go.uber.org/zap"
)

// Job runs a function on a fixed interval. Ticks are handled synchronously
// by one goroutine, so a run can never overlap itself; ticks that fire while
// a run is still in flight are dropped by the ticker. Each run gets its own
// timeout so a hung run cannot block the loop forever.
type Job struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	run      func(ctx context.Context) error
	logger   *zap.SugaredLogger
	done     chan struct{}
}

func New(name string, interval, timeout time.Duration, run func(ctx context.Context) error, logger *zap.SugaredLogger) *Job {
	return &Job{
		name:     name,
		interval: interval,
		timeout:  timeout,
		run:      run,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

func (j *Job) Start() {
	j.logger.Infow("starting job", "job", j.name, "interval", j.interval)

	ticker := time.NewTicker(j.interval)

	go func() {
		for {
			select {
			case <-j.done:
				ticker.Stop()
				j.logger.Infow("job stopped", "job", j.name)
				return
			case <-ticker.C:
				j.runOnce()
			}
		}
	}()
}

func (j *Job) Stop() {
	j.logger.Infow("stopping job", "job", j.name)
	close(j.done)
}

func (j *Job) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	startedAt := time.Now()

	if err := j.run(ctx); err != nil {
		metrics.SyncRuns.WithLabelValues(j.name, "error").Inc()
		j.logger.Errorw("job run failed", "job", j.name, "error", err)
		return
	}

	metrics.SyncRuns.WithLabelValues(j.name, "ok").Inc()
	metrics.SyncRunDuration.WithLabelValues(j.name).Observe(time.Since(startedAt).Seconds())
	j.logger.Infow("job run finished", "job", j.name, "duration", time.Since(startedAt))
}
