// Package tasks runs periodic maintenance jobs in the background of the
// web process.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// ErrUnknownJob is returned by RunOnce for a name nobody registered.
var ErrUnknownJob = errors.New("unknown job")

// Job is a task that runs once at start and then every Interval.
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single run. Zero means no per-run deadline.
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Runner executes registered jobs until Stop.
type Runner struct {
	logger   *zap.Logger
	jobs     []Job
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	running  atomic.Int32
	inFlight sync.Map // job name -> struct{}
}

// New creates a Runner. A nil logger discards output.
func New(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Register adds job. Call before Start.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
}

// Names returns the registered job names in registration order.
func (r *Runner) Names() []string {
	out := make([]string, len(r.jobs))
	for i, j := range r.jobs {
		out[i] = j.Name
	}
	return out
}

// Start launches one goroutine per job.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}

	r.logger.Info("background task runner started",
		zap.Strings("jobs", r.Names()))
}

// Stop cancels every job and waits for them to return, or for ctx to end,
// whichever is first. It returns ctx.Err() on timeout.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("background task runner stopped")
		return nil
	case <-ctx.Done():
		var pending []string
		r.inFlight.Range(func(key, _ any) bool {
			pending = append(pending, key.(string))
			return true
		})
		r.logger.Warn("background task runner stop timed out",
			zap.Strings("jobs_still_running", pending),
			zap.Int32("running_count", r.running.Load()))
		return ctx.Err()
	}
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	r.execute(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.execute(ctx, job)
		}
	}
}

// execute runs job once, logging the outcome. A panicking job is logged
// and does not take the process down.
func (r *Runner) execute(ctx context.Context, job Job) {
	r.running.Add(1)
	r.inFlight.Store(job.Name, struct{}{})
	defer func() {
		r.running.Add(-1)
		r.inFlight.Delete(job.Name)
	}()

	start := time.Now()
	err := r.call(ctx, job)
	fields := []zap.Field{zap.String("job", job.Name), zap.Duration("took", time.Since(start))}

	switch {
	case err == nil:
		r.logger.Debug("job completed", fields...)
	case ctx.Err() != nil:
		r.logger.Debug("job cancelled", fields...)
	default:
		r.logger.Error("job failed", append(fields, zap.Error(err))...)
	}
}

func (r *Runner) call(ctx context.Context, job Job) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("job panicked",
				zap.String("job", job.Name),
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("job %s panicked: %v", job.Name, p)
		}
	}()
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}
	return job.Run(ctx)
}

// RunOnce runs the named job synchronously, outside its schedule.
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			return r.call(ctx, job)
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownJob, name)
}
