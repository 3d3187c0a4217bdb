// Package scheduler runs named actions at a fixed interval on background
// goroutines. A failing or panicking action is logged and counted; the loop
// keeps ticking.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Action is one invocation of a scheduled task. The context is cancelled when
// the scheduler stops.
type Action func(ctx context.Context) error

type Scheduler struct {
	log *slog.Logger

	closed atomic.Bool

	mu     sync.Mutex
	tasks  map[string]*task
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type task struct {
	name     string
	interval time.Duration
	action   Action

	runs   atomic.Uint64
	errors atomic.Uint64
	panics atomic.Uint64

	mu      sync.RWMutex
	lastErr string
	lastRun time.Time
}

// TaskSnapshot is a point-in-time view of one task's counters.
type TaskSnapshot struct {
	Name       string `json:"name"`
	Interval   string `json:"interval"`
	Runs       uint64 `json:"runs"`
	Errors     uint64 `json:"errors"`
	Panics     uint64 `json:"panics"`
	LastError  string `json:"last_error,omitempty"`
	LastRunUTC string `json:"last_run_utc,omitempty"`
}

func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		log:    logger,
		tasks:  make(map[string]*task),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Schedule starts invoking action immediately and then every interval until
// ctx is cancelled or the scheduler is closed.
func (s *Scheduler) Schedule(ctx context.Context, name string, interval time.Duration, action Action) error {
	if s == nil {
		return fmt.Errorf("scheduler is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("scheduler task name is required")
	}
	if interval <= 0 {
		return fmt.Errorf("scheduler task %s: interval must be > 0", name)
	}
	if action == nil {
		return fmt.Errorf("scheduler task %s: action is nil", name)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return fmt.Errorf("scheduler is closed")
	}
	if _, ok := s.tasks[name]; ok {
		return fmt.Errorf("scheduler task %s already scheduled", name)
	}

	t := &task{name: name, interval: interval, action: action}
	s.tasks[name] = t

	// Either the caller's context or Close stops the loop.
	runCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer stop()
		defer cancel()
		s.runLoop(runCtx, t)
	}()

	s.log.Debug("task scheduled", slog.String("task", name), slog.Duration("interval", interval))
	return nil
}

// Close stops every task and waits for their loops to return.
func (s *Scheduler) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.closed.Swap(true) {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Scheduler) Snapshot() []TaskSnapshot {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	tasks := make([]*task, 0, len(s.tasks))
	for _, t := range s.tasks {
		tasks = append(tasks, t)
	}
	s.mu.Unlock()

	out := make([]TaskSnapshot, 0, len(tasks))
	for _, t := range tasks {
		t.mu.RLock()
		lastErr := t.lastErr
		lastRun := t.lastRun
		t.mu.RUnlock()

		snap := TaskSnapshot{
			Name:      t.name,
			Interval:  t.interval.String(),
			Runs:      t.runs.Load(),
			Errors:    t.errors.Load(),
			Panics:    t.panics.Load(),
			LastError: lastErr,
		}
		if !lastRun.IsZero() {
			snap.LastRunUTC = lastRun.UTC().Format(time.RFC3339Nano)
		}
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Scheduler) runLoop(ctx context.Context, t *task) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	// First run right away so consumers are not blank for a whole interval.
	s.invoke(ctx, t)

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("task stopped", slog.String("task", t.name))
			return
		case <-ticker.C:
			if ctx.Err() != nil {
				return
			}
			s.invoke(ctx, t)
		}
	}
}

func (s *Scheduler) invoke(ctx context.Context, t *task) {
	defer func() {
		if r := recover(); r != nil {
			t.panics.Add(1)
			t.setResult(fmt.Sprintf("panic: %v", r))
			s.log.Error("task panicked",
				slog.String("task", t.name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	t.runs.Add(1)
	err := t.action(ctx)
	if err != nil {
		t.errors.Add(1)
		t.setResult(err.Error())
		if ctx.Err() == nil {
			s.log.Warn("task failed", slog.String("task", t.name), slog.Any("err", err))
		}
		return
	}
	t.setResult("")
}

func (t *task) setResult(lastErr string) {
	t.mu.Lock()
	t.lastRun = time.Now()
	if lastErr != "" {
		t.lastErr = lastErr
	}
	t.mu.Unlock()
}
