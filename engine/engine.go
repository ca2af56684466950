// Package engine implements the status-polling engine: it serializes git
// status invocations behind a single busy flag, throttles them with a hard
// cool-down, watches the repository metadata directory, runs the periodic
// background fetch, and maintains the snapshot store consumers read.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/gitstatus/command"
	"github.com/grovetools/gitstatus/config"
	"github.com/grovetools/gitstatus/status"
)

// statusArgs is the fixed argument set for the status poll: machine-readable
// porcelain v2 with branch info, stash summary, and untracked files fully
// enumerated.
var statusArgs = []string{"status", "--porcelain=v2", "--branch", "--show-stash", "--untracked-files=all"}

// Engine owns the engine state: the busy flag, the current snapshot, the
// discovered metadata path, and the single watch subscription. All triggers
// are non-blocking and safe to call from any goroutine; the busy flag is the
// only serialization the status command needs.
type Engine struct {
	cfg    *config.Config
	runner command.Runner
	store  *Store
	logger *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	busy    bool
	workDir string
	gitDir  string
	watch   *watchHandle

	// discoverMu serializes discovery so two concurrent working-directory
	// changes cannot race their subscriptions into coexistence.
	discoverMu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithRunner replaces the process runner. Tests use this to script outcomes.
func WithRunner(r command.Runner) Option {
	return func(e *Engine) { e.runner = r }
}

// WithLogger replaces the diagnostic logger.
func WithLogger(l *logrus.Entry) Option {
	return func(e *Engine) { e.logger = l }
}

// WithWorkDir sets the initial working directory for git commands.
// Empty means the process working directory.
func WithWorkDir(dir string) Option {
	return func(e *Engine) { e.workDir = dir }
}

// New creates an Engine with the given configuration. The engine is inert
// until Start is called or a trigger method is invoked.
func New(cfg *config.Config, logger *logrus.Entry, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
		cfg.Normalize()
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		cfg:    cfg,
		runner: command.NewRunner(),
		store:  NewStore(),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the engine's snapshot store.
func (e *Engine) Store() *Store {
	return e.store
}

// Snapshot returns the current snapshot, or nil when none is available.
// It never blocks on an in-flight poll.
func (e *Engine) Snapshot() *status.Snapshot {
	return e.store.Get()
}

// Start performs initial discovery and refresh, runs the fetch timer, and
// blocks until ctx is canceled.
func (e *Engine) Start(ctx context.Context) {
	e.OnWorkingDirectoryChanged("")
	e.RequestStatusRefresh()

	if e.cfg.AutoFetchEnabled() {
		go e.runFetchTimer(ctx)
	}

	<-ctx.Done()
	e.Close()
}

// Close releases the watch subscription and cancels outstanding invocations.
func (e *Engine) Close() {
	e.cancel()
	e.discoverMu.Lock()
	defer e.discoverMu.Unlock()
	e.replaceWatch("")
}

// RequestStatusRefresh asks for a status poll. While a poll is in flight or
// within its cool-down window the request is dropped, not queued: the status
// command itself touches the metadata directory, and an unthrottled
// watch-triggered loop would poll forever.
func (e *Engine) RequestStatusRefresh() {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		e.debugf("refresh request coalesced (poll in flight or cooling down)")
		return
	}
	e.busy = true
	dir := e.workDir
	e.mu.Unlock()

	go e.poll(dir)
}

// poll runs one status invocation and applies its outcome. Every completion
// path starts the cool-down; nothing here may panic out into the host.
func (e *Engine) poll(dir string) {
	defer e.recoverSwallow("status poll")
	defer e.startCooldown()

	timeout := time.Duration(e.cfg.StatusTimeoutMs) * time.Millisecond
	e.debugf("status poll started")

	res, err := e.runner.Run(e.ctx, dir, timeout, "git", statusArgs...)
	switch {
	case err != nil:
		// Spawn failure: same handling as a confirmed non-repository.
		e.logf("status poll could not launch git: %v", err)
		e.store.Clear()
	case res.TimedOut:
		// Last-known-good snapshot stays in place.
		e.logf("status poll timed out after %s", timeout)
	case res.ExitCode != 0:
		e.debugf("status poll exited %d; clearing snapshot", res.ExitCode)
		e.store.Clear()
	default:
		snap := status.Parse(res.Stdout)
		e.store.Set(&snap)
		e.debugf("status poll succeeded: branch=%s ahead=%d behind=%d dirty=%v",
			snap.Branch, snap.Ahead, snap.Behind, snap.IsDirty())
	}
}

// startCooldown begins the fixed quiet window. It is a hard throttle: the
// timer is never extended by requests arriving while it runs.
func (e *Engine) startCooldown() {
	cooldown := time.Duration(e.cfg.CooldownMs) * time.Millisecond
	time.AfterFunc(cooldown, func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
		e.debugf("cool-down elapsed")
	})
}

// recoverSwallow turns a panic in an engine goroutine into a log line.
// A statusline helper must never crash its host over a transient git error.
func (e *Engine) recoverSwallow(op string) {
	if r := recover(); r != nil {
		e.logf("%s panicked: %v", op, r)
	}
}

func (e *Engine) debugf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Debugf(format, args...)
	}
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Warnf(format, args...)
	}
}
