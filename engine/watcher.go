package engine

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/moby/patternmatcher"

	"github.com/grovetools/gitstatus/errors"
)

// discoveryTimeout bounds the metadata-directory discovery command. It is a
// cheap local query, so the general runner discipline is enough.
const discoveryTimeout = 5 * time.Second

// watchHandle owns one fsnotify subscription. The engine holds at most one;
// establishing a new subscription always tears down the previous one first.
type watchHandle struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
}

func (h *watchHandle) close() {
	h.watcher.Close()
	<-h.done
}

// OnWorkingDirectoryChanged re-runs metadata-directory discovery and
// re-establishes the watch subscription. dir is the new working directory;
// empty keeps the current one. The call returns immediately; discovery runs
// on its own goroutine. Safe to call from any host event, any number of
// times; concurrent calls are serialized so at most one subscription is ever
// live.
func (e *Engine) OnWorkingDirectoryChanged(dir string) {
	e.mu.Lock()
	if dir != "" {
		e.workDir = dir
	}
	e.mu.Unlock()

	go e.discover()
}

func (e *Engine) discover() {
	defer e.recoverSwallow("directory discovery")

	e.discoverMu.Lock()
	defer e.discoverMu.Unlock()

	// Engine already closed: don't establish a subscription nobody will release.
	if e.ctx.Err() != nil {
		return
	}

	e.mu.Lock()
	workDir := e.workDir
	e.mu.Unlock()

	res, err := e.runner.Run(e.ctx, workDir, discoveryTimeout, "git", "rev-parse", "--git-dir")
	if err != nil || res.TimedOut || res.ExitCode != 0 {
		// Not a repository (or git missing): drop the path and the watch.
		e.debugf("metadata directory discovery failed in %s", workDir)
		e.replaceWatch("")
		return
	}

	gitDir := strings.TrimSpace(res.Stdout)
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(workDir, gitDir)
	}

	e.replaceWatch(gitDir)
}

// replaceWatch tears down the current subscription and, when gitDir is
// non-empty, establishes a fresh one. The old subscription is always released
// before the new one exists.
func (e *Engine) replaceWatch(gitDir string) {
	e.mu.Lock()
	old := e.watch
	e.watch = nil
	e.gitDir = gitDir
	e.mu.Unlock()

	if old != nil {
		old.close()
	}

	if gitDir == "" {
		return
	}

	handle := e.establishWatch(gitDir)
	e.mu.Lock()
	e.watch = handle
	e.mu.Unlock()
}

// MetadataDir returns the discovered repository metadata directory, or empty
// when the working directory is not inside a repository.
func (e *Engine) MetadataDir() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gitDir
}

// establishWatch subscribes to filesystem notifications on gitDir and wires
// change events to the refresh controller. Returns nil when the subscription
// could not be created; the engine then simply runs without watch triggers.
func (e *Engine) establishWatch(gitDir string) *watchHandle {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		e.logf("%v", errors.WatchFailed(gitDir, err))
		return nil
	}
	if err := watcher.Add(gitDir); err != nil {
		e.logf("%v", errors.WatchFailed(gitDir, err))
		watcher.Close()
		return nil
	}

	matcher := e.ignoreMatcher()
	handle := &watchHandle{watcher: watcher, done: make(chan struct{})}

	go func() {
		defer close(handle.done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if e.ignored(matcher, gitDir, event.Name) {
					continue
				}
				e.debugf("watch event: %s op=%v", event.Name, event.Op)
				e.RequestStatusRefresh()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				e.logf("watcher error: %v", err)
			}
		}
	}()

	e.debugf("watching %s", gitDir)
	return handle
}

// ignoreMatcher compiles the configured watch-ignore patterns.
func (e *Engine) ignoreMatcher() *patternmatcher.PatternMatcher {
	if len(e.cfg.WatchIgnore) == 0 {
		return nil
	}
	matcher, err := patternmatcher.New(e.cfg.WatchIgnore)
	if err != nil {
		e.logf("invalid watch_ignore patterns: %v", err)
		return nil
	}
	return matcher
}

// ignored reports whether a change under gitDir matches the ignore patterns.
func (e *Engine) ignored(matcher *patternmatcher.PatternMatcher, gitDir, name string) bool {
	if matcher == nil {
		return false
	}
	rel, err := filepath.Rel(gitDir, name)
	if err != nil {
		return false
	}
	matched, err := matcher.MatchesOrParentMatches(rel)
	if err != nil {
		return false
	}
	return matched
}
