package engine

import (
	"context"
	"time"
)

// fetchTimeout bounds the background fetch. Network fetches are slow, so the
// status timeout does not apply here.
const fetchTimeout = time.Minute

// RequestFetch asks for a background `git fetch`. Fetch is best-effort and
// independent of the status busy flag: a fetch and a status poll may overlap.
// On success it requests a status refresh so new ahead/behind counts appear.
func (e *Engine) RequestFetch() {
	e.mu.Lock()
	dir := e.workDir
	e.mu.Unlock()

	go func() {
		defer e.recoverSwallow("fetch")

		res, err := e.runner.Run(e.ctx, dir, fetchTimeout, "git", "fetch")
		if err != nil || res.TimedOut || res.ExitCode != 0 {
			// Network down, no remote, git missing: all fine, try again later.
			e.debugf("fetch failed (exit=%d timedOut=%v err=%v)", res.ExitCode, res.TimedOut, err)
			return
		}
		e.debugf("fetch succeeded")
		e.RequestStatusRefresh()
	}()
}

// runFetchTimer fires RequestFetch at the configured interval until ctx is
// canceled.
func (e *Engine) runFetchTimer(ctx context.Context) {
	interval := time.Duration(e.cfg.AutoFetchIntervalMs) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.debugf("auto-fetch every %s", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.RequestFetch()
		}
	}
}
