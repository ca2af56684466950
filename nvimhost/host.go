// Package nvimhost runs the engine as a Neovim remote plugin. Buffer and
// focus autocmds feed the engine's triggers; every snapshot replacement is
// pushed back into the editor as g:gitstatus plus a User autocmd, so
// statusline plugins re-render without ever calling git themselves.
package nvimhost

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/neovim/go-client/nvim"
	"github.com/neovim/go-client/nvim/plugin"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/gitstatus/config"
	"github.com/grovetools/gitstatus/engine"
	"github.com/grovetools/gitstatus/logging"
	"github.com/grovetools/gitstatus/status"
)

// Host wires an Engine into a Neovim instance.
type Host struct {
	eng    *engine.Engine
	logger *logrus.Entry

	mu sync.Mutex
	v  *nvim.Nvim
}

// New creates a Host around its own engine instance.
func New(cfg *config.Config) *Host {
	logger := logging.NewLogger("nvimhost")
	return &Host{
		eng:    engine.New(cfg, logger),
		logger: logger,
	}
}

// Main runs the plugin host over stdio. Neovim owns the process lifetime;
// Main returns when the RPC channel closes.
func (h *Host) Main() {
	plugin.Main(func(p *plugin.Plugin) error {
		h.mu.Lock()
		h.v = p.Nvim
		h.mu.Unlock()

		p.HandleFunction(&plugin.FunctionOptions{Name: "GitStatusRefresh"}, h.handleRefresh)
		p.HandleFunction(&plugin.FunctionOptions{Name: "GitStatusFetch"}, h.handleFetch)
		p.HandleFunction(&plugin.FunctionOptions{Name: "GitStatusDirChanged"}, h.handleDirChanged)
		p.HandleFunction(&plugin.FunctionOptions{Name: "GitStatusGet"}, h.handleGet)

		for _, event := range []string{"BufEnter", "BufWritePost", "FocusGained"} {
			p.HandleAutocmd(&plugin.AutocmdOptions{Event: event, Group: "gitstatus", Pattern: "*"},
				func() { h.eng.RequestStatusRefresh() })
		}
		p.HandleAutocmd(&plugin.AutocmdOptions{Event: "DirChanged", Group: "gitstatus", Pattern: "*", Eval: `getcwd()`},
			func(dir string) { h.handleDirChanged([]string{dir}) })

		go h.publishUpdates()
		go h.eng.Start(context.Background())
		return nil
	})
}

// handleRefresh is bound to buffer and focus events on the vim side
// (BufEnter, BufWritePost, FocusGained). Coalescing is the engine's job, so
// binding it to chatty autocmds is fine.
func (h *Host) handleRefresh(args []string) error {
	h.eng.RequestStatusRefresh()
	return nil
}

func (h *Host) handleFetch(args []string) error {
	h.eng.RequestFetch()
	return nil
}

// handleDirChanged receives the new working directory from the DirChanged
// autocmd and re-runs repository discovery.
func (h *Host) handleDirChanged(args []string) error {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	h.eng.OnWorkingDirectoryChanged(dir)
	h.eng.RequestStatusRefresh()
	return nil
}

// handleGet returns the current snapshot synchronously. It never waits for
// an in-flight poll; callers get whatever is current, possibly nil.
func (h *Host) handleGet(args []string) (map[string]interface{}, error) {
	return snapshotToMap(h.eng.Snapshot()), nil
}

// publishUpdates forwards every snapshot replacement into the editor.
func (h *Host) publishUpdates() {
	store := h.eng.Store()
	updates := store.Subscribe()
	defer store.Unsubscribe(updates)

	for u := range updates {
		h.push(u.Snapshot)
	}
}

// push sets g:gitstatus and fires the User GitStatusUpdate autocmd in a
// single atomic batch.
func (h *Host) push(snap *status.Snapshot) {
	h.mu.Lock()
	v := h.v
	h.mu.Unlock()
	if v == nil {
		return
	}

	b := v.NewBatch()
	if snap == nil {
		b.SetVar("gitstatus", nil)
	} else {
		b.SetVar("gitstatus", snapshotToMap(snap))
	}
	b.Command("doautocmd <nomodeline> User GitStatusUpdate")
	if err := b.Execute(); err != nil {
		h.logger.WithError(err).Debug("Failed to push snapshot to nvim")
	}
}

// snapshotToMap converts a snapshot to the msgpack-friendly shape stored in
// g:gitstatus. Uses the snapshot's JSON field names so the vim-side keys
// match the daemon's HTTP API.
func snapshotToMap(snap *status.Snapshot) map[string]interface{} {
	if snap == nil {
		return nil
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	m["is_dirty"] = snap.IsDirty()
	m["up_to_date"] = snap.UpToDate()
	return m
}
