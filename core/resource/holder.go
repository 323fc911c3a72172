package resource

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/artpar/attrkit/core/schema"
	"github.com/artpar/attrkit/ports"
)

// Holder provides thread-safe access to a compiled resource set with hot
// reload support. A failed reload keeps the previous compiled set.
type Holder struct {
	mu        sync.RWMutex
	resources []Resource
	registry  *schema.Registry
	path      string
	logger    zerolog.Logger
	watcher   *fsnotify.Watcher
	onChange  []func([]Resource)
	metrics   ports.Metrics
	stopCh    chan struct{}
}

// NewHolder loads and compiles the definitions file at path.
func NewHolder(path string, reg *schema.Registry, logger zerolog.Logger) (*Holder, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	h := &Holder{
		registry: reg,
		path:     absPath,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}

	resources, err := h.load()
	if err != nil {
		return nil, err
	}
	h.resources = resources

	return h, nil
}

func (h *Holder) load() ([]Resource, error) {
	defs, err := Load(h.path)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(defs))
	resources := make([]Resource, 0, len(defs))
	for _, def := range defs {
		if seen[def.Resource] {
			return nil, fmt.Errorf("compile definitions: duplicate resource %q", def.Resource)
		}
		seen[def.Resource] = true
		r, err := Compile(h.registry, def)
		if err != nil {
			h.countCompile(def.Resource, false)
			return nil, fmt.Errorf("compile definitions: %w", err)
		}
		h.countCompile(def.Resource, true)
		resources = append(resources, r)
	}
	return resources, nil
}

func (h *Holder) countCompile(name string, ok bool) {
	h.mu.RLock()
	m := h.metrics
	h.mu.RUnlock()
	if m != nil {
		m.ResourceCompiled(name, ok)
	}
}

// SetMetrics registers a sink for per-resource compile results. The current
// compiled set is counted immediately; later reloads count as they happen.
func (h *Holder) SetMetrics(m ports.Metrics) {
	h.mu.Lock()
	h.metrics = m
	resources := h.resources
	h.mu.Unlock()

	for _, r := range resources {
		m.ResourceCompiled(r.Name, true)
	}
}

// Resources returns the current compiled set (thread-safe).
func (h *Holder) Resources() []Resource {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.resources
}

// Get returns a compiled resource by name.
func (h *Holder) Get(name string) (Resource, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, r := range h.resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

// Reload recompiles the definitions from disk. Returns error if loading or
// compilation fails (keeps the old set).
func (h *Holder) Reload() error {
	h.logger.Info().Str("path", h.path).Msg("reloading resource definitions")

	resources, err := h.load()
	if err != nil {
		h.logger.Error().Err(err).Msg("definitions reload failed, keeping old set")
		return fmt.Errorf("reload definitions: %w", err)
	}

	h.mu.Lock()
	old := h.resources
	h.resources = resources
	h.mu.Unlock()

	if len(old) != len(resources) {
		h.logger.Info().
			Int("old", len(old)).
			Int("new", len(resources)).
			Msg("resource count changed")
	}

	for _, fn := range h.onChange {
		fn(resources)
	}

	h.logger.Info().Int("resources", len(resources)).Msg("resource definitions reloaded")
	return nil
}

// OnChange registers a callback invoked after a successful reload.
func (h *Holder) OnChange(fn func([]Resource)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// WatchFile starts watching the definitions file for changes.
// Changes trigger automatic reload.
func (h *Holder) WatchFile() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directory (more reliable for editors that do atomic saves)
	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go h.watchLoop()

	h.logger.Info().Str("path", h.path).Msg("watching definitions file for changes")
	return nil
}

// WatchSignals starts listening for SIGHUP to trigger reload.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading definitions")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()
}

// Stop stops watching for file changes and signals.
func (h *Holder) Stop() {
	close(h.stopCh)
	if h.watcher != nil {
		h.watcher.Close()
	}
}

func (h *Holder) watchLoop() {
	filename := filepath.Base(h.path)

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("definitions file changed")

				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}
