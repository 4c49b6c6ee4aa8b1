package editor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/seitenwerk/seitenwerk/internal/logging"
	"github.com/seitenwerk/seitenwerk/pkg/interfaces"
)

// State is the two-state dirty machine.
type State int

const (
	StateClean State = iota
	StateDirty
)

func (s State) String() string {
	if s == StateDirty {
		return "dirty"
	}
	return "clean"
}

var (
	// ErrActionDeclined reports the operator kept their unsaved changes.
	ErrActionDeclined = errors.New("editor: action declined, unsaved changes kept")
	// ErrSaveInFlight rejects a save while another one is still pending.
	ErrSaveInFlight = errors.New("editor: a save is already in flight")
	// ErrSessionClosed rejects operations against a torn-down session.
	ErrSessionClosed = errors.New("editor: session closed")
)

// Confirmer asks the operator whether pending changes may be discarded.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmerFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysDiscard confirms every prompt. Used where no interactive surface
// exists, such as batch imports.
func AlwaysDiscard() Confirmer {
	return ConfirmerFunc(func(context.Context, string) (bool, error) { return true, nil })
}

const defaultDebounce = 500 * time.Millisecond

// Coordinator tracks whether the open document has unsaved changes, guards
// destructive actions behind a single confirmation, debounces preview
// refreshes and serializes saves.
type Coordinator struct {
	confirmer Confirmer
	logger    interfaces.Logger
	debounce  time.Duration
	onRefresh func()

	mu     sync.Mutex
	state  State
	saving bool
	closed bool
	timer  *time.Timer
}

type CoordinatorOption func(*Coordinator)

func WithConfirmer(confirmer Confirmer) CoordinatorOption {
	return func(c *Coordinator) {
		if confirmer != nil {
			c.confirmer = confirmer
		}
	}
}

func WithDebounce(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithRefresh installs the debounced preview refresh callback.
func WithRefresh(fn func()) CoordinatorOption {
	return func(c *Coordinator) { c.onRefresh = fn }
}

func WithCoordinatorLogger(provider interfaces.LoggerProvider) CoordinatorOption {
	return func(c *Coordinator) {
		if provider != nil {
			c.logger = logging.EditorLogger(provider)
		}
	}
}

func NewCoordinator(opts ...CoordinatorOption) *Coordinator {
	coordinator := &Coordinator{
		confirmer: AlwaysDiscard(),
		logger:    logging.NoOp(),
		debounce:  defaultDebounce,
	}
	for _, opt := range opts {
		opt(coordinator)
	}
	return coordinator
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// MarkDirty flags unsaved changes and (re)schedules the debounced preview
// refresh. Repeated calls within the debounce window coalesce into one
// refresh.
func (c *Coordinator) MarkDirty() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.state = StateDirty
	if c.onRefresh != nil {
		if c.timer != nil {
			c.timer.Stop()
		}
		c.timer = time.AfterFunc(c.debounce, c.fireRefresh)
	}
	c.mu.Unlock()
}

func (c *Coordinator) fireRefresh() {
	c.mu.Lock()
	closed := c.closed
	refresh := c.onRefresh
	c.mu.Unlock()

	if closed || refresh == nil {
		return
	}
	refresh()
}

// Guard runs action, consulting the confirmer exactly once when there are
// unsaved changes. A declined prompt aborts with ErrActionDeclined and the
// state stays Dirty; a confirmed and successful action resets to Clean.
func (c *Coordinator) Guard(ctx context.Context, prompt string, action func(context.Context) error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	dirty := c.state == StateDirty
	c.mu.Unlock()

	if dirty {
		ok, err := c.confirmer.Confirm(ctx, prompt)
		if err != nil {
			return err
		}
		if !ok {
			c.logger.Debug("guarded action declined", "prompt", prompt)
			return ErrActionDeclined
		}
	}

	if err := action(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	if !c.closed {
		c.state = StateClean
	}
	c.mu.Unlock()
	return nil
}

// BeginSave opens the save gate. A second save while one is pending is
// rejected.
func (c *Coordinator) BeginSave() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrSessionClosed
	}
	if c.saving {
		return ErrSaveInFlight
	}
	c.saving = true
	return nil
}

// CompleteSave closes the save gate. A nil error flips the state back to
// Clean. Completions arriving after Close are no-ops.
func (c *Coordinator) CompleteSave(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.saving = false
	if err == nil {
		c.state = StateClean
	}
}

// Close tears the coordinator down. Pending refreshes are cancelled and all
// later calls no-op.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
