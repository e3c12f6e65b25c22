package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/venkatarun/hidden-habits/internal/core/domain"
)

// SaveDebounce matches the original tracker's save window: a burst of edits
// produces one Replace call carrying the final state.
const SaveDebounce = 350 * time.Millisecond

const flushTimeout = 10 * time.Second

// Syncer is the server half of the sync protocol, satisfied by *Client.
type Syncer interface {
	FetchStore(ctx context.Context) (domain.HabitStore, error)
	ReplaceStore(ctx context.Context, store domain.HabitStore) error
}

var _ Syncer = (*Client)(nil)

type ControllerState int

const (
	StateUninitialized ControllerState = iota
	StateLoading
	StateLoaded
)

// Options tunes a Controller. Zero values pick the production defaults.
type Options struct {
	Debounce time.Duration
	Now      func() time.Time
}

// Controller holds the client-side tracker state: hydrate from the local
// cache, adopt the server store (or a default on failure), then persist
// optimistic edits through a debounced Replace. A failed Replace is
// swallowed; the next edit's debounce cycle retries with the latest state.
type Controller struct {
	syncer   Syncer
	cache    LocalCache
	debounce time.Duration
	now      func() time.Time

	mu         sync.Mutex
	state      ControllerState
	store      domain.HabitStore
	lastSynced []byte
	timer      *time.Timer
	closed     bool
}

func NewController(syncer Syncer, cache LocalCache, opts Options) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = SaveDebounce
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		syncer:   syncer,
		cache:    cache,
		debounce: opts.Debounce,
		now:      opts.Now,
		store:    domain.DefaultStore(),
	}
}

// Load hydrates from the local cache, then fetches the server store. The
// controller is Loaded afterwards regardless of fetch outcome: on failure it
// adopts a fresh default store and caches it so repeated failures skip the
// defaulting work.
func (c *Controller) Load(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateUninitialized || c.closed {
		c.mu.Unlock()
		return
	}
	c.state = StateLoading

	if c.cache != nil {
		if raw, ok := c.cache.Load(); ok {
			var decoded any
			if err := json.Unmarshal(raw, &decoded); err == nil {
				local := domain.NormalizeStore(decoded)
				if payload, err := local.CanonicalPayload(); err == nil {
					c.store = local
					c.lastSynced = payload
				}
			}
		}
	}
	c.mu.Unlock()

	fetched, err := c.syncer.FetchStore(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	adopted := domain.DefaultStore()
	if err == nil {
		adopted = domain.NormalizeStore(fetched)
	}
	if payload, perr := adopted.CanonicalPayload(); perr == nil {
		c.store = adopted
		c.lastSynced = payload
		if c.cache != nil {
			c.cache.Store(payload)
		}
	}
	c.state = StateLoaded
}

func (c *Controller) State() ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the current (optimistic) store.
func (c *Controller) Snapshot() domain.HabitStore {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Clone()
}

// TodayKey is the controller's notion of the current calendar day.
func (c *Controller) TodayKey() string {
	return domain.ToDateKey(c.now())
}

// Streak returns the current streak for one habit.
func (c *Controller) Streak(habitID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Streak(habitID, domain.ToDateKey(c.now()))
}

// ToggleChecklistItem optimistically flips today's checklist item and
// schedules a debounced save. Ignored before Load completes.
func (c *Controller) ToggleChecklistItem(habitID, item string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateLoaded || c.closed {
		return
	}
	if c.store.ToggleChecklistItem(habitID, item, domain.ToDateKey(c.now())) {
		c.scheduleFlushLocked()
	}
}

// CheckInToday marks a habit complete for today if its check-in rule holds.
// Reports whether the store changed.
func (c *Controller) CheckInToday(habitID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateLoaded || c.closed {
		return false
	}
	changed := c.store.CheckIn(habitID, domain.ToDateKey(c.now()))
	if changed {
		c.scheduleFlushLocked()
	}
	return changed
}

func (c *Controller) scheduleFlushLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		c.flush(ctx)
	})
}

// Flush forces a pending save immediately, typically on shutdown.
func (c *Controller) Flush(ctx context.Context) {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
	c.flush(ctx)
}

func (c *Controller) flush(ctx context.Context) {
	c.mu.Lock()
	if c.closed || c.state != StateLoaded {
		c.mu.Unlock()
		return
	}
	payload, err := c.store.CanonicalPayload()
	if err != nil || bytes.Equal(payload, c.lastSynced) {
		c.mu.Unlock()
		return
	}
	snapshot := c.store.Clone()
	c.mu.Unlock()

	if err := c.syncer.ReplaceStore(ctx, snapshot); err != nil {
		// Swallowed: the next edit's debounce cycle retries with newer state.
		return
	}

	c.mu.Lock()
	c.lastSynced = payload
	c.mu.Unlock()
	if c.cache != nil {
		c.cache.Store(payload)
	}
}

// Close cancels any pending save. It does not flush; call Flush first when
// the latest state must reach the server.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
