package emotion

import (
	"sync"
	"time"
)

// Tracker holds one State and serializes updates to it.
type Tracker struct {
	mu    sync.Mutex
	state State
	now   func() time.Time
}

type TrackerOption func(*Tracker)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{state: NewState(), now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Update applies set at the tracker's current time.
func (t *Tracker) Update(set TriggerSet) Update {
	return t.UpdateAt(set, t.now())
}

func (t *Tracker) UpdateAt(set TriggerSet, now time.Time) Update {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, update := Apply(t.state, set, now)
	t.state = next
	return update
}

// Snapshot returns a copy that is safe to read after the lock is released.
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.clone()
}

// Reset puts the tracker back to the zero mood.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = NewState()
}

// Registry hands out trackers according to its scope. With ScopeShared every
// user gets the same tracker.
type Registry struct {
	scope  Scope
	opts   []TrackerOption
	shared *Tracker

	mu    sync.Mutex
	users map[string]*Tracker
}

func NewRegistry(scope Scope, opts ...TrackerOption) *Registry {
	if scope == "" {
		scope = ScopeShared
	}
	return &Registry{
		scope:  scope,
		opts:   opts,
		shared: NewTracker(opts...),
		users:  make(map[string]*Tracker),
	}
}

func (r *Registry) Scope() Scope {
	return r.scope
}

// For returns the tracker responsible for userID.
func (r *Registry) For(userID string) *Tracker {
	if r.scope != ScopePerUser {
		return r.shared
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.users[userID]
	if !ok {
		t = NewTracker(r.opts...)
		r.users[userID] = t
	}
	return t
}

// Snapshots returns every tracked state keyed by user, or by "shared".
func (r *Registry) Snapshots() map[string]State {
	if r.scope != ScopePerUser {
		return map[string]State{string(ScopeShared): r.shared.Snapshot()}
	}

	r.mu.Lock()
	trackers := make(map[string]*Tracker, len(r.users))
	for id, t := range r.users {
		trackers[id] = t
	}
	r.mu.Unlock()

	out := make(map[string]State, len(trackers))
	for id, t := range trackers {
		out[id] = t.Snapshot()
	}
	return out
}

// Restore replaces the tracked state, used when loading a persisted snapshot.
// Out of range values are clamped.
func (t *Tracker) Restore(state State) {
	next := state.clone()
	if next.Primary == "" {
		next.Primary = Neutral
	}
	next.Intensity = clampIntensity(next.Intensity)
	next.PositiveMemory = max(next.PositiveMemory, 0)
	next.NegativeMemory = max(next.NegativeMemory, 0)
	next.TriggersAccumulated = lastN(next.TriggersAccumulated, MaxAccumulatedTriggers)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = next
}
