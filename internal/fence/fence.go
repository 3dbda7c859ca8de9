// Package fence discards results of superseded asynchronous work.
//
// Each logical key (a heatmap range, a scenario, a poll) gets a monotonically
// increasing token per request. A result is applied only if its token is
// still the newest one issued for that key.
package fence

import "sync"

// Status is the lifecycle state of a key.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	}
	return "idle"
}

// Token identifies one request for a key. Zero is never issued.
type Token uint64

// State is the last applied outcome for a key.
type State[T any] struct {
	Status Status
	Value  T
	Err    error
	Token  Token // newest token issued
}

// Tracker holds per-key state. The zero value is not usable; call New.
type Tracker[T any] struct {
	mu     sync.Mutex
	next   Token
	states map[string]*State[T]
}

// New returns an empty Tracker.
func New[T any]() *Tracker[T] {
	return &Tracker[T]{states: make(map[string]*State[T])}
}

// Begin issues a fresh token for key and marks it Loading. The previous value
// is kept so a UI can keep showing it while the new request runs.
func (t *Tracker[T]) Begin(key string) Token {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	st, ok := t.states[key]
	if !ok {
		st = &State[T]{}
		t.states[key] = st
	}
	st.Status = Loading
	st.Token = t.next
	return t.next
}

// Resolve applies value or err to key if tok is still current. It reports
// whether the result was applied; stale results are dropped.
func (t *Tracker[T]) Resolve(key string, tok Token, value T, err error) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.states[key]
	if !ok || st.Token != tok {
		return false
	}
	if err != nil {
		st.Status = Error
		st.Err = err
		return true
	}
	st.Status = Success
	st.Value = value
	st.Err = nil
	return true
}

// Current reports whether tok is the newest token for key.
func (t *Tracker[T]) Current(key string, tok Token) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.states[key]
	return ok && st.Token == tok
}

// Get returns a copy of key's state. Unknown keys are Idle.
func (t *Tracker[T]) Get(key string) State[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.states[key]; ok {
		return *st
	}
	return State[T]{}
}

// Reset forgets key.
func (t *Tracker[T]) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, key)
}
