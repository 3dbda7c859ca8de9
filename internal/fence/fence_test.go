package fence

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestTracker_StaleResultDiscarded(t *testing.T) {
	tr := New[int]()

	first := tr.Begin("scenario")
	second := tr.Begin("scenario")

	if tr.Resolve("scenario", first, 1, nil) {
		t.Error("stale result was applied")
	}
	if got := tr.Get("scenario"); got.Status != Loading {
		t.Errorf("Status = %v, want loading", got.Status)
	}

	if !tr.Resolve("scenario", second, 2, nil) {
		t.Fatal("current result was dropped")
	}
	got := tr.Get("scenario")
	if got.Status != Success || got.Value != 2 {
		t.Errorf("state = %+v", got)
	}

	// A late stale result after success must not overwrite it either.
	if tr.Resolve("scenario", first, 1, nil) {
		t.Error("late stale result was applied")
	}
	if tr.Get("scenario").Value != 2 {
		t.Error("value overwritten by stale result")
	}
}

func TestTracker_KeysIndependent(t *testing.T) {
	tr := New[string]()

	a := tr.Begin("a")
	b := tr.Begin("b")
	if a == b {
		t.Fatal("tokens must be unique across keys")
	}
	if !tr.Resolve("a", a, "A", nil) || !tr.Resolve("b", b, "B", nil) {
		t.Fatal("independent keys should both resolve")
	}
}

func TestTracker_ErrorKeepsPreviousValue(t *testing.T) {
	tr := New[int]()

	tok := tr.Begin("k")
	tr.Resolve("k", tok, 7, nil)

	tok = tr.Begin("k")
	boom := errors.New("boom")
	if !tr.Resolve("k", tok, 0, boom) {
		t.Fatal("error result dropped")
	}
	st := tr.Get("k")
	if st.Status != Error || !errors.Is(st.Err, boom) || st.Value != 7 {
		t.Errorf("state = %+v", st)
	}
}

func TestTracker_UnknownKeyIdle(t *testing.T) {
	tr := New[int]()
	if st := tr.Get("nope"); st.Status != Idle {
		t.Errorf("Status = %v, want idle", st.Status)
	}
	if tr.Resolve("nope", 1, 1, nil) {
		t.Error("resolve on unknown key applied")
	}

	tok := tr.Begin("k")
	tr.Reset("k")
	if tr.Current("k", tok) {
		t.Error("token current after Reset")
	}
}

func TestTracker_Concurrent(t *testing.T) {
	tr := New[int]()
	var wg sync.WaitGroup
	tokens := make([]Token, 50)

	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i] = tr.Begin("k")
		}(i)
	}
	wg.Wait()

	var newest Token
	for _, tok := range tokens {
		if tok > newest {
			newest = tok
		}
	}

	var applied atomic.Int32
	for _, tok := range tokens {
		wg.Add(1)
		go func(tok Token) {
			defer wg.Done()
			if tr.Resolve("k", tok, int(tok), nil) {
				applied.Add(1)
			}
		}(tok)
	}
	wg.Wait()

	if applied.Load() != 1 {
		t.Errorf("applied = %d, want exactly 1", applied.Load())
	}
	if tr.Get("k").Value != int(newest) {
		t.Errorf("Value = %d, want %d", tr.Get("k").Value, newest)
	}
}
