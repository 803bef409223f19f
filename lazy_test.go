package blockmap

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestLazyBuildsOnce(t *testing.T) {
	var builds atomic.Int32
	l := NewLazy(func() (*Table, error) {
		builds.Add(1)
		return NewTable(testStates(), testConfig(8))
	})

	const workers = 32
	tables := make([]*Table, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			tbl, err := l.Table()
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			tables[i] = tbl
			// Lookups must never observe a half built table.
			if tbl.RuntimeID(99, 0) != tbl.Placeholder() {
				t.Errorf("worker %d: placeholder lookup failed", i)
			}
		}()
	}
	close(start)
	wg.Wait()

	if n := builds.Load(); n != 1 {
		t.Fatalf("table built %d times", n)
	}
	for i, tbl := range tables {
		if tbl != tables[0] {
			t.Errorf("worker %d received a different table", i)
		}
	}

	if got, want := l.RuntimeID(1, 1), tables[0].RuntimeID(1, 1); got != want {
		t.Errorf("Lazy.RuntimeID = %d, expected %d", got, want)
	}
	if id, meta, ok := l.Legacy(l.RuntimeID(35, 15)); !ok || id != 35 || meta != 15 {
		t.Errorf("Lazy.Legacy = (%d, %d, %v)", id, meta, ok)
	}
	if len(l.Export()) != tables[0].Len() {
		t.Error("Lazy.Export returned a different palette")
	}
}

func TestLazyFailure(t *testing.T) {
	errBroken := errors.New("broken resource")
	var builds atomic.Int32
	l := NewLazy(func() (*Table, error) {
		builds.Add(1)
		return nil, errBroken
	})

	for range 3 {
		tbl, err := l.Table()
		if tbl != nil || !errors.Is(err, errBroken) {
			t.Fatalf("expected the build error, got %v, %v", tbl, err)
		}
	}
	if n := builds.Load(); n != 1 {
		t.Errorf("failed build retried: %d builds", n)
	}

	defer func() {
		if recover() == nil {
			t.Error("lookup on a failed table did not panic")
		}
	}()
	l.RuntimeID(1, 0)
}

func TestLazyLoadPanic(t *testing.T) {
	l := NewLazy(func() (*Table, error) {
		panic("resource reader crashed")
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic in load was swallowed")
			}
		}()
		_, _ = l.Table()
	}()

	tbl, err := l.Table()
	if tbl != nil || !errors.Is(err, errLoadAborted) {
		t.Fatalf("expected errLoadAborted after a panicking load, got %v, %v", tbl, err)
	}

	defer func() {
		r := recover()
		if err, ok := r.(error); !ok || !errors.Is(err, errLoadAborted) {
			t.Errorf("lookup panicked with %v, expected errLoadAborted", r)
		}
	}()
	l.RuntimeID(1, 0)
}
