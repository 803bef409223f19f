package blockmap

import (
	"errors"
	"fmt"
	"sync"
)

// errLoadAborted is kept when the load function panics instead of returning.
var errLoadAborted = errors.New("initialise block runtime id table: load did not return")

// Lazy builds a Table on first use. It is safe for concurrent use: callers that
// race the first use wait for the single build to finish, and all of them see
// the same Table.
type Lazy struct {
	load func() (*Table, error)

	once sync.Once
	t    *Table
	err  error
}

// NewLazy returns a Lazy that builds its Table using load.
func NewLazy(load func() (*Table, error)) *Lazy {
	return &Lazy{load: load}
}

// Table returns the Table, building it if this is the first call. A failed
// build is not retried: every call returns the same error.
func (l *Lazy) Table() (*Table, error) {
	l.once.Do(func() {
		l.err = errLoadAborted
		t, err := l.load()
		if err != nil {
			l.err = fmt.Errorf("initialise block runtime id table: %w", err)
			return
		}
		l.t, l.err = t, nil
	})
	return l.t, l.err
}

// mustTable returns the Table or panics if it could not be built. The table
// resources ship with the server, so a failure here is a broken installation.
func (l *Lazy) mustTable() *Table {
	t, err := l.Table()
	if err != nil {
		panic(err)
	}
	return t
}

// RuntimeID calls Table.RuntimeID on the lazily built table. It panics if the
// table could not be built.
func (l *Lazy) RuntimeID(id uint32, meta uint16) uint32 {
	return l.mustTable().RuntimeID(id, meta)
}

// Legacy calls Table.Legacy on the lazily built table. It panics if the table
// could not be built.
func (l *Lazy) Legacy(rid uint32) (id uint32, meta uint16, ok bool) {
	return l.mustTable().Legacy(rid)
}

// Export calls Table.Export on the lazily built table. It panics if the table
// could not be built.
func (l *Lazy) Export() []ExportEntry {
	return l.mustTable().Export()
}
