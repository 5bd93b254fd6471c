package jobs

import (
	"errors"
	"fmt"
)

// DefaultCapacity matches the number of jobs a session could track before the
// table became configurable.
const DefaultCapacity = 16

var ErrTableFull = errors.New("too many jobs")

// Table owns every live Job. It is not safe for concurrent use; the shell
// mutates it from its main goroutine only.
type Table struct {
	slots []*Job
	fg    int
}

func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table{
		slots: make([]*Job, capacity),
		fg:    -1,
	}
}

// Allocate claims the first free slot and returns an empty foreground job
// bound to it.
func (t *Table) Allocate() (*Job, error) {
	for i, j := range t.slots {
		if j != nil {
			continue
		}
		job := &Job{ID: i, Foreground: true}
		t.slots[i] = job
		return job, nil
	}
	return nil, fmt.Errorf("allocate job: %w (capacity %d)", ErrTableFull, len(t.slots))
}

// Release frees the slot held by id. Any *Job obtained before the call must
// not be used afterwards.
func (t *Table) Release(id int) {
	if id < 0 || id >= len(t.slots) {
		return
	}
	if t.fg == id {
		t.fg = -1
	}
	t.slots[id] = nil
}

func (t *Table) Lookup(id int) *Job {
	if id < 0 || id >= len(t.slots) {
		return nil
	}
	return t.slots[id]
}

// LookupPgid finds the launched job whose process group is pgid.
func (t *Table) LookupPgid(pgid int) *Job {
	if pgid <= 0 {
		return nil
	}
	for _, j := range t.slots {
		if j != nil && j.Pgid == pgid {
			return j
		}
	}
	return nil
}

func (t *Table) SetForeground(id int) {
	if t.Lookup(id) == nil {
		return
	}
	t.fg = id
}

func (t *Table) ClearForeground() {
	t.fg = -1
}

// Foreground returns the job currently holding the terminal, if any.
func (t *Table) Foreground() *Job {
	if t.fg < 0 {
		return nil
	}
	return t.slots[t.fg]
}

// All returns the live jobs in slot order. The slice is a snapshot; releasing
// a job while iterating it is allowed.
func (t *Table) All() []*Job {
	out := make([]*Job, 0, len(t.slots))
	for _, j := range t.slots {
		if j != nil {
			out = append(out, j)
		}
	}
	return out
}

func (t *Table) Len() int {
	n := 0
	for _, j := range t.slots {
		if j != nil {
			n++
		}
	}
	return n
}

func (t *Table) Cap() int {
	return len(t.slots)
}
