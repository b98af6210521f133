// Package jobs maintains the shell's table of active jobs. The table is a
// plain fixed-capacity structure with no locking of its own: callers are
// responsible for holding the shell's registry lock around every access so
// the signal reaction goroutine and the main loop never observe it torn.
package jobs

import "errors"

// State describes where a job currently runs.
type State int

const (
	// Foreground is the job the shell's main loop is blocked on. At most
	// one live job may be in this state.
	Foreground State = iota + 1
	// Background jobs run detached from the terminal.
	Background
	// Stopped jobs have been suspended by a stop signal and can be
	// resumed with bg or fg.
	Stopped
)

// String renders the state the way the jobs listing displays it.
func (s State) String() string {
	switch s {
	case Foreground:
		return "Foreground"
	case Background:
		return "Running"
	case Stopped:
		return "Stopped"
	default:
		return "Undefined"
	}
}

// Job is one shell-managed child process. PID doubles as the process group
// id: every job is launched as the sole member of its own group.
type Job struct {
	PID     int
	ID      int
	State   State
	Cmdline string
}

// ErrTableFull is returned by Add when every slot is occupied.
var ErrTableFull = errors.New("job table full")

var errInvalidPID = errors.New("invalid pid")

// Table is a bounded collection of jobs. A slot with PID 0 is free.
type Table struct {
	slots  []Job
	nextID int
}

// New returns an empty table with the given capacity.
func New(capacity int) *Table {
	return &Table{
		slots:  make([]Job, capacity),
		nextID: 1,
	}
}

// Add registers a job in the first free slot and returns its job id.
func (t *Table) Add(pid int, state State, cmdline string) (int, error) {
	if pid < 1 {
		return 0, errInvalidPID
	}
	for i := range t.slots {
		if t.slots[i].PID != 0 {
			continue
		}
		id := t.nextID
		t.slots[i] = Job{PID: pid, ID: id, State: state, Cmdline: cmdline}
		if t.nextID++; t.nextID > len(t.slots) {
			t.nextID = 1
		}
		return id, nil
	}
	return 0, ErrTableFull
}

// Remove deletes the job with the given pid and reports whether it existed.
// The next job id is recomputed as max live id + 1, so ids are reused once
// the highest-numbered job is gone. User-visible numbering depends on this.
func (t *Table) Remove(pid int) bool {
	if pid < 1 {
		return false
	}
	for i := range t.slots {
		if t.slots[i].PID == pid {
			t.slots[i] = Job{}
			t.nextID = t.maxID() + 1
			return true
		}
	}
	return false
}

// ByPID returns the live job with the given pid, or nil. The pointer refers
// into the table; mutate it only while holding the registry lock.
func (t *Table) ByPID(pid int) *Job {
	if pid < 1 {
		return nil
	}
	for i := range t.slots {
		if t.slots[i].PID == pid {
			return &t.slots[i]
		}
	}
	return nil
}

// ByID returns the live job with the given job id, or nil.
func (t *Table) ByID(id int) *Job {
	if id < 1 {
		return nil
	}
	for i := range t.slots {
		if t.slots[i].PID != 0 && t.slots[i].ID == id {
			return &t.slots[i]
		}
	}
	return nil
}

// ForegroundPID returns the pid of the foreground job, or 0 if there is
// none.
func (t *Table) ForegroundPID() int {
	for i := range t.slots {
		if t.slots[i].PID != 0 && t.slots[i].State == Foreground {
			return t.slots[i].PID
		}
	}
	return 0
}

// Jobs returns copies of the live jobs in slot order. Slot order is stable
// across calls that do not change the table.
func (t *Table) Jobs() []Job {
	out := make([]Job, 0, len(t.slots))
	for i := range t.slots {
		if t.slots[i].PID != 0 {
			out = append(out, t.slots[i])
		}
	}
	return out
}

func (t *Table) maxID() int {
	max := 0
	for i := range t.slots {
		if t.slots[i].PID != 0 && t.slots[i].ID > max {
			max = t.slots[i].ID
		}
	}
	return max
}
