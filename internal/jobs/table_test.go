package jobs

import (
	"errors"
	"reflect"
	"testing"
)

func TestAddAssignsSequentialIDs(t *testing.T) {
	tbl := New(16)

	for i, pid := range []int{101, 102, 103} {
		id, err := tbl.Add(pid, Background, "sleep 5 &")
		if err != nil {
			t.Fatalf("Add(%d): %v", pid, err)
		}
		if id != i+1 {
			t.Fatalf("Add(%d) assigned id %d, want %d", pid, id, i+1)
		}
	}
}

func TestAddRejectsInvalidPID(t *testing.T) {
	tbl := New(4)
	if _, err := tbl.Add(0, Background, "true"); err == nil {
		t.Fatal("expected error adding pid 0")
	}
	if _, err := tbl.Add(-5, Background, "true"); err == nil {
		t.Fatal("expected error adding negative pid")
	}
}

func TestAddFailsSoftlyWhenFull(t *testing.T) {
	tbl := New(2)
	if _, err := tbl.Add(101, Background, "sleep 1 &"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := tbl.Add(102, Background, "sleep 2 &"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, err := tbl.Add(103, Background, "sleep 3 &"); !errors.Is(err, ErrTableFull) {
		t.Fatalf("Add on full table: err = %v, want ErrTableFull", err)
	}

	// The failed add must not have disturbed existing entries.
	got := tbl.Jobs()
	if len(got) != 2 || got[0].PID != 101 || got[1].PID != 102 {
		t.Fatalf("table corrupted after full add: %+v", got)
	}
}

func TestRemoveRecomputesNextID(t *testing.T) {
	tbl := New(16)
	tbl.Add(101, Background, "a &")
	tbl.Add(102, Background, "b &")
	tbl.Add(103, Background, "c &")

	// Removing the highest-numbered job frees its id for reuse.
	if !tbl.Remove(103) {
		t.Fatal("Remove(103) = false")
	}
	id, err := tbl.Add(104, Background, "d &")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id != 3 {
		t.Fatalf("id after removing highest job = %d, want 3", id)
	}

	// Removing a middle job does not: next id stays max live + 1.
	if !tbl.Remove(102) {
		t.Fatal("Remove(102) = false")
	}
	id, err = tbl.Add(105, Background, "e &")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if id != 4 {
		t.Fatalf("id after removing middle job = %d, want 4", id)
	}
}

func TestRemoveUnknownPID(t *testing.T) {
	tbl := New(4)
	tbl.Add(101, Background, "a &")
	if tbl.Remove(999) {
		t.Fatal("Remove(999) = true for unknown pid")
	}
	if tbl.Remove(0) {
		t.Fatal("Remove(0) = true")
	}
	if len(tbl.Jobs()) != 1 {
		t.Fatal("failed removes mutated the table")
	}
}

func TestLookups(t *testing.T) {
	tbl := New(4)
	tbl.Add(101, Stopped, "vim notes")

	if j := tbl.ByPID(101); j == nil || j.ID != 1 || j.State != Stopped {
		t.Fatalf("ByPID(101) = %+v", j)
	}
	if j := tbl.ByID(1); j == nil || j.PID != 101 {
		t.Fatalf("ByID(1) = %+v", j)
	}
	if j := tbl.ByPID(999); j != nil {
		t.Fatalf("ByPID(999) = %+v, want nil", j)
	}
	if j := tbl.ByID(99); j != nil {
		t.Fatalf("ByID(99) = %+v, want nil", j)
	}
}

func TestForegroundPID(t *testing.T) {
	tbl := New(4)
	if pid := tbl.ForegroundPID(); pid != 0 {
		t.Fatalf("ForegroundPID on empty table = %d, want 0", pid)
	}

	tbl.Add(101, Background, "sleep 5 &")
	tbl.Add(102, Foreground, "sleep 5")
	if pid := tbl.ForegroundPID(); pid != 102 {
		t.Fatalf("ForegroundPID = %d, want 102", pid)
	}

	tbl.Remove(102)
	if pid := tbl.ForegroundPID(); pid != 0 {
		t.Fatalf("ForegroundPID after removal = %d, want 0", pid)
	}
}

func TestJobsFollowsSlotOrder(t *testing.T) {
	tbl := New(8)
	tbl.Add(101, Background, "a &")
	tbl.Add(102, Background, "b &")
	tbl.Add(103, Background, "c &")
	tbl.Remove(102)

	// A new job takes the freed middle slot, so it lists between the
	// survivors despite having the highest id.
	tbl.Add(104, Background, "d &")

	var pids []int
	for _, j := range tbl.Jobs() {
		pids = append(pids, j.PID)
	}
	if want := []int{101, 104, 103}; !reflect.DeepEqual(pids, want) {
		t.Fatalf("slot order = %v, want %v", pids, want)
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		Foreground: "Foreground",
		Background: "Running",
		Stopped:    "Stopped",
		State(0):   "Undefined",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
