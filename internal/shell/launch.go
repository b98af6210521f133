package shell

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"tinysh/internal/jobs"
)

// launch starts argv as a new job. The registry lock is taken before the
// child is started and held through registration and terminal handoff, so
// the reaper cannot consume the child's status in between: a fast-exiting
// child stays a zombie, keeping its pid in the table's hands and its
// process group alive until the critical section ends.
func (s *Shell) launch(argv []string, background bool, cmdline string) {
	state := jobs.Foreground
	if background {
		state = jobs.Background
	}

	s.mu.Lock()
	pid, err := s.pg.Start(argv, os.Environ())
	if err != nil {
		s.mu.Unlock()
		// Any failure to resolve or execute the target program — not
		// found, not executable, not a valid binary — is the user's
		// command being wrong, not the shell's environment breaking.
		var execErr *exec.Error
		var pathErr *fs.PathError
		if errors.As(err, &execErr) || errors.As(err, &pathErr) {
			fmt.Fprintf(s.out, "%s: Command not found\n", argv[0])
			return
		}
		s.fatalf("fork error: %v", err)
		return
	}

	id, err := s.table.Add(pid, state, cmdline)
	if err != nil {
		s.mu.Unlock()
		fmt.Fprintln(s.out, "Tried to create too many jobs")
		return
	}
	if s.cfg.Verbose {
		fmt.Fprintf(s.out, "Added job [%d] %d %s\n", id, pid, cmdline)
	}
	if !background {
		if err := s.pg.SetForeground(pid); err != nil {
			s.mu.Unlock()
			s.fatalf("%v", err)
			return
		}
	}
	s.mu.Unlock()

	if background {
		fmt.Fprintf(s.out, "[%d] (%d) %s\n", id, pid, cmdline)
		return
	}

	s.waitForeground(pid)
	if err := s.pg.Reclaim(); err != nil {
		s.fatalf("%v", err)
	}
}

// bgfg implements the bg and fg builtins: resolve the target by %jobid or
// pid, continue its process group, and either hand it the terminal and wait
// (fg) or report it running in the background (bg).
func (s *Shell) bgfg(argv []string) {
	if len(argv) < 2 {
		fmt.Fprintf(s.out, "%s command requires PID or %%jobid argument\n", argv[0])
		return
	}
	fg := argv[0] == "fg"
	arg := argv[1]

	byJobID := strings.HasPrefix(arg, "%")
	digits := arg
	if byJobID {
		digits = arg[1:]
	}
	if !numeric(digits) {
		fmt.Fprintf(s.out, "%s: argument must be a PID or %%jobid\n", argv[0])
		return
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		fmt.Fprintf(s.out, "%s: argument must be a PID or %%jobid\n", argv[0])
		return
	}

	s.mu.Lock()
	var job *jobs.Job
	if byJobID {
		if job = s.table.ByID(n); job == nil {
			s.mu.Unlock()
			fmt.Fprintf(s.out, "%s: No such job\n", arg)
			return
		}
	} else {
		if job = s.table.ByPID(n); job == nil {
			s.mu.Unlock()
			fmt.Fprintf(s.out, "(%s): No such process\n", arg)
			return
		}
	}

	// Copy out everything needed for reporting before releasing the
	// lock: the reaper may delete the job the moment SIGCONT lands.
	id, pid, cmdline := job.ID, job.PID, job.Cmdline
	if fg {
		job.State = jobs.Foreground
	} else {
		job.State = jobs.Background
	}
	if err := s.pg.SignalGroup(pid, unix.SIGCONT); err != nil {
		s.mu.Unlock()
		s.fatalf("%v", err)
		return
	}
	if fg {
		if err := s.pg.SetForeground(pid); err != nil {
			s.mu.Unlock()
			s.fatalf("%v", err)
			return
		}
	}
	s.mu.Unlock()

	if fg {
		s.waitForeground(pid)
		if err := s.pg.Reclaim(); err != nil {
			s.fatalf("%v", err)
		}
	} else {
		fmt.Fprintf(s.out, "[%d] (%d) %s\n", id, pid, cmdline)
	}
}

// waitForeground blocks until pid is no longer the foreground job: it
// exited, was stopped, or lost the role. Cond.Wait atomically releases the
// registry lock and parks, so a reaper update between the check and the
// sleep cannot be lost. This is the only place the shell blocks
// indefinitely, and that is deliberate.
func (s *Shell) waitForeground(pid int) {
	s.mu.Lock()
	for s.table.ForegroundPID() == pid {
		s.fgDone.Wait()
	}
	s.mu.Unlock()
}

func numeric(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
