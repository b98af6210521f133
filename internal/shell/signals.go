package shell

import (
	"fmt"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"

	"tinysh/internal/jobs"
)

// startSignals installs the signal reaction layer: a goroutine fed by the
// runtime's signal channel. SIGTTOU is ignored so handing the terminal
// around with tcsetpgrp never stops the shell itself.
func (s *Shell) startSignals() {
	s.sigOnce.Do(func() {
		s.sigCh = make(chan os.Signal, 16)
		signal.Notify(s.sigCh, unix.SIGINT, unix.SIGTSTP, unix.SIGCHLD)
		signal.Ignore(unix.SIGTTOU)
		go s.handleSignals()
	})
}

func (s *Shell) handleSignals() {
	for sig := range s.sigCh {
		switch sig {
		case unix.SIGCHLD:
			s.reapChildren()
		case unix.SIGINT:
			s.forwardToForeground(unix.SIGINT)
		case unix.SIGTSTP:
			s.forwardToForeground(unix.SIGTSTP)
		}
	}
}

// forwardToForeground relays a terminal-generated signal to the foreground
// job's entire process group. No foreground job means nothing to do.
func (s *Shell) forwardToForeground(sig unix.Signal) {
	s.mu.Lock()
	pid := s.table.ForegroundPID()
	s.mu.Unlock()

	if pid == 0 {
		return
	}
	if err := s.pg.SignalGroup(pid, sig); err != nil {
		s.fatalf("%v", err)
	}
}

// reapChildren drains every child that has stopped or terminated without
// blocking on the ones still running. A stop updates the job in place; a
// termination removes it, with a notice when a signal did the killing.
//
// The whole drain — consuming the status included — runs under the
// registry lock. While the launcher holds the lock from start through
// registration and terminal handoff, a fast-exiting child stays a zombie
// and its process group stays valid; WNOHANG keeps the drain from ever
// blocking with the lock held.
func (s *Shell) reapChildren() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG|unix.WUNTRACED, nil)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			if err == unix.ECHILD {
				// No children remain; the drain is done.
				return
			}
			s.fatalf("waitpid error: %v", err)
			return
		}
		if pid <= 0 {
			// Children exist but none have changed state.
			return
		}

		job := s.table.ByPID(pid)
		switch {
		case ws.Stopped():
			if job != nil {
				job.State = jobs.Stopped
				fmt.Fprintf(s.out, "Job [%d] (%d) stopped by signal %d\n", job.ID, pid, int(ws.StopSignal()))
			}
		case ws.Signaled():
			if job != nil {
				fmt.Fprintf(s.out, "Job [%d] (%d) terminated by signal %d\n", job.ID, pid, int(ws.Signal()))
			}
			s.table.Remove(pid)
		default:
			s.table.Remove(pid)
		}
		s.fgDone.Broadcast()
	}
}
