package shell

import (
	"fmt"
	"os"
)

// runBuiltin dispatches built-in command names, reporting whether argv was
// one. quit and exit terminate the whole process with status 0.
func (s *Shell) runBuiltin(argv []string) bool {
	switch argv[0] {
	case "quit", "exit":
		s.saveHistory()
		os.Exit(0)
	case "jobs":
		s.listJobs()
	case "bg", "fg":
		s.bgfg(argv)
	case "cd":
		s.changeDirectory(argv[1:])
	case "history":
		s.showHistory()
	default:
		return false
	}
	return true
}

// listJobs enumerates the table in slot order. The lock is held for the
// whole enumeration so the listing is never torn by the reaper.
func (s *Shell) listJobs() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.table.Jobs() {
		fmt.Fprintf(s.out, "[%d] (%d) %s %s\n", job.ID, job.PID, job.State, job.Cmdline)
	}
}

func (s *Shell) changeDirectory(args []string) {
	dir := s.cfg.HomeDir
	if len(args) > 0 {
		dir = args[0]
	}
	if err := os.Chdir(dir); err != nil {
		fmt.Fprintf(s.out, "cd: %v\n", err)
	}
}

func (s *Shell) showHistory() {
	for i, cmd := range s.history.All() {
		fmt.Fprintf(s.out, "%d: %s\n", i+1, cmd)
	}
}
