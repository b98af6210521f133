// Package proc launches child processes into their own process groups and
// controls which group owns the controlling terminal.
package proc

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Controller owns the shell's view of the terminal. It remembers the
// shell's own process group so the terminal can be reclaimed whenever a
// foreground job leaves that role.
type Controller struct {
	out     io.Writer
	tty     int // fd of the controlling terminal, -1 when stdin is not one
	shellPG int
	verbose bool
}

// NewController probes stdin for a controlling terminal. Benign notices are
// written to out.
func NewController(out io.Writer, verbose bool) *Controller {
	c := &Controller{
		out:     out,
		tty:     -1,
		shellPG: unix.Getpgrp(),
		verbose: verbose,
	}
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		c.tty = fd
	}
	return c
}

// Start launches argv in a fresh process group whose id equals the child's
// pid, so terminal-generated signals never reach background children
// directly. The child inherits the shell's stdio. The child is not waited
// on here; reaping belongs to the shell's signal layer.
//
// A missing program surfaces as an error wrapping exec.ErrNotFound; any
// other failure means process creation itself broke.
func (c *Controller) Start(argv []string, env []string) (int, error) {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return 0, err
	}
	return cmd.Process.Pid, nil
}

// SetForeground hands the controlling terminal to the given process group.
// Attempting this while the shell itself sits in the background fails with
// ENOTTY; that race is inherent to terminal ownership and is swallowed,
// logged only in verbose mode. Without a controlling terminal this is a
// no-op.
func (c *Controller) SetForeground(pgid int) error {
	if c.tty < 0 {
		return nil
	}
	err := unix.IoctlSetPointerInt(c.tty, unix.TIOCSPGRP, pgid)
	if err == nil {
		return nil
	}
	if err == unix.ENOTTY {
		if c.verbose {
			fmt.Fprintln(c.out, "tcsetpgrp error: calling tcsetpgrp from the background")
		}
		return nil
	}
	return fmt.Errorf("tcsetpgrp error: %w", err)
}

// Reclaim returns the terminal to the shell's own process group.
func (c *Controller) Reclaim() error {
	return c.SetForeground(c.shellPG)
}

// SignalGroup delivers sig to every process in pgid's group. A group that
// already exited (ESRCH) is reported but not an error: the reaper may have
// consumed it between lookup and delivery.
func (c *Controller) SignalGroup(pgid int, sig unix.Signal) error {
	err := unix.Kill(-pgid, sig)
	if err == unix.ESRCH {
		fmt.Fprintf(c.out, "(%d): No such process or process group\n", pgid)
		return nil
	}
	if err != nil {
		return fmt.Errorf("kill error: %w", err)
	}
	return nil
}
