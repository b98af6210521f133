// Package shell implements the interactive loop and the job-control core:
// launching children into their own process groups, tracking them in a
// bounded job table, and mediating signals between the terminal, the shell
// and its jobs.
//
// Two actors touch the job table: the main loop and the signal reaction
// goroutine. Every multi-step access happens under mu, and the foreground
// wait parks on a condition variable tied to the same mutex, so a state
// change can never slip between the check and the sleep.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"tinysh/internal/config"
	"tinysh/internal/history"
	"tinysh/internal/jobs"
	"tinysh/internal/proc"
)

type Shell struct {
	cfg     *config.Config
	out     io.Writer
	table   *jobs.Table
	pg      *proc.Controller
	history *history.History

	// mu is the registry lock: the exclusion between the main loop and
	// the signal reaction goroutine. fgDone is broadcast by the reaper
	// whenever the table changes.
	mu     sync.Mutex
	fgDone *sync.Cond

	sigCh          chan os.Signal
	sigOnce        sync.Once
	interruptCount int
}

// New builds a shell writing all status output to out. The original
// redirected stderr onto stdout, so everything user-visible goes through a
// single writer.
func New(cfg *config.Config, out io.Writer) (*Shell, error) {
	hist, err := history.New(cfg.HistoryFile, cfg.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("error initializing history: %w", err)
	}

	s := &Shell{
		cfg:     cfg,
		out:     out,
		table:   jobs.New(cfg.MaxJobs),
		pg:      proc.NewController(out, cfg.Verbose),
		history: hist,
	}
	s.fgDone = sync.NewCond(&s.mu)
	return s, nil
}

// Run executes the read-eval loop until EOF or a forced exit.
func (s *Shell) Run() error {
	s.startSignals()
	defer s.saveHistory()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		return s.runInteractive()
	}
	return s.runScanner(os.Stdin)
}

func (s *Shell) runInteractive() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      s.cfg.Prompt,
		HistoryFile: s.cfg.HistoryFile,
	})
	if err != nil {
		return fmt.Errorf("error initializing readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if s.interruptCount++; s.interruptCount >= 2 {
				fmt.Fprintln(s.out, "\nForced exit")
				return nil
			}
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		s.interruptCount = 0
		s.Eval(line)
	}
}

// runScanner drives the shell from a pipe, the mode test harnesses use.
func (s *Shell) runScanner(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for {
		if s.cfg.Prompt != "" {
			fmt.Fprint(s.out, s.cfg.Prompt)
		}
		if !scanner.Scan() {
			break
		}
		s.Eval(scanner.Text())
	}
	return scanner.Err()
}

// Eval runs one command line: builtins immediately, everything else as a
// foreground or background job.
func (s *Shell) Eval(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	s.history.Add(line)

	argv, background, err := parse(line)
	if err != nil {
		fmt.Fprintf(s.out, "parse error: %v\n", err)
		return
	}
	if len(argv) == 0 {
		return
	}

	if s.runBuiltin(argv) {
		return
	}
	s.launch(argv, background, line)
}

func (s *Shell) saveHistory() {
	if err := s.history.Save(); err != nil {
		fmt.Fprintf(s.out, "Error saving history: %v\n", err)
	}
}

// fatalf reports an unrecoverable environmental failure and terminates the
// shell: continuing with an inconsistent process or signal state is unsafe.
func (s *Shell) fatalf(format string, args ...any) {
	fmt.Fprintf(s.out, format+"\n", args...)
	os.Exit(1)
}
