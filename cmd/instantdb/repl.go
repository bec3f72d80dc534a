package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"
	"github.com/maruel/instantdb"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const prompt = "instantdb> "

// lineReader returns one input line per call, io.EOF at the end.
type lineReader interface {
	Prompt(p string) (string, error)
}

type linerReader struct {
	line *liner.State
}

func (l *linerReader) Prompt(p string) (string, error) {
	s, err := l.line.Prompt(p)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) != "" {
		l.line.AppendHistory(s)
	}
	return s, nil
}

// scanReader reads lines without prompting, for piped input.
type scanReader struct {
	s *bufio.Scanner
}

func (r *scanReader) Prompt(string) (string, error) {
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.s.Text(), nil
}

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Edit the database interactively; changes are kept until commit",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			act, err := db.Action()
			if err != nil {
				return err
			}
			var r lineReader
			if f, ok := a.in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
				line := liner.NewLiner()
				defer line.Close()
				line.SetCtrlCAborts(true)
				a.readHistory(line)
				defer a.writeHistory(line)
				r = &linerReader{line: line}
			} else {
				r = &scanReader{s: bufio.NewScanner(a.in)}
			}
			return a.runREPL(cmd.OutOrStdout(), r, act)
		},
	}
}

func (a *app) readHistory(line *liner.State) {
	if a.cfg.History == "" {
		return
	}
	f, err := os.Open(a.cfg.History)
	if err != nil {
		return
	}
	defer f.Close()
	if _, err := line.ReadHistory(f); err != nil {
		a.logger.Warn("Failed to read history", "path", a.cfg.History, "error", err)
	}
}

func (a *app) writeHistory(line *liner.State) {
	if a.cfg.History == "" {
		return
	}
	f, err := os.Create(a.cfg.History)
	if err != nil {
		a.logger.Warn("Failed to write history", "path", a.cfg.History, "error", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		a.logger.Warn("Failed to write history", "path", a.cfg.History, "error", err)
	}
}

// runREPL executes commands against act until end of input or exit.
//
// Command errors are printed and do not end the session.
func (a *app) runREPL(w io.Writer, r lineReader, act *instantdb.Action) error {
	s := stagedStore{a: act}
	dirty := false
	for {
		line, err := r.Prompt(prompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			break
		}
		if err != nil {
			return err
		}
		args, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch name := args[0]; name {
		case "exit", "quit":
			if dirty {
				a.logger.Warn("Discarding uncommitted changes", "action", act.ID())
			}
			return nil
		case "help":
			printREPLHelp(w)
		case "diff":
			d, err := act.Diff()
			if err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
			} else if d == "" {
				fmt.Fprintln(w, "no changes")
			} else {
				fmt.Fprintln(w, d)
			}
		case "commit":
			if _, err := act.Commit(); err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
				continue
			}
			dirty = false
		case "rollback":
			if _, err := act.Rollback(); err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
				continue
			}
			dirty = false
		default:
			c, ok := lookupKVCommand(name)
			if !ok {
				fmt.Fprintf(w, "error: unknown command %q, try help\n", name)
				continue
			}
			if err := c.check(nil, args[1:]); err != nil {
				fmt.Fprintf(w, "error: %s: %v\n", name, err)
				continue
			}
			if err := c.run(w, s, args[1:]); err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
				continue
			}
			if c.mutates {
				dirty = true
			}
		}
	}
	if dirty {
		a.logger.Warn("Discarding uncommitted changes", "action", act.ID())
	}
	return nil
}

func printREPLHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	for _, c := range kvCommands {
		fmt.Fprintf(w, "  %-22s %s\n", strings.TrimSpace(c.name+" "+c.args), c.short)
	}
	fmt.Fprintf(w, "  %-22s %s\n", "diff", "Show staged changes")
	fmt.Fprintf(w, "  %-22s %s\n", "commit", "Write staged changes to the file")
	fmt.Fprintf(w, "  %-22s %s\n", "rollback", "Restore the file as it was when the session started")
	fmt.Fprintf(w, "  %-22s %s\n", "exit", "Leave, discarding uncommitted changes")
}
