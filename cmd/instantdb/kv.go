package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/maruel/instantdb"
	"github.com/spf13/cobra"
)

// store is the key/value surface shared by a Database and a staged Action.
type store interface {
	Get(key string) (any, bool, error)
	Set(key string, value any) error
	Delete(keys ...string) error
	Keys() ([]string, error)
	Count() (int, error)
	All() ([]instantdb.Entry, error)
	TypeOf(key string) (instantdb.Type, error)
	Exists(key string) (bool, error)
	Math(key string, op instantdb.Operator, amount float64) (float64, error)
	Push(key string, elements ...any) error
	Pull(key string, elements ...any) error
	Clear() error
}

var _ store = (*instantdb.Database)(nil)

// stagedStore adapts an Action to store.
type stagedStore struct {
	a *instantdb.Action
}

func (s stagedStore) Get(key string) (any, bool, error) {
	v, ok := s.a.Get(key)
	return v, ok, nil
}

func (s stagedStore) Set(key string, value any) error {
	return s.a.Set(key, value)
}

func (s stagedStore) Delete(keys ...string) error {
	s.a.Delete(keys...)
	return nil
}

func (s stagedStore) Keys() ([]string, error) {
	return s.a.Keys(), nil
}

func (s stagedStore) Count() (int, error) {
	return s.a.Count(), nil
}

func (s stagedStore) All() ([]instantdb.Entry, error) {
	return s.a.All(), nil
}

func (s stagedStore) TypeOf(key string) (instantdb.Type, error) {
	return s.a.TypeOf(key), nil
}

func (s stagedStore) Exists(key string) (bool, error) {
	return s.a.Exists(key), nil
}

func (s stagedStore) Math(key string, op instantdb.Operator, amount float64) (float64, error) {
	return s.a.Math(key, op, amount)
}

func (s stagedStore) Push(key string, elements ...any) error {
	return s.a.Push(key, elements...)
}

func (s stagedStore) Pull(key string, elements ...any) error {
	return s.a.Pull(key, elements...)
}

func (s stagedStore) Clear() error {
	s.a.Delete(s.a.Keys()...)
	return nil
}

// kvCommand is a command available both on the command line and in the REPL.
type kvCommand struct {
	name    string
	args    string
	short   string
	check   cobra.PositionalArgs
	mutates bool
	run     func(w io.Writer, s store, args []string) error
}

var kvCommands = []kvCommand{
	{
		name:  "get",
		args:  "KEY",
		short: "Print the value stored at KEY",
		check: cobra.ExactArgs(1),
		run: func(w io.Writer, s store, args []string) error {
			v, ok, err := s.Get(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("key %q not found", args[0])
			}
			return printJSON(w, v)
		},
	},
	{
		name:    "set",
		args:    "KEY VALUE",
		short:   "Store VALUE at KEY; VALUE is JSON or a plain string",
		check:   cobra.ExactArgs(2),
		mutates: true,
		run: func(w io.Writer, s store, args []string) error {
			return s.Set(args[0], parseValue(args[1]))
		},
	},
	{
		name:    "delete",
		args:    "KEY...",
		short:   "Remove keys",
		check:   cobra.MinimumNArgs(1),
		mutates: true,
		run: func(w io.Writer, s store, args []string) error {
			return s.Delete(args...)
		},
	},
	{
		name:  "keys",
		short: "List keys",
		check: cobra.ExactArgs(0),
		run: func(w io.Writer, s store, args []string) error {
			keys, err := s.Keys()
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(w, k)
			}
			return nil
		},
	},
	{
		name:  "count",
		short: "Print the number of entries",
		check: cobra.ExactArgs(0),
		run: func(w io.Writer, s store, args []string) error {
			n, err := s.Count()
			if err != nil {
				return err
			}
			fmt.Fprintln(w, n)
			return nil
		},
	},
	{
		name:  "type",
		args:  "KEY",
		short: "Print the type of the value at KEY",
		check: cobra.ExactArgs(1),
		run: func(w io.Writer, s store, args []string) error {
			t, err := s.TypeOf(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(w, t)
			return nil
		},
	},
	{
		name:  "exists",
		args:  "KEY",
		short: "Print whether KEY is present",
		check: cobra.ExactArgs(1),
		run: func(w io.Writer, s store, args []string) error {
			ok, err := s.Exists(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(w, ok)
			return nil
		},
	},
	{
		name:  "all",
		short: "Print every entry as a table",
		check: cobra.ExactArgs(0),
		run: func(w io.Writer, s store, args []string) error {
			entries, err := s.All()
			if err != nil {
				return err
			}
			printEntries(w, entries)
			return nil
		},
	},
	{
		name:    "clear",
		short:   "Remove every entry",
		check:   cobra.ExactArgs(0),
		mutates: true,
		run: func(w io.Writer, s store, args []string) error {
			return s.Clear()
		},
	},
	{
		name:    "math",
		args:    "KEY OP AMOUNT",
		short:   "Apply OP (+, -, *, /, **) with AMOUNT to the number at KEY",
		check:   cobra.ExactArgs(3),
		mutates: true,
		run: func(w io.Writer, s store, args []string) error {
			op, err := instantdb.ParseOperator(args[1])
			if err != nil {
				return err
			}
			amount, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}
			res, err := s.Math(args[0], op, amount)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, strconv.FormatFloat(res, 'g', -1, 64))
			return nil
		},
	},
	{
		name:    "push",
		args:    "KEY VALUE...",
		short:   "Append values to the array at KEY",
		check:   cobra.MinimumNArgs(2),
		mutates: true,
		run: func(w io.Writer, s store, args []string) error {
			return s.Push(args[0], parseValues(args[1:])...)
		},
	},
	{
		name:    "pull",
		args:    "KEY VALUE...",
		short:   "Remove values from the array at KEY",
		check:   cobra.MinimumNArgs(2),
		mutates: true,
		run: func(w io.Writer, s store, args []string) error {
			return s.Pull(args[0], parseValues(args[1:])...)
		},
	},
}

func lookupKVCommand(name string) (kvCommand, bool) {
	for _, c := range kvCommands {
		if c.name == name {
			return c, true
		}
	}
	return kvCommand{}, false
}

func (a *app) kvCmd(c kvCommand) *cobra.Command {
	use := c.name
	if c.args != "" {
		use += " " + c.args
	}
	return &cobra.Command{
		Use:   use,
		Short: c.short,
		Args:  c.check,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			return c.run(cmd.OutOrStdout(), db, args)
		},
	}
}
