package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/maruel/instantdb"
	"github.com/spf13/cobra"
)

func (a *app) randomCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "random [N]",
		Short: "Print N entries picked at random, possibly more than once",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				e, ok, err := db.Random()
				if err != nil || !ok {
					return err
				}
				printEntries(cmd.OutOrStdout(), []instantdb.Entry{e})
				return nil
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid count %q: %w", args[0], err)
			}
			entries, err := db.RandomN(n)
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import SOURCE",
		Short: "Merge SOURCE into the database",
		Long:  "Merge SOURCE into the database. SOURCE is a database file or a JSON file holding a list of {\"ID\": key, \"data\": value} entries.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			// A list of entries is not a database; load it directly.
			if data, err := os.ReadFile(args[0]); err == nil {
				if list, err := instantdb.DecodeList[any](data); err == nil {
					return db.Import(list)
				}
			}
			return db.Import(args[0])
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export TARGET",
		Short: "Merge the database into the database file TARGET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			dst, err := db.Export(args[0])
			if err != nil {
				return err
			}
			a.logger.Info("Exported database", "from", db.Path(), "to", dst.Path())
			return nil
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the entry list accepted by import",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := instantdb.EntrySchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the number of entries each time the database changes",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			return db.Watch(cmd.Context(), func() {
				n, err := db.Count()
				if err != nil {
					a.logger.Warn("Failed to read database", "path", db.Path(), "error", err)
					return
				}
				fmt.Fprintf(w, "%s: %d entries\n", db.Path(), n)
			})
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			version, goVersion, revision, dirty := getBuildInfo()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "instantdb %s\n", version)
			fmt.Fprintf(w, "  Go version: %s\n", goVersion)
			fmt.Fprintf(w, "  Revision:   %s\n", revision)
			if dirty {
				fmt.Fprintf(w, "  Modified:   true\n")
			}
		},
	}
}
