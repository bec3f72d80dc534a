package main

import (
	"fmt"

	"github.com/maruel/instantdb"
	"github.com/spf13/cobra"
)

func (a *app) docCmd() *cobra.Command {
	doc := &cobra.Command{
		Use:   "doc",
		Short: "Edit a JSON array used as a list of records",
	}
	var findMany bool
	find := &cobra.Command{
		Use:   "find PATTERN",
		Short: "Print the first record sharing a field value with the PATTERN object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePattern(args[0])
			if err != nil {
				return err
			}
			d, err := a.openDoc()
			if err != nil {
				return err
			}
			if findMany {
				rows, err := d.FindMany(p)
				if err != nil {
					return err
				}
				printRecords(cmd.OutOrStdout(), rows)
				return nil
			}
			row, ok, err := d.FindOne(p)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no record matches %s", args[0])
			}
			printRecords(cmd.OutOrStdout(), []any{row})
			return nil
		},
	}
	find.Flags().BoolVar(&findMany, "many", false, "print every matching record")

	var deleteMany, matched bool
	del := &cobra.Command{
		Use:   "delete PATTERN",
		Short: "Delete the first record sharing a field value with the PATTERN object",
		Long: "Delete the first record sharing a field value with the PATTERN object.\n\n" +
			"In the default \"through\" mode, every record before the match is deleted too. " +
			"Use --matched or --delete-mode=matched to delete only matching records.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := parsePattern(args[0])
			if err != nil {
				return err
			}
			var extra []instantdb.Option
			if matched {
				extra = append(extra, instantdb.WithDeleteMode(instantdb.DeleteMatched))
			}
			d, err := a.openDoc(extra...)
			if err != nil {
				return err
			}
			if deleteMany {
				return d.DeleteMany(p)
			}
			return d.DeleteOne(p)
		},
	}
	del.Flags().BoolVar(&deleteMany, "many", false, "delete every matching record")
	del.Flags().BoolVar(&matched, "matched", false, "delete only the matching records")

	doc.AddCommand(
		&cobra.Command{
			Use:   "insert RECORD...",
			Short: "Append records; each RECORD is JSON or a plain string",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := a.openDoc()
				if err != nil {
					return err
				}
				return d.Insert(parseValues(args)...)
			},
		},
		find,
		del,
		&cobra.Command{
			Use:   "all",
			Short: "Print every record, one per line",
			Args:  cobra.ExactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := a.openDoc()
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for row, err := range d.Iter() {
					if err != nil {
						return err
					}
					printRecords(w, []any{row})
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "size",
			Short: "Print the number of records",
			Args:  cobra.ExactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := a.openDoc()
				if err != nil {
					return err
				}
				n, err := d.Size()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every record",
			Args:  cobra.ExactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				d, err := a.openDoc()
				if err != nil {
					return err
				}
				return d.Clear()
			},
		},
	)
	return doc
}
