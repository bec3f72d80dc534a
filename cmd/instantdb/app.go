package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/maruel/instantdb"
	"github.com/maruel/instantdb/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// app is the state shared by all commands of one invocation.
type app struct {
	// Flag values.
	configFile string
	file       string
	backend    string
	deleteMode string
	logLevel   string

	cfg    *config.Config
	level  *slog.LevelVar
	logger *slog.Logger
	in     io.Reader
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "instantdb",
		Short:             "Edit JSON files used as a key/value database",
		Long:              "instantdb reads and edits a JSON object used as a key/value database, or a JSON array used as a list of records.",
		PersistentPreRunE: a.preRun,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	fs := root.PersistentFlags()
	fs.StringVar(&a.configFile, "config", "", "`file` to load settings from (.yaml, .yml, .toml, .hcl or .json)")
	fs.StringVarP(&a.file, "file", "f", "", "database `file`")
	fs.StringVar(&a.backend, "backend", "", "storage backend: file or bolt")
	fs.StringVar(&a.deleteMode, "delete-mode", "", "document deletion mode: through or matched")
	fs.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	for _, c := range kvCommands {
		root.AddCommand(a.kvCmd(c))
	}
	root.AddCommand(
		a.randomCmd(),
		a.importCmd(),
		a.exportCmd(),
		a.schemaCmd(),
		a.watchCmd(),
		a.versionCmd(),
		a.docCmd(),
		a.replCmd(),
	)
	return root
}

// preRun loads the config file then applies the flags the user set.
func (a *app) preRun(cmd *cobra.Command, _ []string) error {
	set := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		set[f.Name] = true
	})
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if set["file"] {
		cfg.Path = a.file
	}
	if set["backend"] {
		cfg.Backend = a.backend
	}
	if set["delete-mode"] {
		cfg.DeleteMode = a.deleteMode
	}
	if set["log-level"] {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	if err := a.level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("unknown log level: %q", cfg.LogLevel)
	}
	a.cfg = cfg
	a.logger.Debug("Loaded config", "path", cfg.Path, "backend", cfg.Backend, "delete_mode", cfg.DeleteMode)
	return nil
}

func (a *app) options(extra ...instantdb.Option) ([]instantdb.Option, error) {
	mode, err := instantdb.ParseDeleteMode(a.cfg.DeleteMode)
	if err != nil {
		return nil, err
	}
	opts := []instantdb.Option{instantdb.WithLogger(a.logger), instantdb.WithDeleteMode(mode)}
	if a.cfg.Backend == config.BackendBolt {
		opts = append(opts, instantdb.WithBolt(a.cfg.Bucket, a.cfg.Key))
	}
	return append(opts, extra...), nil
}

func (a *app) openDB() (*instantdb.Database, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	return instantdb.Open(a.cfg.Path, opts...)
}

func (a *app) openDoc(extra ...instantdb.Option) (*instantdb.Document[any], error) {
	opts, err := a.options(extra...)
	if err != nil {
		return nil, err
	}
	return instantdb.OpenDocument[any](a.cfg.Path, opts...)
}
