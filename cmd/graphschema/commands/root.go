// Package commands implements the graphschema CLI commands.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/CaliLuke/go-graphschema/catalog"
	"github.com/CaliLuke/go-graphschema/cmd/graphschema/internal/config"
	"github.com/CaliLuke/go-graphschema/schemadoc"
	"github.com/CaliLuke/go-graphschema/schemadsl"
)

// app carries the state shared by every command of one invocation.
type app struct {
	// Global flags
	configPath  string
	catalogPath string
	verbose     bool

	cfg    *config.Config
	logger *slog.Logger
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "graphschema",
		Short: "Declare, validate and track graph schemas",
		Long: `graphschema - tooling for declarative graph schemas.

A schema file declares nodes, relationships and their properties:

  define
  node person class Person,
      owns name string @notnull @indexed,
      owns email string @regex("^[^@]+@[^@]+$");
  relationship knows class Knows,
      owns since datetime;
  adjacency person knows @direction(out) @multi;

Configuration is read from ~/.graphschema/config.yaml (or $GRAPHSCHEMA_CONFIG):

  catalog: ~/.graphschema/catalog.db
  log_level: info`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.graphschema/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.catalogPath, "catalog", "", "catalog database (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newCheckCmd(a),
		newRenderCmd(a),
		newDescribeCmd(a),
		newJSONSchemaCmd(a),
		newGenCmd(a),
		newValidateCmd(a),
		newSnapshotCmd(a),
		newHistoryCmd(a),
		newDiffCmd(a),
	)
	return rootCmd
}

// setup loads the configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if a.catalogPath != "" {
		cfg.Catalog = a.catalogPath
	}
	a.cfg = cfg

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

// loadSchema parses and loads a schema file.
func (a *app) loadSchema(path string) (*schemadsl.Schema, error) {
	parsed, err := schemadsl.ParseSchemaFile(path)
	if err != nil {
		return nil, err
	}
	s, err := schemadsl.Load(parsed)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	a.logger.Debug("loaded schema", "path", path, "classes", len(s.MetaData.Classes()), "adjacencies", len(s.Adjacencies))
	return s, nil
}

// describeSchema loads a schema file and snapshots it.
func (a *app) describeSchema(path string) (*schemadoc.Document, error) {
	s, err := a.loadSchema(path)
	if err != nil {
		return nil, err
	}
	return schemadoc.Describe(s.MetaData, s.Adjacencies), nil
}

// openCatalog opens the configured catalog, creating its directory.
func (a *app) openCatalog(ctx context.Context) (*catalog.Catalog, error) {
	if err := a.cfg.EnsureCatalogDir(); err != nil {
		return nil, err
	}
	a.logger.Debug("opening catalog", "path", a.cfg.Catalog)
	return catalog.Open(ctx, a.cfg.Catalog, catalog.WithLogger(a.logger))
}
