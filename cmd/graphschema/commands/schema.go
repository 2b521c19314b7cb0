package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CaliLuke/go-graphschema/schemadoc"
	"github.com/CaliLuke/go-graphschema/schemadsl"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <schema>",
		Short: "Parse and load a schema file",
		Long: `Parse and load a schema file, reporting the first error found.

On success the number of declared models and the schema hash are printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSchema(args[0])
			if err != nil {
				return err
			}
			doc := schemadoc.Describe(s.MetaData, s.Adjacencies)
			hash, err := doc.Hash()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d node(s), %d relationship(s), %d adjacency(ies)\nhash: %s\n",
				len(s.MetaData.Nodes()), len(s.MetaData.Relationships()), len(s.Adjacencies), hash)
			return nil
		},
	}
}

func newRenderCmd(a *app) *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "render <schema>",
		Short: "Print the canonical form of a schema file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSchema(args[0])
			if err != nil {
				return err
			}
			if outFile == "" {
				return schemadsl.Render(cmd.OutOrStdout(), s)
			}
			f, err := os.Create(outFile)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer func() { _ = f.Close() }()
			if err := schemadsl.Render(f, s); err != nil {
				return err
			}
			a.logger.Info("rendered schema", "out", outFile)
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <schema>",
		Short: "Print the schema snapshot as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.describeSchema(args[0])
			if err != nil {
				return err
			}
			data, err := schemadoc.MarshalYAML(doc)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newJSONSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema <schema> <class>",
		Short: "Export one class as JSON Schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.describeSchema(args[0])
			if err != nil {
				return err
			}
			js, err := schemadoc.JSONSchema(doc, args[1])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(js)
		},
	}
}

func newGenCmd(a *app) *cobra.Command {
	var (
		outFile string
		cfg     = schemadsl.DefaultGoConfig()
	)
	cmd := &cobra.Command{
		Use:   "gen <schema>",
		Short: "Generate Go structs bound to the schema",
		Long: `Generate one Go struct per model, tagged for the bind package, plus a
Register function that binds every struct to its class.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSchema(args[0])
			if err != nil {
				return err
			}
			if outFile == "" {
				return schemadsl.GenerateGo(cmd.OutOrStdout(), s, cfg)
			}
			f, err := os.Create(outFile)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer func() { _ = f.Close() }()
			if err := schemadsl.GenerateGo(f, s, cfg); err != nil {
				return err
			}
			a.logger.Info("generated Go code", "out", outFile, "package", cfg.PackageName)
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output Go file (default: stdout)")
	cmd.Flags().StringVar(&cfg.PackageName, "pkg", cfg.PackageName, "package name for generated code")
	cmd.Flags().StringVar(&cfg.ModulePath, "module", cfg.ModulePath, "import path of the graphschema module")
	cmd.Flags().BoolVar(&cfg.Enums, "enums", cfg.Enums, "generate string constants from @values constraints")
	return cmd
}
