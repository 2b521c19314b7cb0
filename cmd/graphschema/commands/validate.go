package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/CaliLuke/go-graphschema/blueprint"
)

// recordFile is one entry of a records YAML file.
type recordFile struct {
	Class  string         `yaml:"class"`
	Fields map[string]any `yaml:"fields"`
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <schema> <records.yaml>",
		Short: "Validate YAML records against a schema",
		Long: `Validate records against the models of a schema.

The records file is a YAML list:

  - class: Person
    fields:
      name: Ada
      email: ada@example.com

Fields that are not listed are treated as absent. Run with --verbose to see
every property check.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSchema(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read records: %w", err)
			}
			var records []recordFile
			if err := yaml.Unmarshal(data, &records); err != nil {
				return fmt.Errorf("parse records %s: %w", args[1], err)
			}

			v := blueprint.NewValidator(s.MetaData, blueprint.WithLogger(a.logger))
			out := cmd.OutOrStdout()
			invalid := 0
			for i, rf := range records {
				ok, errs, err := v.Run(blueprint.NewRecord(blueprint.ClassID(rf.Class), rf.Fields))
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				if ok {
					fmt.Fprintf(out, "record %d (%s): ok\n", i, rf.Class)
					continue
				}
				invalid++
				fmt.Fprintf(out, "record %d (%s): invalid\n", i, rf.Class)
				names := make([]string, 0, len(errs))
				for name := range errs {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "  %s: %s\n", name, strings.Join(errs[name], " "))
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%d of %d record(s) invalid", invalid, len(records))
			}
			return nil
		},
	}
}
