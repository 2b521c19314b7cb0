package commands

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/CaliLuke/go-graphschema/catalog"
	"github.com/CaliLuke/go-graphschema/schemadoc"
)

// catalogPrefix marks a diff argument that names a recorded snapshot:
// "catalog:latest" or "catalog:<hash>".
const catalogPrefix = "catalog:"

func newSnapshotCmd(a *app) *cobra.Command {
	var summary string
	cmd := &cobra.Command{
		Use:   "snapshot <schema>",
		Short: "Record a schema in the catalog",
		Long: `Record the snapshot of a schema file in the catalog.

Recording is idempotent: a schema whose hash is already in the catalog is not
recorded again. Without --message the summary is the diff against the latest
recorded snapshot.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.describeSchema(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			if summary == "" {
				latest, err := c.Latest(ctx)
				switch {
				case errors.Is(err, catalog.ErrEmpty):
					summary = "initial snapshot"
				case err != nil:
					return err
				default:
					summary = schemadoc.Diff(latest.Document, doc).Summary()
				}
			}

			snap, created, err := c.Record(ctx, doc, summary)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "already recorded: %s (%s)\n", snap.ID, snap.Hash)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recorded %s (%s): %s\n", snap.ID, snap.Hash, snap.Summary)
			return nil
		},
	}
	cmd.Flags().StringVarP(&summary, "message", "m", "", "summary stored with the snapshot")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			snaps, err := c.Applied(ctx)
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no snapshots recorded")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tHASH\tAPPLIED AT\tSUMMARY")
			for _, s := range snaps {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Hash[:12], s.AppliedAt.Format("2006-01-02 15:04:05"), s.Summary)
			}
			return w.Flush()
		},
	}
}

func newDiffCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Compare two schemas",
		Long: `Compare two schemas and list the differences.

Each argument is a schema file, or catalog:latest, or catalog:<hash> to use a
recorded snapshot.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			older, err := a.resolveDocument(cmd, args[0])
			if err != nil {
				return err
			}
			newer, err := a.resolveDocument(cmd, args[1])
			if err != nil {
				return err
			}
			d := schemadoc.Diff(older, newer)
			out := cmd.OutOrStdout()
			for _, line := range d.Changes() {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, d.Summary())
			return nil
		},
	}
}

// resolveDocument loads a document from a schema file or the catalog.
func (a *app) resolveDocument(cmd *cobra.Command, arg string) (*schemadoc.Document, error) {
	ref, ok := strings.CutPrefix(arg, catalogPrefix)
	if !ok {
		return a.describeSchema(arg)
	}

	ctx := cmd.Context()
	c, err := a.openCatalog(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	var snap catalog.Snapshot
	if ref == "latest" {
		snap, err = c.Latest(ctx)
	} else {
		snap, err = c.Get(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	return snap.Document, nil
}
