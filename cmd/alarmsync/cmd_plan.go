package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mizutama/alarmsync/types"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute and print the alarm change set without applying it",
	Long: `Compute the alarm change set and print it without touching CloudWatch.

Discovery and the alarm inventory listing still run against AWS; only the
create and delete calls are skipped.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}

	changes, err := rt.changeSet(ctx)
	if err != nil {
		return err
	}

	displayChangeSet(os.Stdout, changes)
	return nil
}

func displayChangeSet(w io.Writer, changes *types.ChangeSet) {
	fmt.Fprintf(w, "Plan: %d to create, %d to keep, %d to delete\n",
		len(changes.ToCreate), len(changes.ToKeep), len(changes.ToDelete))

	for _, spec := range changes.ToCreate {
		fmt.Fprintf(w, "  + %s\n", spec.AlarmName)
	}
	for _, name := range changes.ToDelete {
		fmt.Fprintf(w, "  - %s\n", name)
	}
	if changes.IsEmpty() {
		fmt.Fprintln(w, "Nothing to do.")
	}
}
