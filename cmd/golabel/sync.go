package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/philipparndt/golabel/pkg/reconcile"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync <labels.json> <pcd-dir>",
	Short: "Reconcile label file references with the point cloud directory",
	Long: `Match every frame in the label file against the .pcd files on disk by
fuzzy filename similarity, rewrite the file references to the actual
filenames, and sort the frames chronologically. The label file is only
written when every frame found a match.`,
	Args: cobra.ExactArgs(2),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	jsonPath, dir := args[0], args[1]

	c := cutoff
	if c <= 0 {
		c = reconcile.DefaultCutoff
	}

	n, err := reconcile.Sync(jsonPath, dir, c)
	if err != nil {
		var countErr *reconcile.CountMismatchError
		var matchErr *reconcile.NoMatchError
		switch {
		case errors.As(err, &countErr):
			fmt.Fprintf(os.Stderr, "cannot reconcile: %d frames but %d cloud files\n", countErr.Records, countErr.Files)
		case errors.As(err, &matchErr):
			fmt.Fprintf(os.Stderr, "cannot reconcile: no match for %q in %s\n", matchErr.File, matchErr.Dir)
		}
		return err
	}

	fmt.Printf("Reconciled %d frames in %s\n", n, jsonPath)
	return nil
}
