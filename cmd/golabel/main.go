package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/golabel/internal/app"
	"github.com/philipparndt/golabel/version"
	"github.com/spf13/cobra"
)

var (
	cutoff    float64
	pointSize float64
	noSync    bool
)

var rootCmd = &cobra.Command{
	Use:   "golabel <labels.json> <pcd-dir>",
	Short: "Interactive 3D bounding box editor for point cloud labels",
	Long: `golabel opens a label file together with its point cloud directory and
lets you inspect and edit oriented bounding boxes frame by frame. Boxes can
be moved and resized in three projection views, rotated around the vertical
axis, and saved back without touching the original file.`,
	Version: version.GetFullVersion(),
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(app.Options{
			LabelPath: args[0],
			CloudDir:  args[1],
			Cutoff:    cutoff,
			PointSize: pointSize,
			SkipSync:  noSync,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&cutoff, "cutoff", 0, "fuzzy filename match cutoff (0 uses the default of 0.6)")
	rootCmd.Flags().Float64Var(&pointSize, "point-size", 0, "size of highlighted points in world units")
	rootCmd.Flags().BoolVar(&noSync, "no-sync", false, "skip filename reconciliation on startup")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
