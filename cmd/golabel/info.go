package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/philipparndt/golabel/pkg/label"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <labels.json>",
	Short: "Display statistics about a label file",
	Long:  "Show frame and label counts, class distribution, and box size statistics for a label file.",
	Args:  cobra.ExactArgs(1),
	Run:   runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	store, err := label.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading label file: %v\n", err)
		os.Exit(1)
	}

	total := 0
	classes := map[string]int{}
	minExt := [3]float64{}
	maxExt := [3]float64{}
	first := true

	for i := 0; i < store.FrameCount(); i++ {
		n, _ := store.LabelCount(i)
		total += n
		names, _ := store.Classes(i)
		for j, class := range names {
			classes[class]++
			p, err := store.GetBox(i, j)
			if err != nil {
				continue
			}
			for axis := 0; axis < 3; axis++ {
				ext := p.Box.Size.Axis(axis)
				if first || ext < minExt[axis] {
					minExt[axis] = ext
				}
				if first || ext > maxExt[axis] {
					maxExt[axis] = ext
				}
			}
			first = false
		}
	}

	fmt.Println("Label File Information")
	fmt.Println("======================")
	fmt.Printf("File: %s\n\n", store.Path())

	fmt.Println("Statistics:")
	fmt.Printf("  Frames: %d\n", store.FrameCount())
	fmt.Printf("  Labels: %d\n\n", total)

	if len(classes) > 0 {
		names := make([]string, 0, len(classes))
		for name := range classes {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println("Classes:")
		for _, name := range names {
			fmt.Printf("  %s: %d\n", name, classes[name])
		}
		fmt.Println()

		fmt.Println("Box Extents:")
		fmt.Printf("  Width (X): %.3f to %.3f units\n", minExt[0], maxExt[0])
		fmt.Printf("  Depth (Y): %.3f to %.3f units\n", minExt[1], maxExt[1])
		fmt.Printf("  Height (Z): %.3f to %.3f units\n", minExt[2], maxExt[2])
	}
}
