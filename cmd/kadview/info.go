package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openblast/kadview/internal/pattern"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Display pattern statistics without opening a window",
	Long:  "Show hole counts, mean length and bench height, nearest-neighbor spacing statistics, and the pattern extents.",
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	session, err := loadSession()
	if err != nil {
		return err
	}
	defer session.Close()

	sum := pattern.Summarize(session.Store)

	fmt.Println("Pattern Information")
	fmt.Println("===================")
	if holesFile != "" {
		fmt.Printf("Holes file: %s\n", holesFile)
	}
	if kadFile != "" {
		fmt.Printf("KAD file: %s\n", kadFile)
	}
	fmt.Println()

	fmt.Println("Counts:")
	fmt.Printf("  Blast holes: %d\n", sum.HoleCount)
	fmt.Printf("  Drawing entities: %d\n\n", sum.EntityCount)

	if sum.HoleCount > 0 {
		fmt.Println("Holes:")
		fmt.Printf("  Mean length: %.2f m\n", sum.MeanLength)
		fmt.Printf("  Mean bench height: %.2f m\n\n", sum.MeanBench)
	}
	if sum.HoleCount > 1 {
		fmt.Println("Spacing (nearest neighbor):")
		fmt.Printf("  Mean: %.2f m\n", sum.MeanSpacing)
		fmt.Printf("  Std dev: %.2f m\n", sum.StdDevSpacing)
		fmt.Printf("  Maximum: %.2f m\n\n", sum.MaxSpacing)
	}

	if !sum.Bounds.IsEmpty() {
		size := sum.Bounds.Size()
		fmt.Println("Extents (local units):")
		fmt.Printf("  East-west: %.2f m\n", size.X)
		fmt.Printf("  North-south: %.2f m\n", size.Y)
		fmt.Printf("  Vertical: %.2f m\n", size.Z)
	}
	return nil
}
