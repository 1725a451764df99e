package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openblast/kadview/version"
)

var (
	holesFile string
	kadFile   string
	watchFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "kadview",
	Short: "Interactive viewer for blast patterns and drill designs",
	Long: `kadview loads drill-and-blast pattern files (blast holes and KAD
drawing entities) and shows them in linked plan and 3D views with a shared
selection. It can also report pattern statistics without opening a window.`,
	Version: version.GetFullVersion(),
	RunE:    runView,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&holesFile, "holes", "", "blast hole CSV file")
	rootCmd.PersistentFlags().StringVar(&kadFile, "kad", "", "KAD drawing CSV file")
	rootCmd.Flags().BoolVar(&watchFlag, "watch", false, "reload the hole file when it changes on disk")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
