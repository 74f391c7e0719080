package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <location> [location...]",
	Short: "Classify raw location strings into UK regions",
	Long:  "Runs the region classifier on the given strings and prints the result, useful for checking how a posting's location will bucket.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("classify"); err != nil {
			return err
		}

		table, err := regionTable()
		if err != nil {
			return err
		}

		for _, raw := range args {
			fmt.Printf("%s\t%s\n", raw, table.Classify(raw))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
