/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c12i/scaffolding/core/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the version of scaffolding",
	Long:  `Displays the version of scaffolding.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scaffolding %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
