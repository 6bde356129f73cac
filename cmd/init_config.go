/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c12i/scaffolding/core/config"
	"github.com/c12i/scaffolding/core/logger"
)

var (
	force bool
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a default scaffold.yaml",
	Long:  `Writes a scaffold.yaml with the default template, exclusions and merge rules into the project directory.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("init-config called")
		dir, err := projectDir()
		if err != nil {
			return err
		}
		p, err := config.Write(appFs, dir, config.Default(), force)
		if errors.Is(err, config.ErrConfigExists) {
			return fmt.Errorf("%w, use --force to overwrite", err)
		}
		if err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
		return nil
	},
}

func init() {
	initConfigCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initConfigCmd)
}
