/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/c12i/scaffolding/core/config"
	"github.com/c12i/scaffolding/core/generator"
	"github.com/c12i/scaffolding/core/logger"
	"github.com/c12i/scaffolding/core/template_engine"
)

var rootCmd = &cobra.Command{
	Use:   "scaffolding",
	Short: "Scaffold entry types and link types into a project from templates.",
	Long: `Scaffolding generates code for new entry types and link types from a
template set and merges it into an existing project without overwriting the
code the project already owns.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(verbose)
		if logfile == "" {
			return nil
		}
		f, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		logger.AddWriterForAll(f)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var logfile string
var verbose bool
var appDir string
var dryRun bool

// appFs is the filesystem every command reads and writes through.
var appFs afero.Fs = afero.NewOsFs()

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logfile, "logfile", "", "File to write logs to")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&appDir, "app-dir", "", "Project directory (defaults to the working directory)")
}

func projectDir() (string, error) {
	if appDir != "" {
		return filepath.Abs(appDir)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return wd, nil
}

// loadProject resolves the project directory and its configuration.
func loadProject() (string, *config.Config, error) {
	dir, err := projectDir()
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.Load(appFs, dir)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get config: %w", err)
	}
	if cfg.Logging.Verbose {
		logger.SetVerbose(true)
	}
	return dir, cfg, nil
}

func newGenerator() (*generator.Generator, error) {
	dir, cfg, err := loadProject()
	if err != nil {
		return nil, err
	}
	registry, err := template_engine.BuiltinRegistry()
	if err != nil {
		return nil, err
	}
	g := generator.NewGenerator(appFs, dir, cfg, registry)
	g.DryRun = dryRun
	return g, nil
}
