package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/c12i/scaffolding/core/config"
	"github.com/c12i/scaffolding/core/fetch"
	"github.com/c12i/scaffolding/core/file_tree"
	"github.com/c12i/scaffolding/core/logger"
	"github.com/c12i/scaffolding/core/template_engine"
)

// LocalTemplatesDir is where template get stores downloaded sets, relative
// to the project.
const LocalTemplatesDir = ".templates"

var templateName string

var templateFetcher = fetch.NewFetcher()

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage template sets",
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in template sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := template_engine.BuiltinRegistry()
		if err != nil {
			return err
		}
		for _, name := range registry.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var templateGetCmd = &cobra.Command{
	Use:   "get <locator>",
	Short: "Download a template set into the project",
	Long: `Downloads a template set from a GitHub repository (github:owner/repo,
owner/repo or https://github.com/owner/repo, each with an optional #ref) into
the project's .templates directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("template get called")
		dir, _, err := loadProject()
		if err != nil {
			return err
		}

		name, tree, err := templateFetcher.Template(cmd.Context(), args[0], templateName)
		if err != nil {
			return fmt.Errorf("failed to get template: %w", err)
		}

		target := filepath.Join(dir, LocalTemplatesDir, name)
		if exists, _ := afero.DirExists(appFs, target); exists {
			return fmt.Errorf("template %s already exists at %s", name, target)
		}
		if err := file_tree.Write(appFs, target, tree, nil); err != nil {
			return fmt.Errorf("failed to write template: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved template %s to %s\n", name, target)
		fmt.Fprintf(cmd.OutOrStdout(), "Set `template: %s` in %s to use it\n",
			filepath.ToSlash(filepath.Join(LocalTemplatesDir, name)), config.FileName)
		return nil
	},
}

func init() {
	templateGetCmd.Flags().StringVar(&templateName, "template", "", "Template set to pick when the repository has several")
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateGetCmd)
	rootCmd.AddCommand(templateCmd)
}
