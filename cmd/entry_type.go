package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c12i/scaffolding/core/generator"
	"github.com/c12i/scaffolding/core/logger"
	"github.com/c12i/scaffolding/core/models"
)

var (
	entryDnaRole          string
	entryZome             string
	entryFields           []string
	entryReferenceByEntry bool
	entryNoUpdate         bool
	entryNoDelete         bool
	entryLinkUpdates      bool
)

var entryTypeCmd = &cobra.Command{
	Use:   "entry-type <name>",
	Short: "Scaffold a new entry type",
	Long: `Scaffolds a new entry type into a DNA's zomes.

Fields are given as name:Type[:widget[:linked_from]], for example
  --field title:String --field tags:Vec<String> --field author:AgentPubKey::agent
  --field status:Enum(Status=draft|published)`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("entry-type called")

		var fields []models.FieldDefinition
		for _, spec := range entryFields {
			f, err := models.ParseFieldDefinition(spec)
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}

		g, err := newGenerator()
		if err != nil {
			return err
		}
		res, err := g.ScaffoldEntryType(cmd.Context(), generator.EntryTypeRequest{
			DnaRole:            entryDnaRole,
			Zome:               entryZome,
			Name:               args[0],
			Fields:             fields,
			ReferenceEntryHash: entryReferenceByEntry,
			Crud: models.Crud{
				Update: !entryNoUpdate,
				Delete: !entryNoDelete,
			},
			LinkFromOriginalToEachUpdate: entryLinkUpdates && !entryNoUpdate,
		})
		if err != nil {
			return fmt.Errorf("failed to scaffold entry type %s: %w", args[0], err)
		}

		printResult(cmd.OutOrStdout(), "entry type "+args[0], res)
		return nil
	},
}

func init() {
	entryTypeCmd.Flags().StringVar(&entryDnaRole, "dna", "", "DNA role to scaffold into")
	entryTypeCmd.Flags().StringVar(&entryZome, "zome", "", "Coordinator zome (optional when the DNA has one)")
	entryTypeCmd.Flags().StringArrayVar(&entryFields, "field", nil, "Field as name:Type[:widget[:linked_from]] (repeatable)")
	entryTypeCmd.Flags().BoolVar(&entryReferenceByEntry, "reference-entry-hash", false, "Reference the entry by EntryHash instead of ActionHash")
	entryTypeCmd.Flags().BoolVar(&entryNoUpdate, "no-update", false, "Do not scaffold an update function")
	entryTypeCmd.Flags().BoolVar(&entryNoDelete, "no-delete", false, "Do not scaffold a delete function")
	entryTypeCmd.Flags().BoolVar(&entryLinkUpdates, "link-updates", true, "Link the original entry to each of its updates")
	entryTypeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing")
	_ = entryTypeCmd.MarkFlagRequired("dna")
	rootCmd.AddCommand(entryTypeCmd)
}
