package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c12i/scaffolding/core/generator"
	"github.com/c12i/scaffolding/core/logger"
)

var (
	linkDnaRole       string
	linkZome          string
	linkBidirectional bool
	linkDelete        bool
)

var linkTypeCmd = &cobra.Command{
	Use:   "link-type <from> [to]",
	Short: "Scaffold a new link type",
	Long: `Scaffolds a link type between two referenceables.

Each end is an entry type (post, post:EntryHash) or an agent (agent,
agent:reviewer). Without a target the link hangs off a path anchor.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("link-type called")

		req := generator.LinkTypeRequest{
			DnaRole:       linkDnaRole,
			Zome:          linkZome,
			From:          args[0],
			Bidirectional: linkBidirectional,
			Delete:        linkDelete,
		}
		if len(args) == 2 {
			req.To = args[1]
		}

		g, err := newGenerator()
		if err != nil {
			return err
		}
		res, err := g.ScaffoldLinkType(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("failed to scaffold link type: %w", err)
		}

		printResult(cmd.OutOrStdout(), "link type", res)
		return nil
	},
}

func init() {
	linkTypeCmd.Flags().StringVar(&linkDnaRole, "dna", "", "DNA role to scaffold into")
	linkTypeCmd.Flags().StringVar(&linkZome, "zome", "", "Coordinator zome (optional when the DNA has one)")
	linkTypeCmd.Flags().BoolVar(&linkBidirectional, "bidirectional", false, "Also link the target back to the source")
	linkTypeCmd.Flags().BoolVar(&linkDelete, "delete", false, "Scaffold a function removing the link")
	linkTypeCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing")
	_ = linkTypeCmd.MarkFlagRequired("dna")
	rootCmd.AddCommand(linkTypeCmd)
}
