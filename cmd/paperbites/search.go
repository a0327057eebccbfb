// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rimshaTest/PaperBites/internal/catalog"
	"github.com/rimshaTest/PaperBites/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the paper catalogs for openly-licensed papers",
	Long: `Search fans one query out to arXiv, OpenAlex, and Semantic Scholar
concurrently, enriches candidates with Unpaywall open-access verdicts,
deduplicates by DOI and title, and returns papers whose license permits
public display.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}

		maxPapers, _ := cmd.Flags().GetInt("max-papers")
		if maxPapers <= 0 {
			maxPapers = eng.cfg.Search.MaxPapers
		}
		openAccessOnly := eng.cfg.Search.OpenAccessOnly
		if cmd.Flags().Changed("open-access-only") {
			openAccessOnly, _ = cmd.Flags().GetBool("open-access-only")
		}
		publicOnly := eng.cfg.Search.PublicOnly
		if cmd.Flags().Changed("public-only") {
			publicOnly, _ = cmd.Flags().GetBool("public-only")
		}

		papers, err := eng.aggregator.SearchPapers(cmd.Context(), query, maxPapers, openAccessOnly, publicOnly)
		if err != nil {
			return err
		}

		if save, _ := cmd.Flags().GetBool("save"); save && len(papers) > 0 {
			store, err := catalog.NewStore(eng.cfg.Catalog)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Save(papers); err != nil {
				return err
			}
			eng.log.Info().Int("count", len(papers)).Str("path", eng.cfg.Catalog.Path).Msg("saved to catalog")
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return search.FormatJSON(papers, os.Stdout)
		}
		search.FormatTable(papers, os.Stdout)
		return nil
	},
}

func init() {
	searchCmd.Flags().Int("max-papers", 0, "maximum number of papers to return")
	searchCmd.Flags().Bool("open-access-only", true, "enrich candidates with open-access resolution")
	searchCmd.Flags().Bool("public-only", true, "return only papers whose license permits public display")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("save", false, "save results to the paper catalog")

	rootCmd.AddCommand(searchCmd)
}
