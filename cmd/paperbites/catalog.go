// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rimshaTest/PaperBites/internal/catalog"
	"github.com/rimshaTest/PaperBites/internal/search"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List papers saved to the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := catalog.NewStore(cfg.Catalog)
		if err != nil {
			return err
		}
		defer store.Close()

		papers, err := store.List()
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return search.FormatJSON(papers, os.Stdout)
		}
		search.FormatTable(papers, os.Stdout)
		return nil
	},
}

func init() {
	catalogCmd.Flags().Bool("json", false, "output the catalog as JSON")
	rootCmd.AddCommand(catalogCmd)
}
