// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rimshaTest/PaperBites/internal/acquire"
	"github.com/rimshaTest/PaperBites/internal/license"
	"github.com/rimshaTest/PaperBites/internal/search"
	"github.com/rimshaTest/PaperBites/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Look up one paper by identifier",
	Long: `Get resolves an identifier to a paper record. The format selects the
catalog: "2301.12345" queries arXiv, "10.1109/5.771073" resolves the DOI via
Unpaywall, "SS-<id>" queries Semantic Scholar, and "W<id>" queries OpenAlex.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return err
		}

		paper, err := eng.resolver.GetPaperByID(cmd.Context(), args[0])
		switch {
		case errors.Is(err, acquire.ErrUnrecognizedID):
			return fmt.Errorf("unrecognized identifier %q: expected an arXiv ID, DOI, SS-<id>, or W<id>", args[0])
		case errors.Is(err, acquire.ErrNotFound):
			fmt.Println("Paper not found.")
			return nil
		case err != nil:
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return search.FormatJSON([]types.PaperRecord{*paper}, os.Stdout)
		}

		fmt.Printf("Title:    %s\n", paper.Title)
		fmt.Printf("ID:       %s\n", paper.ID)
		if paper.DOI != "" {
			fmt.Printf("DOI:      %s\n", paper.DOI)
		}
		if len(paper.Authors) > 0 {
			fmt.Printf("Authors:  %s\n", joinAuthors(paper.Authors))
		}
		if paper.Published != "" {
			fmt.Printf("Date:     %s\n", paper.Published)
		}
		fmt.Printf("URL:      %s\n", paper.URL)
		fmt.Printf("License:  %s\n", paper.License)
		fmt.Printf("Public:   %v\n", paper.CanDisplayPublicly)
		fmt.Printf("\n%s\n", license.Attribution(paper.License))
		return nil
	},
}

func joinAuthors(authors []string) string {
	if len(authors) <= 3 {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:3], ", ") + " et al."
}

func init() {
	getCmd.Flags().Bool("json", false, "output the record as JSON")
	rootCmd.AddCommand(getCmd)
}
