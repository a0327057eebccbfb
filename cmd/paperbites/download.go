// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rimshaTest/PaperBites/internal/acquire"
)

var downloadCmd = &cobra.Command{
	Use:   "download <id>",
	Short: "Download a paper's full text",
	Long: `Download resolves an identifier the same way as get, then fetches the
full text into papers/raw/ and writes a YAML metadata sidecar into
papers/metadata/. Papers whose license forbids public display are still
downloadable for private use; pass --public-only to refuse them.`,
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

		if publicOnly, _ := cmd.Flags().GetBool("public-only"); publicOnly && !paper.CanDisplayPublicly {
			return fmt.Errorf("license %q does not permit public display", paper.License)
		}

		path, err := eng.downloader.DownloadPaper(cmd.Context(), paper)
		if err != nil {
			return err
		}
		fmt.Printf("Downloaded %s\n", path)
		return nil
	},
}

func init() {
	downloadCmd.Flags().Bool("public-only", false, "refuse papers whose license forbids public display")
	rootCmd.AddCommand(downloadCmd)
}
