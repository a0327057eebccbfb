// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperbites CLI: discovery of
// openly-licensed research papers and resolution of their redistribution
// rights across arXiv, OpenAlex, Semantic Scholar, and Unpaywall.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rimshaTest/PaperBites/internal/acquire"
	"github.com/rimshaTest/PaperBites/internal/logging"
	"github.com/rimshaTest/PaperBites/internal/search"
	"github.com/rimshaTest/PaperBites/internal/secrets"
	"github.com/rimshaTest/PaperBites/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the paperbites CLI.
var rootCmd = &cobra.Command{
	Use:   "paperbites",
	Short: "Discover openly-licensed research papers",
	Long: `paperbites discovers research papers across arXiv, OpenAlex, Semantic
Scholar, and DOI resolution via Unpaywall, resolves each paper's full-text
location, and classifies its license into a public-display verdict.

Subcommands: search (multi-source query), get (lookup by identifier),
download (fetch a paper's full text), catalog (list saved discoveries).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperbites.yaml or ~/.config/paperbites/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperbites")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperbites"))
		}
	}

	viper.SetEnvPrefix("PAPERBITES")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges the config file over the documented defaults and fills
// credentials from .secrets/ when the file leaves them empty.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing configuration: %w", err)
	}

	if cfg.Search.Email == "" {
		cfg.Search.Email = loadedSecrets["contact-email"]
	}
	if cfg.Search.SemanticScholarAPIKey == "" {
		cfg.Search.SemanticScholarAPIKey = loadedSecrets["semantic-scholar-api-key"]
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// engine bundles the discovery components built from one configuration.
type engine struct {
	cfg        types.Config
	log        zerolog.Logger
	aggregator *search.Aggregator
	resolver   *acquire.Resolver
	downloader *acquire.Downloader
}

// newEngine wires the sources, aggregator, resolver, and downloader. Each
// source carries its own process-wide rate limit tracker.
func newEngine() (*engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	// The fetcher applies per-request timeouts; the client itself does not.
	client := &http.Client{}

	arxiv := search.NewArxivSource(client, cfg.Search, log)
	openalex := search.NewOpenAlexSource(client, cfg.Search, log)
	semantic := search.NewSemanticScholarSource(client, cfg.Search, log)
	unpaywall := search.NewUnpaywallSource(client, cfg.Search, log)
	finder := search.NewCrossRefFinder(client, cfg.Search, log)

	return &engine{
		cfg: cfg,
		log: log,
		aggregator: &search.Aggregator{
			Sources:    []search.Source{arxiv, openalex, semantic},
			OpenAccess: unpaywall,
			Finder:     finder,
			Log:        log,
		},
		resolver: &acquire.Resolver{
			Arxiv:           arxiv,
			OpenAlex:        openalex,
			SemanticScholar: semantic,
			Unpaywall:       unpaywall,
			Log:             log,
		},
		downloader: acquire.NewDownloader(client, cfg.Download, log),
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
