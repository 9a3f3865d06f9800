package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mix-pkg/mix/internal/logger"
	"github.com/mix-pkg/mix/pkg/download"
	"github.com/mix-pkg/mix/pkg/errors"
)

// indexFilename is the name-index file expected under the repository URL.
const indexFilename = "index.yaml"

// nameIndex is the repository's package name index.
type nameIndex struct {
	Packages []string `yaml:"packages"`
}

// NewSyncCmd creates the synchronize command.
func NewSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "synchronize",
		Aliases: []string{"sync", "sy"},
		Short:   "Synchronize the package database",
		Long: `Download the repository's package name index and merge it into the
database. New names appear as known-but-uninstalled packages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.RepoURL == "" {
				return errors.Wrap(errors.ErrConfigValidation, "synchronize requires repo_url to be configured")
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}

			fetcher := download.NewHTTPFetcher(cfg.HTTPTimeout, "")
			indexPath := filepath.Join(cfg.CacheDir, indexFilename)
			if err := fetcher.Fetch(cmd.Context(), cfg.RepoURL+"/"+indexFilename, indexPath); err != nil {
				return errors.Wrap(err, "failed to download the package index")
			}

			names, err := readNameIndex(indexPath)
			if err != nil {
				return err
			}

			before := st.Len()
			orch := newOrchestrator(cfg, st)
			orch.Synchronize(names)
			logger.Infof("synchronized %d packages (%d new)", len(names), st.Len()-before)
			return saveStore(st, cfg)
		},
	}
}

func readNameIndex(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read the package index")
	}
	var index nameIndex
	if err := yaml.Unmarshal(data, &index); err != nil {
		return nil, errors.Wrap(err, "failed to parse the package index")
	}
	return index.Packages, nil
}
