// Package cli implements the mix subcommands. The transactional core stays
// in pkg/; this package only parses arguments, wires collaborators and talks
// to the terminal.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	stderrors "errors"

	"github.com/mix-pkg/mix/internal/logger"
	"github.com/mix-pkg/mix/pkg/config"
	"github.com/mix-pkg/mix/pkg/download"
	"github.com/mix-pkg/mix/pkg/errors"
	"github.com/mix-pkg/mix/pkg/model"
	"github.com/mix-pkg/mix/pkg/orchestrator"
	"github.com/mix-pkg/mix/pkg/store"
)

// Shared flag storage, set up by the root command.
var (
	ConfigPath   *string
	DatabasePath *string
	InstallRoot  *string
	AssumeYes    *bool
)

func loadConfig() (*config.Config, error) {
	path := ""
	if ConfigPath != nil {
		path = *ConfigPath
	}
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if DatabasePath != nil && *DatabasePath != "" {
		cfg.DatabasePath = *DatabasePath
	}
	if InstallRoot != nil && *InstallRoot != "" {
		cfg.InstallRoot = *InstallRoot
	}
	logger.Init(cfg.LogLevel)
	return cfg, nil
}

func defaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "mix", "config.yaml")
}

// openStore loads the package database. A missing database is the one
// recoverable load failure: the user is offered a fresh empty store.
func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Load(cfg.DatabasePath, cfg.CacheDir)
	if err == nil {
		return st, nil
	}
	if !stderrors.Is(err, errors.ErrFileNotFound) {
		return nil, err
	}

	fmt.Fprintln(os.Stderr, "The package database was not found on disk.")
	fmt.Fprintln(os.Stderr, "This is expected on a fresh install; on an existing one it means the database was removed.")
	if !promptYesNo("Create a new empty package database?") {
		return nil, errors.Wrap(errors.ErrAborted, "not creating a new package database")
	}
	st = store.NewEmpty(cfg.CacheDir)
	if err := st.Save(cfg.DatabasePath); err != nil {
		return nil, errors.Wrap(err, "failed to save the new package database")
	}
	logger.Info("created a new empty package database", logger.Fields{"path": cfg.DatabasePath})
	return st, nil
}

func saveStore(st *store.Store, cfg *config.Config) error {
	if err := st.Save(cfg.DatabasePath); err != nil {
		return errors.Wrap(err, "failed to save package database")
	}
	return nil
}

// newOrchestrator wires the transaction engine with terminal hooks.
func newOrchestrator(cfg *config.Config, st *store.Store) *orchestrator.Orchestrator {
	orch := orchestrator.New(st, cfg.InstallRoot)
	orch.Fetcher = download.NewHTTPFetcher(cfg.HTTPTimeout, "")
	orch.RepoURL = cfg.RepoURL
	orch.Hooks = orchestrator.Hooks{
		Confirm:   confirmSelections,
		OnPackage: func(pkg *model.Package) { logger.Infof("processing %s", pkg) },
	}
	return orch
}

// confirmSelections shows the computed selection and asks to proceed.
func confirmSelections(sel *model.Selections) (bool, error) {
	printSelection := func(verb string, packages []*model.Package) {
		if len(packages) == 0 {
			return
		}
		fmt.Printf("The following packages will be %s:\n", verb)
		for _, pkg := range packages {
			fmt.Printf("\t%s\n", pkg)
		}
	}
	printSelection("installed", sel.Install)
	printSelection("removed", sel.Remove)
	printSelection("upgraded", sel.Upgrade)
	printSelection("downgraded", sel.Downgrade)

	if len(sel.Install)+len(sel.Remove)+len(sel.Upgrade)+len(sel.Downgrade) == 0 {
		fmt.Println("Nothing to do.")
		return true, nil
	}
	if AssumeYes != nil && *AssumeYes {
		return true, nil
	}
	return promptYesNo("Do you want to continue?"), nil
}

func promptYesNo(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
