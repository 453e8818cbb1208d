package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"jts/internal/discovery"
	"jts/internal/storage"
	"jts/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	env       *Env
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(env *Env, st storage.Storage, formatter *ui.Formatter) *ListCommand {
	return &ListCommand{
		env:       env,
		storage:   st,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := lc.env.Config
	scanner := discovery.NewScanner(cfg.Sort)
	filter := discovery.NewFilter()

	// Mark files that failed in the last run, if there is one
	var failed map[string]struct{}
	if last, err := lc.storage.Load(); err == nil {
		failed = storage.FailedPaths(last)
	}

	dirs := cfg.GetDirs()
	if len(dirs) == 0 {
		color.Yellow("No corpus directories configured")
		return nil
	}

	var unavailable int
	for _, dir := range dirs {
		cases, err := scanner.Enumerate(dir)
		if err != nil {
			lc.formatter.PrintDirectoryError(dir, err)
			unavailable++
			continue
		}
		cases = filter.FilterByName(cases, cfg.Flags.NameFilter)
		if len(cases) == 0 {
			color.Yellow("%s: no files found", dir)
			continue
		}
		lc.formatter.PrintCaseList(dir, cases, failed)
	}

	if unavailable > 0 {
		return exitWith(1, "%d corpus director(ies) unavailable", unavailable)
	}
	return nil
}
