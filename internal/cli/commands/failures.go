package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"jts/internal/storage"
	"jts/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	env     *Env
	storage storage.Storage
	viewer  ui.Viewer
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(env *Env, st storage.Storage, viewer ui.Viewer) *FailuresCommand {
	return &FailuresCommand{
		env:     env,
		storage: st,
		viewer:  viewer,
	}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	results, err := fc.storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load run report (run 'jts run' first): %w", err)
	}
	return fc.viewer.View(results)
}
