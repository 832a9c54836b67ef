package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/packlog/internal/domain/commands"
	"github.com/rios0rios0/packlog/internal/domain/entities"
)

// BumpController handles the "bump" subcommand.
type BumpController struct {
	command commands.Bump
}

func NewBumpController(command commands.Bump) *BumpController {
	return &BumpController{command: command}
}

func (it *BumpController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "bump",
		Short: "Bump the pack version in the configured files",
		Long: `Rewrite the version variables of the configured files (for example
$MODPACK_VERSION and $LAST_MODPACK_VERSION in automation/settings.ps1).
The run fails when the new version equals the old one.`,
	}
}

func (it *BumpController) AddFlags(cmd *cobra.Command) {
	AddSettingsFlags(cmd)
}

func (it *BumpController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := LoadSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	bump, err := it.command.Execute(commandContext(cmd), settings)
	if err != nil {
		return fmt.Errorf("bump failed: %w", err)
	}

	logger.Infof("Bumped pack version %s -> %s", bump.Old, bump.New)
	return nil
}
