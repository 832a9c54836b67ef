package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/packlog/internal/domain/commands"
	"github.com/rios0rios0/packlog/internal/domain/entities"
)

// GenerateController handles the "generate" subcommand.
type GenerateController struct {
	command commands.Generate
}

// NewGenerateController creates a new GenerateController.
func NewGenerateController(command commands.Generate) *GenerateController {
	return &GenerateController{command: command}
}

// GetBind returns the Cobra command metadata for the generate controller.
func (it *GenerateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "generate",
		Short: "Generate the release changelog, mod list and mod changes",
		Long: `Compare the installed mods of the previous release with the current state,
classify the commits in between into features and fixes, and write the
release changelog, the full mod list and the mod change log.

With --stdout the changelog is rendered for an announcement and the three
documents are printed instead of written.`,
	}
}

// AddFlags adds the generate-specific flags to the given Cobra command.
func (it *GenerateController) AddFlags(cmd *cobra.Command) {
	AddSettingsFlags(cmd)
	cmd.Flags().String("cutoff", "", "Revision of the previous release (default: latest version bump commit)")
	cmd.Flags().String("since", "", fmt.Sprintf("Only read commits after this date (%s)", entities.DateLayout))
	cmd.Flags().Bool("stdout", false, "Print the documents instead of writing them")
}

// Execute runs one release generation.
func (it *GenerateController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := LoadSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("Starting packlog generation...")

	result, err := it.command.Execute(commandContext(cmd), settings)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	logger.Infof("Generated release %s", result.Bump.New)
	return nil
}
