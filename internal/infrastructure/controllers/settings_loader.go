package controllers

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/packlog/internal/domain/entities"
)

// AddSettingsFlags adds the flags that override configuration file values.
func AddSettingsFlags(cmd *cobra.Command) {
	cmd.Flags().String("repo", "", "Path to the pack repository (default: config value or .)")
	cmd.Flags().String("branch", "", "Branch or revision of the current state")
	cmd.Flags().String("old-version", "", "Version label of the previous release")
	cmd.Flags().String("new-version", "", "Version label of this release")
}

// LoadSettings reads the configuration file (explicit or discovered) and applies the CLI
// overrides. A missing configuration file means defaults.
func LoadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using defaults: %v", err)
		}
		configPath = found
	}
	if configPath != "" {
		logger.Infof("Using config file: %s", configPath)
	}

	settings, err := entities.NewSettings(configPath)
	if err != nil {
		return nil, err
	}

	overrides := entities.Overrides{}
	overrides.RepoPath, _ = cmd.Flags().GetString("repo")
	overrides.Branch, _ = cmd.Flags().GetString("branch")
	overrides.OldVersion, _ = cmd.Flags().GetString("old-version")
	overrides.NewVersion, _ = cmd.Flags().GetString("new-version")
	overrides.Cutoff, _ = cmd.Flags().GetString("cutoff")
	overrides.Since, _ = cmd.Flags().GetString("since")
	overrides.Stdout, _ = cmd.Flags().GetBool("stdout")

	return settings.WithOverrides(overrides), nil
}

// commandContext returns the context cobra runs the command with, or a background context
// when the command is executed directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
