// Package cli implements the yamlupdate command line.
package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const logLevelFlagName = "log-level"

// NewRootCmd creates the root command and its subcommands.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "yamlupdate",
		Short: "Update user YAML configuration files to a newer default",
		Long: "yamlupdate merges a user's YAML configuration into the structure of a newer default " +
			"file, replaying key relocations and value patches for every version in between " +
			"and keeping the comments of both files.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	cmd.PersistentFlags().String(logLevelFlagName, logrus.WarnLevel.String(), "Log level (debug, info, warn, error)")

	cmd.AddCommand(newUpdateCmd())
	cmd.AddCommand(newCompareCmd())

	return cmd
}

// Execute runs the provided root command.
func Execute(cmd *cobra.Command) error {
	if err := cmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}

// newLogger returns a logger writing to w at the level of the --log-level flag.
func newLogger(cmd *cobra.Command, w io.Writer) (*logrus.Logger, error) {
	name, err := cmd.Flags().GetString(logLevelFlagName)
	if err != nil {
		return nil, err
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", logLevelFlagName, err)
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger, nil
}
