package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/kevinwang15/yamlupdate"
	"github.com/kevinwang15/yamlupdate/updater"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type updateOptions struct {
	user     string
	def      string
	output   string
	config   string
	dryRun   bool
	settings *viper.Viper
}

func newUpdateCmd() *cobra.Command {
	opts := &updateOptions{settings: viper.New()}

	cmd := &cobra.Command{
		Use:   "update --user FILE --default FILE",
		Short: "Update a user file to the structure and version of a default file",
		Example: `  yamlupdate update --user config.yml --default defaults/config.yml --config update.yml
  yamlupdate update --user config.yml --default new.yml --version-route config-version --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.user, "user", "u", "", "User file to update; a missing file starts empty")
	flags.StringVarP(&opts.def, "default", "d", "", "Default file shipped with the new version")
	flags.StringVarP(&opts.output, "output", "o", "", "Write the result here instead of the user file")
	flags.StringVarP(&opts.config, "config", "c", "", "Settings file (relocations, patches, merge rules)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print a diff instead of writing")
	flags.Bool("keep-all", false, "Keep keys that only exist in the user file")
	flags.String("separator", ".", "Route separator used in settings")
	flags.String("version-route", "", "Route of the version identifier in both files")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("default")

	_ = opts.settings.BindPFlag("keep-all", flags.Lookup("keep-all"))
	_ = opts.settings.BindPFlag("separator", flags.Lookup("separator"))
	_ = opts.settings.BindPFlag("versioning.route", flags.Lookup("version-route"))

	return cmd
}

func runUpdate(cmd *cobra.Command, opts *updateOptions) error {
	logger, err := newLogger(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if opts.config != "" {
		opts.settings.SetConfigFile(opts.config)
		if err := opts.settings.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read settings %s: %w", opts.config, err)
		}
	}
	s, err := updater.LoadSettings(opts.settings, updater.WithLogger(logger))
	if err != nil {
		return err
	}

	userData, err := os.ReadFile(opts.user)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read user file: %w", err)
	}
	defData, err := os.ReadFile(opts.def)
	if err != nil {
		return fmt.Errorf("failed to read default file: %w", err)
	}

	out, res, err := updater.UpdateDocument(userData, defData, s)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", opts.user, err)
	}
	logger.WithFields(logrus.Fields{
		"file":    opts.user,
		"applied": res.Applied,
	}).Info("update finished")

	if opts.dryRun {
		diff, err := yamlupdate.Diff(opts.user, userData, out)
		if err != nil {
			return err
		}
		if diff == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "no changes")
			return nil
		}
		printDiff(cmd.OutOrStdout(), diff)
		return nil
	}

	target := opts.output
	if target == "" {
		target = opts.user
	}
	if err := os.WriteFile(target, out, fileMode(opts.user)); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

func fileMode(path string) fs.FileMode {
	if st, err := os.Stat(path); err == nil {
		return st.Mode().Perm()
	}
	return 0o644
}
