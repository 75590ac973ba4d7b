package cli

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

type initOptions struct {
	pkg   string
	force bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new ormlite configuration file",
		Long: `Creates an ormlite.yaml configuration file with default settings
that you can customize for your project.`,
		// the config file may not exist yet, so skip loading it
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.pkg, "package", "./models", "Package path containing model definitions")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite existing configuration file")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	configPath := configLocations[0]
	if configFile != "" {
		configPath = configFile
	}

	if _, err := os.Stat(configPath); err == nil && !opts.force {
		return errors.Newf("%s already exists. Use --force to overwrite", configPath)
	}

	config := DefaultConfig()
	config.Models.Package = opts.pkg

	if err := SaveConfig(config, configPath); err != nil {
		return errors.Wrap(err, "failed to save configuration")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s configuration file\n", configPath)
	fmt.Fprintf(out, "\nNext steps:\n")
	fmt.Fprintf(out, "1. Adjust the models package path if needed\n")
	fmt.Fprintf(out, "2. Run 'ormlite check' to validate your models\n")
	fmt.Fprintf(out, "3. Run 'ormlite describe' to print the extracted tables\n")

	return nil
}
