package cli

import (
	"github.com/spf13/cobra"

	"github.com/eleven-am/ormlite/internal/logger"
	"github.com/eleven-am/ormlite/pkg/ormlite"
)

// Global configuration variables
var (
	configFile    string
	ormliteConfig *OrmliteConfig
	debug         bool
	verbose       bool
	quiet         bool
	strict        bool
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ormlite",
		Short: "ormlite - table metadata from Go model structs",
		Long: `ormlite reads Go struct declarations decorated with ormlite directives
and produces the table and column metadata that query builders, insert
shapes and join resolution are generated from.

ormlite provides tools for:
- Describing the tables behind your models as YAML or JSON
- Checking models for missing primary keys and incomplete joins`,
		Version:       ormlite.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configureLogging(cmd)

			var err error
			ormliteConfig, err = LoadConfig(configFile)
			if err != nil {
				return err
			}

			if strict {
				ormliteConfig.Schema.StrictMode = true
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ormlite.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "reject models that declare a column name twice")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newDescribeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func configureLogging(cmd *cobra.Command) {
	logger.Configure(logger.Options{
		Debug:   debug,
		Verbose: verbose,
		Silent:  quiet,
		Output:  cmd.ErrOrStderr(),
	})
}
