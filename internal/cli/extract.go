package cli

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/eleven-am/ormlite/internal/logger"
	"github.com/eleven-am/ormlite/internal/parser"
	"github.com/eleven-am/ormlite/pkg/metadata"
)

// resolvePackage picks the models directory: flag, then config, then default
func resolvePackage(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("package") {
		return flagValue
	}
	if ormliteConfig != nil && ormliteConfig.Models.Package != "" {
		return ormliteConfig.Models.Package
	}
	return DefaultConfig().Models.Package
}

// extractPackage parses every model in dir and assembles its table
func extractPackage(ctx context.Context, dir string) (parser.ValidationResult, error) {
	cfg := ormliteConfig
	if cfg == nil {
		cfg = DefaultConfig()
	}

	naming, err := parser.ParseNamingConvention(cfg.Schema.NamingConvention)
	if err != nil {
		return parser.ValidationResult{}, errors.Wrap(err, "invalid schema.naming_convention")
	}

	structParser := parser.NewStructParser(
		parser.WithNamingConvention(naming),
		parser.WithIncludeUnmarked(cfg.Models.IncludeUnmarked),
	)

	logger.CLI().WithField("package", dir).Info("discovering models")
	models, err := structParser.ParseDirectory(ctx, dir)
	if err != nil {
		return parser.ValidationResult{}, errors.Wrap(err, "failed to discover models")
	}

	var opts []metadata.Option
	if cfg.Schema.StrictMode {
		opts = append(opts, metadata.WithStrictColumnNames())
	}

	return parser.Extract(models, opts...), nil
}
