package cli

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eleven-am/ormlite/pkg/metadata"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

type describeOptions struct {
	pkg    string
	format string
}

func newDescribeCmd() *cobra.Command {
	opts := &describeOptions{}

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the table metadata extracted from models",
		Long: `Discover model structs in a package and print the table descriptor of
each one: table name, primary key, insert struct and columns, in declaration
order.

Fails without printing anything when any model cannot be extracted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.pkg, "package", "", "Package path containing model definitions (default: ./models)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: yaml or json (default: yaml)")

	return cmd
}

func runDescribe(cmd *cobra.Command, opts *describeOptions) error {
	format := opts.format
	if !cmd.Flags().Changed("format") && ormliteConfig != nil {
		format = ormliteConfig.Output.Format
	}
	if format == "" {
		format = formatYAML
	}
	if format != formatYAML && format != formatJSON {
		return errors.Newf("unknown format %q (want yaml or json)", format)
	}

	dir := resolvePackage(cmd, opts.pkg)
	result, err := extractPackage(cmd.Context(), dir)
	if err != nil {
		return err
	}

	if !result.Valid {
		return validationError(result)
	}

	return writeTables(cmd.OutOrStdout(), format, result.Tables)
}

func writeTables(w io.Writer, format string, tables []*metadata.TableDescriptor) error {
	if tables == nil {
		tables = []*metadata.TableDescriptor{}
	}

	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tables)
	default:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tables); err != nil {
			return errors.Wrap(err, "failed to encode tables")
		}
		return enc.Close()
	}
}
