package cli

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/eleven-am/ormlite/internal/parser"
)

func newCheckCmd() *cobra.Command {
	var pkg string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate model definitions",
		Long: `Extract every model in a package and report the ones that fail:
- No primary key (marked or named id, uuid, <table>_id, <table>_uuid)
- Join fields without many_to_one_key, many_to_many_table_name or one_to_many_foreign_key
- Duplicate column names (with --strict)

Returns exit code 0 if every model is valid, 1 otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, pkg)
		},
	}

	cmd.Flags().StringVar(&pkg, "package", "", "Package path containing model definitions (default: ./models)")

	return cmd
}

func runCheck(cmd *cobra.Command, pkg string) error {
	dir := resolvePackage(cmd, pkg)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Checking models in %s...\n", dir)

	result, err := extractPackage(cmd.Context(), dir)
	if err != nil {
		return err
	}

	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	for _, table := range result.Tables {
		pk := table.PrimaryKeyColumn()
		fmt.Fprintf(out, "%s %s -> %s (primary key %s %s)\n", ok("✓"), table.StructIdent, table.TableName, pk.ColumnName, pk.ColumnType)
	}
	for _, modelErr := range result.Errors {
		fmt.Fprintf(out, "%s %s\n", fail("✗"), modelErr.Error())
	}

	if result.Valid {
		fmt.Fprintf(out, "All %d models are valid\n", len(result.Tables))
		return nil
	}

	return validationError(result)
}

func validationError(result parser.ValidationResult) error {
	lines := make([]string, len(result.Errors))
	for i, e := range result.Errors {
		lines[i] = "  - " + e.Error()
	}

	return errors.Newf("model validation failed with %d error(s):\n%s", len(result.Errors), strings.Join(lines, "\n"))
}
