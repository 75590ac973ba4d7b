package metadata

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error kinds returned by the assemblers. Match them with errors.Is.
var (
	ErrJoinMissingDirective = errors.New("join column without join directive")
	ErrMissingPrimaryKey    = errors.New("missing primary key")
	ErrIncomplete           = errors.New("incomplete descriptor")
	ErrDuplicateColumn      = errors.New("duplicate column name")
)

// ExtractionError is the failure of a single table or column assembly
type ExtractionError struct {
	Kind    error
	Struct  Ident
	Column  string
	Message string
}

func (e *ExtractionError) Error() string {
	return e.Message
}

func (e *ExtractionError) Unwrap() error {
	return e.Kind
}

func newJoinMissingDirective(column string) error {
	return &ExtractionError{
		Kind:    ErrJoinMissingDirective,
		Column:  column,
		Message: "Column " + column + " is a Join. You must specify one of: many_to_one_key, many_to_many_table_name, or one_to_many_foreign_key",
	}
}

func newMissingPrimaryKey(ident Ident, table string) error {
	return &ExtractionError{
		Kind:   ErrMissingPrimaryKey,
		Struct: ident,
		Message: fmt.Sprintf(
			"No column marked with `ormlite:\"primary_key\"`, and no column named id, uuid, %[1]s_id, or %[1]s_uuid",
			table,
		),
	}
}

func newIncomplete(ident Ident, field string) error {
	return &ExtractionError{
		Kind:    ErrIncomplete,
		Struct:  ident,
		Message: "`" + field + "` must be initialized",
	}
}

func newDuplicateColumn(ident Ident, column string) error {
	return &ExtractionError{
		Kind:    ErrDuplicateColumn,
		Struct:  ident,
		Column:  column,
		Message: "Column " + column + " is declared more than once on " + string(ident),
	}
}
