package metadata

import (
	"github.com/cockroachdb/errors"
)

// TableDescriptor is everything known about the table behind a struct
type TableDescriptor struct {
	TableName    string             `json:"table_name" yaml:"table_name"`
	StructIdent  Ident              `json:"struct_name" yaml:"struct_name"`
	PrimaryKey   string             `json:"primary_key" yaml:"primary_key"`
	Columns      []ColumnDescriptor `json:"columns" yaml:"columns"`
	InsertStruct string             `json:"insert_struct,omitempty" yaml:"insert_struct,omitempty"`
}

// Column returns the column with the given name
func (t *TableDescriptor) Column(name string) (ColumnDescriptor, bool) {
	for _, col := range t.Columns {
		if col.ColumnName == name {
			return col, true
		}
	}
	return ColumnDescriptor{}, false
}

// PrimaryKeyColumn returns the descriptor of the primary key column
func (t *TableDescriptor) PrimaryKeyColumn() ColumnDescriptor {
	col, _ := t.Column(t.PrimaryKey)
	return col
}

// JoinColumns returns the columns typed as Join, in declaration order
func (t *TableDescriptor) JoinColumns() []ColumnDescriptor {
	var joins []ColumnDescriptor
	for _, col := range t.Columns {
		if col.IsJoin() {
			joins = append(joins, col)
		}
	}
	return joins
}

// Option tunes how a table is assembled
type Option func(*buildOptions)

type buildOptions struct {
	strictColumnNames bool
}

// WithStrictColumnNames rejects tables that declare the same column name twice
func WithStrictColumnNames() Option {
	return func(o *buildOptions) {
		o.strictColumnNames = true
	}
}

// BuildTable assembles the table descriptor of a record declaration.
//
// The table name comes from the last table directive, or the snake_case form
// of the struct identifier. The primary key is the first column marked
// primary_key; failing that, the first column named id, uuid, <table>_id or
// <table>_uuid, which is then treated as having a database default.
func BuildTable(decl RecordDecl, opts ...Option) (*TableDescriptor, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	table := &TableDescriptor{
		StructIdent: decl.Ident,
	}

	var tableName *string
	for _, group := range decl.Directives {
		if group.Table != nil {
			name := *group.Table
			tableName = &name
		}
		if group.Insertable != nil {
			table.InsertStruct = group.Insertable.String()
		}
	}

	if tableName != nil {
		table.TableName = *tableName
	} else {
		table.TableName = SnakeCase(string(decl.Ident))
	}

	columns := make([]ColumnDescriptor, 0, len(decl.Fields))
	for _, field := range decl.Fields {
		col, err := BuildColumn(field)
		if err != nil {
			var ee *ExtractionError
			if errors.As(err, &ee) {
				ee.Struct = decl.Ident
			}
			return nil, err
		}
		columns = append(columns, col)
	}
	table.Columns = columns

	table.PrimaryKey = inferPrimaryKey(table.TableName, table.Columns)

	if err := table.finalize(o); err != nil {
		return nil, err
	}

	return table, nil
}

func inferPrimaryKey(tableName string, columns []ColumnDescriptor) string {
	for _, col := range columns {
		if col.MarkedPrimaryKey {
			return col.ColumnName
		}
	}

	candidates := primaryKeyCandidates(tableName)
	for i := range columns {
		for _, name := range candidates {
			if columns[i].ColumnName == name {
				columns[i].HasDatabaseDefault = true
				return name
			}
		}
	}

	return ""
}

func (t *TableDescriptor) finalize(o buildOptions) error {
	if t.TableName == "" {
		return newIncomplete(t.StructIdent, "table_name")
	}
	if len(t.Columns) == 0 {
		return newIncomplete(t.StructIdent, "columns")
	}

	if o.strictColumnNames {
		seen := make(map[string]bool, len(t.Columns))
		for _, col := range t.Columns {
			if seen[col.ColumnName] {
				return newDuplicateColumn(t.StructIdent, col.ColumnName)
			}
			seen[col.ColumnName] = true
		}
	}

	if t.PrimaryKey == "" {
		return newMissingPrimaryKey(t.StructIdent, t.TableName)
	}
	return nil
}
