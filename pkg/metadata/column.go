package metadata

// ColumnDescriptor is everything known about one column of a table
type ColumnDescriptor struct {
	ColumnName string   `json:"column_name" yaml:"column_name"`
	ColumnType TypeExpr `json:"column_type" yaml:"column_type"`
	Identifier Ident    `json:"identifier" yaml:"identifier"`

	// MarkedPrimaryKey only says the field carried the primary_key directive.
	// TableDescriptor.PrimaryKey is the definitive primary key.
	MarkedPrimaryKey   bool `json:"marked_primary_key" yaml:"marked_primary_key"`
	HasDatabaseDefault bool `json:"has_database_default" yaml:"has_database_default"`

	// Join columns only. At most one of these is set.
	ManyToOneKey        Ident `json:"many_to_one_key,omitempty" yaml:"many_to_one_key,omitempty"`
	ManyToManyTableName *Path `json:"many_to_many_table_name,omitempty" yaml:"many_to_many_table_name,omitempty"`
	OneToManyForeignKey *Path `json:"one_to_many_foreign_key,omitempty" yaml:"one_to_many_foreign_key,omitempty"`
}

// IsJoin reports whether the column type is the Join wrapper
func (c ColumnDescriptor) IsJoin() bool {
	return IsJoin(c.ColumnType)
}

// JoinedStruct returns the identifier of the struct this join column points at
func (c ColumnDescriptor) JoinedStruct() (Ident, bool) {
	return JoinedEntityIdentifier(c)
}

// HasJoinDirective reports whether any of the join fields is set
func (c ColumnDescriptor) HasJoinDirective() bool {
	return c.ManyToOneKey != "" || c.ManyToManyTableName != nil || c.OneToManyForeignKey != nil
}

func (c *ColumnDescriptor) clearJoin() {
	c.ManyToOneKey = ""
	c.ManyToManyTableName = nil
	c.OneToManyForeignKey = nil
}

// BuildColumn assembles the descriptor of a single field.
//
// Directive groups are applied in order and later values overwrite earlier
// ones. The three join directives share one slot: the last one written wins.
// A field typed as a Join must carry one of them.
func BuildColumn(field FieldDecl) (ColumnDescriptor, error) {
	name := field.Name
	if name == "" {
		name = string(field.Ident)
	}

	col := ColumnDescriptor{
		ColumnName: name,
		ColumnType: field.Type,
		Identifier: field.Ident,
	}

	for _, group := range field.Directives {
		if group.PrimaryKey {
			col.MarkedPrimaryKey = true
			col.HasDatabaseDefault = true
		}
		if group.Default {
			col.HasDatabaseDefault = true
		}
		if group.ManyToOneKey != nil {
			if last, ok := group.ManyToOneKey.Last(); ok {
				col.clearJoin()
				col.ManyToOneKey = last.Ident
			}
		}
		if group.ManyToManyTableName != nil {
			col.clearJoin()
			p := *group.ManyToManyTableName
			col.ManyToManyTableName = &p
		}
		if group.OneToManyForeignKey != nil {
			col.clearJoin()
			p := *group.OneToManyForeignKey
			col.OneToManyForeignKey = &p
		}
	}

	if !IsJoin(field.Type) {
		col.clearJoin()
		return col, nil
	}

	if !col.HasJoinDirective() {
		return ColumnDescriptor{}, newJoinMissingDirective(name)
	}

	return col, nil
}
