package metadata

import (
	"strings"
)

// Ident is an identifier taken from the source declaration. It is passed
// through to the descriptors unchanged.
type Ident string

func (i Ident) String() string {
	return string(i)
}

// TypeExpr is the type expression of a field as written in the source.
type TypeExpr interface {
	String() string
}

// PathSegment is one segment of a path, optionally carrying generic arguments
type PathSegment struct {
	Ident Ident
	Args  []TypeExpr
}

func (s PathSegment) String() string {
	if len(s.Args) == 0 {
		return string(s.Ident)
	}

	args := make([]string, len(s.Args))
	for i, arg := range s.Args {
		args[i] = typeString(arg)
	}
	return string(s.Ident) + "[" + strings.Join(args, ", ") + "]"
}

// Path is a dotted path such as local.customer_id or orm.Join[Customer]
type Path struct {
	Segments []PathSegment
}

// NewPath builds a path of plain segments
func NewPath(idents ...string) Path {
	segments := make([]PathSegment, len(idents))
	for i, ident := range idents {
		segments[i] = PathSegment{Ident: Ident(ident)}
	}
	return Path{Segments: segments}
}

// Last returns the final segment of the path
func (p Path) Last() (PathSegment, bool) {
	if len(p.Segments) == 0 {
		return PathSegment{}, false
	}
	return p.Segments[len(p.Segments)-1], true
}

func (p Path) String() string {
	parts := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// MarshalText renders the path as its source text for JSON and YAML output
func (p Path) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// PathType is a path-shaped type expression, e.g. time.Time or Join[Customer]
type PathType struct {
	Path Path
}

func (t PathType) String() string {
	return t.Path.String()
}

func (t PathType) MarshalText() ([]byte, error) {
	return t.Path.MarshalText()
}

// OtherType is any type expression that is not path-shaped (pointers,
// slices, maps, function types, ...). Only its source text is kept.
type OtherType struct {
	Text string
}

func (t OtherType) String() string {
	return t.Text
}

func (t OtherType) MarshalText() ([]byte, error) {
	return []byte(t.Text), nil
}

// NewPathType builds a path type from plain segments, attaching args to the last one
func NewPathType(path string, args ...TypeExpr) PathType {
	p := NewPath(strings.Split(path, ".")...)
	if len(args) > 0 && len(p.Segments) > 0 {
		p.Segments[len(p.Segments)-1].Args = args
	}
	return PathType{Path: p}
}

// ModelDirectives is one group of type-level options
type ModelDirectives struct {
	Table      *string
	Insertable *Ident
}

// ColumnDirectives is one group of field-level options
type ColumnDirectives struct {
	PrimaryKey          bool
	Default             bool
	ManyToOneKey        *Path
	ManyToManyTableName *Path
	OneToManyForeignKey *Path
}

// FieldDecl is a single field of a record declaration.
//
// Name is the identifier as a string, as the caller wants it to appear in
// SQL. When empty the identifier itself is used.
type FieldDecl struct {
	Ident      Ident
	Name       string
	Type       TypeExpr
	Directives []ColumnDirectives
}

// RecordDecl is a record type declaration: its identifier, its type-level
// directive groups and its fields in declaration order.
type RecordDecl struct {
	Ident      Ident
	Directives []ModelDirectives
	Fields     []FieldDecl
}

func typeString(t TypeExpr) string {
	if t == nil {
		return ""
	}
	return t.String()
}
