package metadata

// JoinIdent is the final path segment that marks a field as a relation
const JoinIdent Ident = "Join"

// IsJoin reports whether t is a path type whose last segment is Join.
// Neither the qualifier nor the generic arguments are looked at, so any
// type named Join matches.
func IsJoin(t TypeExpr) bool {
	pt, ok := asPathType(t)
	if !ok {
		return false
	}
	last, ok := pt.Path.Last()
	return ok && last.Ident == JoinIdent
}

// JoinedEntityIdentifier returns the identifier of the struct a join column
// refers to: the last segment of the last generic argument of Join. It
// returns false when the column is not a join or the argument is not a
// path type.
func JoinedEntityIdentifier(col ColumnDescriptor) (Ident, bool) {
	if !col.IsJoin() {
		return "", false
	}

	pt, _ := asPathType(col.ColumnType)
	seg, ok := pt.Path.Last()
	if !ok || len(seg.Args) == 0 {
		return "", false
	}

	inner, ok := asPathType(seg.Args[len(seg.Args)-1])
	if !ok {
		return "", false
	}

	innerSeg, ok := inner.Path.Last()
	if !ok {
		return "", false
	}
	return innerSeg.Ident, true
}

func asPathType(t TypeExpr) (PathType, bool) {
	switch v := t.(type) {
	case PathType:
		return v, true
	case *PathType:
		if v == nil {
			return PathType{}, false
		}
		return *v, true
	}
	return PathType{}, false
}
