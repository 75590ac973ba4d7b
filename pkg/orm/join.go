package orm

// Join holds the records on the other side of a relationship. Model fields
// of this type are recognised by ormlite as join columns and must declare
// how they are keyed: many_to_one_key, many_to_many_table_name or
// one_to_many_foreign_key.
type Join[T any] struct {
	records []T
	loaded  bool
}

// NewJoin returns a loaded join holding records
func NewJoin[T any](records ...T) Join[T] {
	var j Join[T]
	j.Set(records...)
	return j
}

// Set replaces the joined records and marks the join as loaded
func (j *Join[T]) Set(records ...T) {
	j.records = append([]T(nil), records...)
	j.loaded = true
}

// One returns the first joined record. ok is false when the join was
// never loaded or loaded nothing.
func (j Join[T]) One() (record T, ok bool) {
	if !j.loaded || len(j.records) == 0 {
		return record, false
	}
	return j.records[0], true
}

// All returns a copy of the joined records
func (j Join[T]) All() []T {
	return append([]T(nil), j.records...)
}

func (j Join[T]) Loaded() bool {
	return j.loaded
}

// Reset drops the joined records
func (j *Join[T]) Reset() {
	j.records = nil
	j.loaded = false
}
