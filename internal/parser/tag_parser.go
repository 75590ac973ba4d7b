package parser

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/eleven-am/ormlite/pkg/metadata"
)

// TagName is the struct tag key read by the parser
const TagName = "ormlite"

// DirectivePrefix starts a directive line in a doc comment
const DirectivePrefix = "//ormlite:"

// Recognized directive keys
const (
	KeyTable      = "table"
	KeyInsertable = "insertable"

	KeyPrimaryKey          = "primary_key"
	KeyDefault             = "default"
	KeyManyToOneKey        = "many_to_one_key"
	KeyManyToManyTableName = "many_to_many_table_name"
	KeyOneToManyForeignKey = "one_to_many_foreign_key"
)

// TagParser handles parsing of ormlite directive strings
type TagParser struct{}

// NewTagParser creates a new tag parser instance
func NewTagParser() *TagParser {
	return &TagParser{}
}

type attribute struct {
	key      string
	value    string
	hasValue bool
}

// splitAttributes splits a directive string into its attributes. Keys are
// case-insensitive and come back lowercased.
// Format: "primary_key;many_to_one_key:local.customer_id"
func (p *TagParser) splitAttributes(tagValue string) []attribute {
	var attrs []attribute

	for _, part := range strings.Split(tagValue, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if key, value, found := strings.Cut(part, ":"); found {
			attrs = append(attrs, attribute{
				key:      strings.ToLower(strings.TrimSpace(key)),
				value:    strings.TrimSpace(value),
				hasValue: true,
			})
			continue
		}
		attrs = append(attrs, attribute{key: strings.ToLower(part)})
	}

	return attrs
}

// ParseColumnTag parses a field-level directive string into one directive group
func (p *TagParser) ParseColumnTag(tagValue string) (metadata.ColumnDirectives, error) {
	var d metadata.ColumnDirectives

	for _, attr := range p.splitAttributes(tagValue) {
		switch attr.key {
		case KeyPrimaryKey, KeyDefault:
			if attr.hasValue {
				return d, errors.Newf("flag attribute '%s' should not have a value", attr.key)
			}
			if attr.key == KeyPrimaryKey {
				d.PrimaryKey = true
			} else {
				d.Default = true
			}

		case KeyManyToOneKey, KeyManyToManyTableName, KeyOneToManyForeignKey:
			path, err := p.ParsePath(attr.value)
			if err != nil {
				return d, errors.Wrapf(err, "invalid %s", attr.key)
			}
			switch attr.key {
			case KeyManyToOneKey:
				d.ManyToOneKey = &path
			case KeyManyToManyTableName:
				d.ManyToManyTableName = &path
			default:
				d.OneToManyForeignKey = &path
			}

		case KeyTable, KeyInsertable:
			return d, errors.Newf("'%s' is a struct-level attribute and cannot be used on a field", attr.key)

		default:
			return d, errors.Newf("unknown %s attribute '%s'", TagName, attr.key)
		}
	}

	return d, nil
}

// ParseModelTag parses a struct-level directive string into one directive group
func (p *TagParser) ParseModelTag(tagValue string) (metadata.ModelDirectives, error) {
	var d metadata.ModelDirectives

	for _, attr := range p.splitAttributes(tagValue) {
		switch attr.key {
		case KeyTable:
			name := unquote(attr.value)
			if name == "" {
				return d, errors.New("table name cannot be empty")
			}
			d.Table = &name

		case KeyInsertable:
			name := unquote(attr.value)
			if !isValidIdentifier(name) {
				return d, errors.Newf("insertable must be a valid identifier: %q", name)
			}
			ident := metadata.Ident(name)
			d.Insertable = &ident

		case KeyPrimaryKey, KeyDefault, KeyManyToOneKey, KeyManyToManyTableName, KeyOneToManyForeignKey:
			return d, errors.Newf("'%s' is a field-level attribute and cannot be used on a struct", attr.key)

		default:
			return d, errors.Newf("unknown %s attribute '%s'", TagName, attr.key)
		}
	}

	return d, nil
}

// ParsePath parses a dotted path such as local.customer_id
func (p *TagParser) ParsePath(value string) (metadata.Path, error) {
	value = unquote(value)
	if value == "" {
		return metadata.Path{}, errors.New("path cannot be empty")
	}

	parts := strings.Split(value, ".")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if !isValidIdentifier(part) {
			return metadata.Path{}, errors.Newf("path segment %q of %q is not a valid identifier", part, value)
		}
		parts[i] = part
	}

	return metadata.NewPath(parts...), nil
}

// IsSkip reports whether a tag value excludes the field
func (p *TagParser) IsSkip(tagValue string) bool {
	return strings.TrimSpace(tagValue) == "-"
}

// DirectiveFromComment returns the directive string of a //ormlite: comment line
func (p *TagParser) DirectiveFromComment(text string) (string, bool) {
	if !strings.HasPrefix(text, DirectivePrefix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(text, DirectivePrefix)), true
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

// isValidIdentifier checks if a string is a valid Go/SQL identifier
func isValidIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}

	first := s[0]
	if !((first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z') || first == '_') {
		return false
	}

	for i := 1; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}

	return true
}
