package parser

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/eleven-am/ormlite/internal/logger"
	"github.com/eleven-am/ormlite/pkg/metadata"
)

// NamingConvention decides how Go field names become column names
type NamingConvention string

const (
	NamingSnakeCase NamingConvention = "snake_case"
	NamingVerbatim  NamingConvention = "verbatim"
)

// ParseNamingConvention validates a naming convention name
func ParseNamingConvention(s string) (NamingConvention, error) {
	switch NamingConvention(s) {
	case "", NamingSnakeCase:
		return NamingSnakeCase, nil
	case NamingVerbatim:
		return NamingVerbatim, nil
	}
	return "", errors.Newf("unknown naming convention %q (want %s or %s)", s, NamingSnakeCase, NamingVerbatim)
}

// Model is a struct declaration found in Go source, ready for extraction
type Model struct {
	metadata.RecordDecl
	Pos token.Position
}

// StructParser turns Go struct declarations into record declarations
type StructParser struct {
	fileSet         *token.FileSet
	tagParser       *TagParser
	naming          NamingConvention
	includeUnmarked bool
}

// Option configures a StructParser
type Option func(*StructParser)

// WithNamingConvention sets how column names are derived from field names
func WithNamingConvention(n NamingConvention) Option {
	return func(p *StructParser) {
		p.naming = n
	}
}

// WithIncludeUnmarked also returns structs without any ormlite directive
func WithIncludeUnmarked(include bool) Option {
	return func(p *StructParser) {
		p.includeUnmarked = include
	}
}

func NewStructParser(opts ...Option) *StructParser {
	p := &StructParser{
		fileSet:   token.NewFileSet(),
		tagParser: NewTagParser(),
		naming:    NamingSnakeCase,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseDirectory parses every non-test Go file in dir. Files are parsed
// concurrently; models come back in file name order, then declaration order.
func (p *StructParser) ParseDirectory(ctx context.Context, dir string) ([]Model, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open package directory %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf("%s is not a directory", dir)
	}

	pattern := filepath.Join(dir, "*.go")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to glob directory %s", dir)
	}

	var files []string
	for _, file := range matches {
		if strings.HasSuffix(file, "_test.go") {
			continue
		}
		files = append(files, file)
	}

	log := logger.Parser().WithField("dir", dir)
	log.Debug("parsing %d files", len(files))

	results := make([][]Model, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			models, err := p.ParseFile(file)
			if err != nil {
				return errors.Wrapf(err, "failed to parse file %s", file)
			}
			results[i] = models
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Model
	for _, models := range results {
		all = append(all, models...)
	}
	log.Info("found %d models", len(all))

	return all, nil
}

// ParseFile parses the Go file at filename
func (p *StructParser) ParseFile(filename string) ([]Model, error) {
	return p.ParseSource(filename, nil)
}

// ParseSource parses Go source. When src is nil the file is read from filename.
func (p *StructParser) ParseSource(filename string, src interface{}) ([]Model, error) {
	file, err := parser.ParseFile(p.fileSet, filename, src, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse file")
	}

	var models []Model

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}

		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			structType, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}

			doc := ts.Doc
			if doc == nil && len(gen.Specs) == 1 {
				doc = gen.Doc
			}

			record, marked, err := p.parseStruct(ts.Name.Name, doc, structType)
			if err != nil {
				return nil, errors.Wrapf(err, "struct %s", ts.Name.Name)
			}

			if !marked && !p.includeUnmarked {
				logger.Parser().WithField("struct", ts.Name.Name).Debug("skipping struct without %s directives", TagName)
				continue
			}

			models = append(models, Model{
				RecordDecl: record,
				Pos:        p.fileSet.Position(ts.Pos()),
			})
		}
	}

	return models, nil
}

func (p *StructParser) parseStruct(structName string, doc *ast.CommentGroup, structType *ast.StructType) (metadata.RecordDecl, bool, error) {
	record := metadata.RecordDecl{
		Ident: metadata.Ident(structName),
	}

	modelGroups, err := p.commentDirectives(doc)
	if err != nil {
		return record, false, err
	}
	marked := len(modelGroups) > 0

	for _, text := range modelGroups {
		group, err := p.tagParser.ParseModelTag(text)
		if err != nil {
			return record, false, err
		}
		record.Directives = append(record.Directives, group)
	}

	for _, field := range structType.Fields.List {
		tag, hasTag := p.ormliteTag(field)
		if hasTag {
			marked = true
		}

		if len(field.Names) == 0 || (len(field.Names) == 1 && field.Names[0].Name == "_") {
			if hasTag && !p.tagParser.IsSkip(tag) {
				group, err := p.tagParser.ParseModelTag(tag)
				if err != nil {
					return record, false, err
				}
				record.Directives = append(record.Directives, group)
			}
			continue
		}

		fieldDocs, err := p.commentDirectives(field.Doc)
		if err != nil {
			return record, false, err
		}
		if len(fieldDocs) > 0 {
			marked = true
		}

		if (hasTag && p.tagParser.IsSkip(tag)) || p.dbSkipped(field) {
			continue
		}

		var groups []metadata.ColumnDirectives
		for _, text := range fieldDocs {
			group, err := p.tagParser.ParseColumnTag(text)
			if err != nil {
				return record, false, errors.Wrapf(err, "field %s", field.Names[0].Name)
			}
			groups = append(groups, group)
		}
		if hasTag {
			group, err := p.tagParser.ParseColumnTag(tag)
			if err != nil {
				return record, false, errors.Wrapf(err, "field %s", field.Names[0].Name)
			}
			groups = append(groups, group)
		}

		typ := p.typeExpr(field.Type)

		for _, name := range field.Names {
			if !ast.IsExported(name.Name) {
				continue
			}

			if !metadata.IsJoin(typ) && hasJoinDirective(groups) {
				logger.Parser().WithFields(map[string]interface{}{
					"struct": structName,
					"field":  name.Name,
				}).Warn("join directive on a field of type %s is ignored", typ)
			}

			record.Fields = append(record.Fields, metadata.FieldDecl{
				Ident:      metadata.Ident(name.Name),
				Name:       p.columnName(name.Name, field),
				Type:       typ,
				Directives: groups,
			})
		}
	}

	return record, marked, nil
}

func (p *StructParser) commentDirectives(doc *ast.CommentGroup) ([]string, error) {
	if doc == nil {
		return nil, nil
	}

	var directives []string
	for _, c := range doc.List {
		if text, ok := p.tagParser.DirectiveFromComment(c.Text); ok {
			if text == "" {
				return nil, errors.Newf("empty directive at %s", p.fileSet.Position(c.Pos()))
			}
			directives = append(directives, text)
		}
	}
	return directives, nil
}

func (p *StructParser) ormliteTag(field *ast.Field) (string, bool) {
	return p.extractTag(field, TagName)
}

// extractTag looks up key in the field's struct tag. Both raw and
// interpreted string literals are accepted.
func (p *StructParser) extractTag(field *ast.Field, key string) (string, bool) {
	if field.Tag == nil {
		return "", false
	}
	tagString, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return "", false
	}
	return reflect.StructTag(tagString).Lookup(key)
}

// dbSkipped reports whether the db tag excludes the field from the table
func (p *StructParser) dbSkipped(field *ast.Field) bool {
	dbTag, ok := p.extractTag(field, "db")
	if !ok {
		return false
	}
	name, _, _ := strings.Cut(dbTag, ",")
	return name == "-"
}

func (p *StructParser) columnName(goName string, field *ast.Field) string {
	if dbTag, ok := p.extractTag(field, "db"); ok {
		name, _, _ := strings.Cut(dbTag, ",")
		if name != "" && name != "-" {
			return name
		}
	}

	if p.naming == NamingVerbatim {
		return goName
	}
	return metadata.SnakeCase(goName)
}

func (p *StructParser) typeExpr(expr ast.Expr) metadata.TypeExpr {
	if path, ok := p.pathOf(expr); ok {
		return metadata.PathType{Path: path}
	}
	return metadata.OtherType{Text: types.ExprString(expr)}
}

// pathOf converts identifiers, selectors and generic instantiations into a path
func (p *StructParser) pathOf(expr ast.Expr) (metadata.Path, bool) {
	switch t := expr.(type) {
	case *ast.Ident:
		return metadata.NewPath(t.Name), true

	case *ast.SelectorExpr:
		base, ok := p.pathOf(t.X)
		if !ok {
			return metadata.Path{}, false
		}
		base.Segments = append(base.Segments, metadata.PathSegment{Ident: metadata.Ident(t.Sel.Name)})
		return base, true

	case *ast.IndexExpr:
		return p.withArgs(t.X, []ast.Expr{t.Index})

	case *ast.IndexListExpr:
		return p.withArgs(t.X, t.Indices)
	}
	return metadata.Path{}, false
}

func (p *StructParser) withArgs(base ast.Expr, indices []ast.Expr) (metadata.Path, bool) {
	path, ok := p.pathOf(base)
	if !ok || len(path.Segments) == 0 {
		return metadata.Path{}, false
	}

	args := make([]metadata.TypeExpr, len(indices))
	for i, idx := range indices {
		args[i] = p.typeExpr(idx)
	}
	path.Segments[len(path.Segments)-1].Args = args
	return path, true
}

func hasJoinDirective(groups []metadata.ColumnDirectives) bool {
	for _, g := range groups {
		if g.ManyToOneKey != nil || g.ManyToManyTableName != nil || g.OneToManyForeignKey != nil {
			return true
		}
	}
	return false
}
