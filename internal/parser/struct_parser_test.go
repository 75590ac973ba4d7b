package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eleven-am/ormlite/pkg/metadata"
)

const shopSource = `package models

import "github.com/acme/orm"

type Ignored struct{}

type User struct {
	ID   int32  ` + "`" + `ormlite:""` + "`" + `
	Name string
}

type Item struct {
	Sku   string ` + "`" + `ormlite:"primary_key"` + "`" + `
	Price int64
}

// Customer has a renamed table.
//
//ormlite:table:customers
//ormlite:insertable:NewCustomer
type Customer struct {
	CustomerID int32
	Email      string
}

type Note struct {
	_     struct{} ` + "`" + `ormlite:"table:note"` + "`" + `
	Title string
	Body  string
}

type Order struct {
	ID       int32                ` + "`" + `ormlite:""` + "`" + `
	Customer orm.Join[Customer]
}

type Invoice struct {
	ID int32 ` + "`" + `ormlite:""` + "`" + `
	// Invoices point at their customer.
	//ormlite:many_to_one_key:local.customer_id
	Customer orm.Join[Customer]
}

type NotAModel struct {
	ID int
}
`

func parseShop(t *testing.T) map[string]Model {
	t.Helper()

	models, err := NewStructParser().ParseSource("models.go", shopSource)
	require.NoError(t, err)

	byName := make(map[string]Model, len(models))
	for _, m := range models {
		byName[string(m.Ident)] = m
	}
	return byName
}

func TestStructParser_EmptyDirectiveIsError(t *testing.T) {
	src := `package models

//ormlite:
type Ignored struct {
	ID int64
}
`
	_, err := NewStructParser().ParseSource("models.go", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty directive")
}

func TestStructParser_ModelDiscovery(t *testing.T) {
	models := parseShop(t)

	for _, name := range []string{"User", "Item", "Customer", "Note", "Order", "Invoice"} {
		assert.Contains(t, models, name)
	}
	assert.NotContains(t, models, "NotAModel")
	assert.NotContains(t, models, "Ignored")

	all, err := NewStructParser(WithIncludeUnmarked(true)).ParseSource("models.go", shopSource)
	require.NoError(t, err)
	names := make([]string, len(all))
	for i, m := range all {
		names[i] = string(m.Ident)
	}
	assert.Equal(t, []string{"Ignored", "User", "Item", "Customer", "Note", "Order", "Invoice", "NotAModel"}, names)
}

func TestStructParser_PlainInference(t *testing.T) {
	result := Extract([]Model{parseShop(t)["User"]})
	require.True(t, result.Valid)
	table := result.Tables[0]

	assert.Equal(t, "user", table.TableName)
	assert.Equal(t, "id", table.PrimaryKey)
	require.Len(t, table.Columns, 2)
	assert.Equal(t, "id", table.Columns[0].ColumnName)
	assert.Equal(t, metadata.Ident("ID"), table.Columns[0].Identifier)
	assert.Equal(t, "int32", table.Columns[0].ColumnType.String())
	assert.True(t, table.Columns[0].HasDatabaseDefault)
	assert.False(t, table.Columns[0].MarkedPrimaryKey)
	assert.Equal(t, "name", table.Columns[1].ColumnName)
	assert.False(t, table.Columns[1].HasDatabaseDefault)
}

func TestStructParser_MarkedPrimaryKey(t *testing.T) {
	result := Extract([]Model{parseShop(t)["Item"]})
	require.True(t, result.Valid)
	table := result.Tables[0]

	assert.Equal(t, "item", table.TableName)
	assert.Equal(t, "sku", table.PrimaryKey)
	assert.True(t, table.Columns[0].MarkedPrimaryKey)
	assert.True(t, table.Columns[0].HasDatabaseDefault)
	assert.False(t, table.Columns[1].HasDatabaseDefault)
}

func TestStructParser_TableOverrideAndInsertable(t *testing.T) {
	result := Extract([]Model{parseShop(t)["Customer"]})
	require.True(t, result.Valid)
	table := result.Tables[0]

	assert.Equal(t, "customers", table.TableName)
	assert.Equal(t, "NewCustomer", table.InsertStruct)
	assert.Equal(t, "customer_id", table.PrimaryKey)
	assert.True(t, table.Columns[0].HasDatabaseDefault)
}

func TestStructParser_MissingPrimaryKey(t *testing.T) {
	result := Extract([]Model{parseShop(t)["Note"]})
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Empty(t, result.Tables)

	err := result.Errors[0]
	assert.Equal(t, "Note", err.Struct)
	assert.True(t, errors.Is(err, metadata.ErrMissingPrimaryKey))
	assert.Contains(t, err.Error(), "note_id")
	assert.Contains(t, err.Error(), "note_uuid")
	assert.Contains(t, err.Pos, "models.go:")
}

func TestStructParser_JoinWithoutDirective(t *testing.T) {
	result := Extract([]Model{parseShop(t)["Order"]})
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.True(t, errors.Is(result.Errors[0], metadata.ErrJoinMissingDirective))
	assert.Contains(t, result.Errors[0].Error(), "Column customer is a Join")
}

func TestStructParser_JoinWithDirective(t *testing.T) {
	model := parseShop(t)["Invoice"]
	result := Extract([]Model{model})
	require.True(t, result.Valid, "%v", result.Errors)

	col, ok := result.Tables[0].Column("customer")
	require.True(t, ok)
	assert.Equal(t, "orm.Join[Customer]", col.ColumnType.String())
	assert.Equal(t, metadata.Ident("customer_id"), col.ManyToOneKey)
	assert.Nil(t, col.ManyToManyTableName)
	assert.Nil(t, col.OneToManyForeignKey)

	joined, ok := col.JoinedStruct()
	require.True(t, ok)
	assert.Equal(t, metadata.Ident("Customer"), joined)
}

func TestStructParser_FieldShapes(t *testing.T) {
	src := `package models

type Post struct {
	_ struct{} ` + "`" + `ormlite:"table:posts"` + "`" + `
	ID          int64                       ` + "`" + `db:"post_id" ormlite:"primary_key"` + "`" + `
	Title, Body string
	secret      string                      ` + "`" + `ormlite:"default"` + "`" + `
	Draft       bool                        ` + "`" + `ormlite:"-"` + "`" + `
	Author      *User
	Tags        []string
	Meta        map[string]Join[Tag]        ` + "`" + `ormlite:"many_to_one_key:meta_id"` + "`" + `
	Pair        Join[Key, models.Tag]       ` + "`" + `ormlite:"many_to_many_table_name:public.post_tags"` + "`" + `
	CreatedAt   time.Time                   ` + "`" + `ormlite:"default"` + "`" + `
	Embedded
}
`
	models, err := NewStructParser().ParseSource("post.go", src)
	require.NoError(t, err)
	require.Len(t, models, 1)

	fields := models[0].Fields
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"post_id", "title", "body", "author", "tags", "meta", "pair", "created_at"}, names)

	byName := make(map[string]metadata.FieldDecl)
	for _, f := range fields {
		byName[f.Name] = f
	}

	assert.IsType(t, metadata.OtherType{}, byName["author"].Type)
	assert.Equal(t, "*User", byName["author"].Type.String())
	assert.Equal(t, "[]string", byName["tags"].Type.String())
	assert.False(t, metadata.IsJoin(byName["meta"].Type))
	assert.True(t, metadata.IsJoin(byName["pair"].Type))
	assert.Equal(t, "Join[Key, models.Tag]", byName["pair"].Type.String())

	result := Extract(models)
	require.True(t, result.Valid, "%v", result.Errors)
	table := result.Tables[0]
	assert.Equal(t, "posts", table.TableName)
	assert.Equal(t, "post_id", table.PrimaryKey)

	meta, _ := table.Column("meta")
	assert.False(t, meta.HasJoinDirective())

	pair, _ := table.Column("pair")
	joined, ok := pair.JoinedStruct()
	require.True(t, ok)
	assert.Equal(t, metadata.Ident("Tag"), joined)

	created, _ := table.Column("created_at")
	assert.True(t, created.HasDatabaseDefault)
}

func TestStructParser_DBSkippedField(t *testing.T) {
	src := `package models

type Session struct {
	ID    int64  ` + "`" + `db:"-"` + "`" + `
	Token string ` + "`" + `ormlite:"default"` + "`" + `
	Extra string ` + "`" + `db:"-,omitempty"` + "`" + `
}

type Login struct {
	ID        int64  ` + "`" + `db:"-"` + "`" + `
	LoginUUID string ` + "`" + `ormlite:""` + "`" + `
}
`
	models, err := NewStructParser().ParseSource("session.go", src)
	require.NoError(t, err)
	require.Len(t, models, 2)

	require.Len(t, models[0].Fields, 1)
	assert.Equal(t, "token", models[0].Fields[0].Name)

	result := Extract(models)
	require.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Session", result.Errors[0].Struct)
	assert.True(t, errors.Is(result.Errors[0], metadata.ErrMissingPrimaryKey))

	require.Len(t, result.Tables, 1)
	login := result.Tables[0]
	assert.Equal(t, "login_uuid", login.PrimaryKey)
	_, ok := login.Column("id")
	assert.False(t, ok)
}

func TestStructParser_InterpretedStringTag(t *testing.T) {
	src := "package models\n\ntype Badge struct {\n" +
		"\tCode  string \"ormlite:\\\"primary_key\\\"\"\n" +
		"\tLabel string \"db:\\\"title\\\" ormlite:\\\"default\\\"\"\n" +
		"}\n"

	models, err := NewStructParser().ParseSource("badge.go", src)
	require.NoError(t, err)
	require.Len(t, models, 1)

	fields := models[0].Fields
	require.Len(t, fields, 2)
	require.Len(t, fields[0].Directives, 1)
	assert.True(t, fields[0].Directives[0].PrimaryKey)
	assert.Equal(t, "title", fields[1].Name)
	require.Len(t, fields[1].Directives, 1)
	assert.True(t, fields[1].Directives[0].Default)

	result := Extract(models)
	require.True(t, result.Valid, "%v", result.Errors)
	assert.Equal(t, "code", result.Tables[0].PrimaryKey)
}

func TestStructParser_DirectiveMergeOrder(t *testing.T) {
	src := `package models

//ormlite:table:first
type Event struct {
	_ struct{} ` + "`" + `ormlite:"table:second"` + "`" + `
	_ struct{} ` + "`" + `ormlite:"table:events;insertable:NewEvent"` + "`" + `

	//ormlite:many_to_one_key:owner_id
	Owner Join[User] ` + "`" + `ormlite:"one_to_many_foreign_key:user.event_id"` + "`" + `
	ID    int64
}
`
	models, err := NewStructParser().ParseSource("event.go", src)
	require.NoError(t, err)
	require.Len(t, models, 1)
	require.Len(t, models[0].Directives, 3)
	require.Len(t, models[0].Fields[0].Directives, 2)

	result := Extract(models)
	require.True(t, result.Valid, "%v", result.Errors)
	table := result.Tables[0]
	assert.Equal(t, "events", table.TableName)
	assert.Equal(t, "NewEvent", table.InsertStruct)

	owner, _ := table.Column("owner")
	assert.Empty(t, owner.ManyToOneKey)
	require.NotNil(t, owner.OneToManyForeignKey)
	assert.Equal(t, "user.event_id", owner.OneToManyForeignKey.String())
}

func TestStructParser_VerbatimNaming(t *testing.T) {
	src := `package models

type Account struct {
	id    int64  ` + "`" + `ormlite:"primary_key"` + "`" + `
	AccountID int64 ` + "`" + `ormlite:"primary_key"` + "`" + `
	OwnerName string
}
`
	models, err := NewStructParser(WithNamingConvention(NamingVerbatim)).ParseSource("account.go", src)
	require.NoError(t, err)
	require.Len(t, models, 1)

	result := Extract(models)
	require.True(t, result.Valid)
	assert.Equal(t, "AccountID", result.Tables[0].PrimaryKey)
	assert.Equal(t, "OwnerName", result.Tables[0].Columns[1].ColumnName)
}

func TestStructParser_InvalidTag(t *testing.T) {
	src := `package models

type Broken struct {
	ID int64 ` + "`" + `ormlite:"nullable"` + "`" + `
}
`
	_, err := NewStructParser().ParseSource("broken.go", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "struct Broken")
	assert.Contains(t, err.Error(), "field ID")
	assert.Contains(t, err.Error(), "unknown ormlite attribute 'nullable'")
}

func TestStructParser_ParseDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]string{
		"b_user.go": `package models

type User struct {
	ID int64 ` + "`" + `ormlite:"primary_key"` + "`" + `
}
`,
		"a_post.go": `package models

type Post struct {
	ID   int64 ` + "`" + `ormlite:"default"` + "`" + `
	User Join[User] ` + "`" + `ormlite:"many_to_one_key:user_id"` + "`" + `
}

type Comment struct {
	CommentID int64 ` + "`" + `ormlite:""` + "`" + `
}
`,
		"c_user_test.go": `package models

type Fixture struct {
	ID int64 ` + "`" + `ormlite:"primary_key"` + "`" + `
}
`,
		"notes.txt": "not go",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644))
	}

	models, err := NewStructParser().ParseDirectory(context.Background(), tmpDir)
	require.NoError(t, err)

	names := make([]string, len(models))
	for i, m := range models {
		names[i] = string(m.Ident)
	}
	assert.Equal(t, []string{"Post", "Comment", "User"}, names)

	result := Extract(models)
	require.True(t, result.Valid, "%v", result.Errors)

	catalog := result.Catalog()
	post, ok := catalog.Table("Post")
	require.True(t, ok)
	userCol, _ := post.Column("user")
	target, ok := catalog.ResolveJoin(userCol)
	require.True(t, ok)
	assert.Equal(t, "user", target.TableName)
}

func TestStructParser_ParseDirectoryErrors(t *testing.T) {
	t.Run("syntax error", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "bad.go"), []byte("package models\ntype {"), 0644))

		_, err := NewStructParser().ParseDirectory(context.Background(), tmpDir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad.go")
	})

	t.Run("cancelled", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "m.go"), []byte("package models\n"), 0644))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := NewStructParser().ParseDirectory(ctx, tmpDir)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewStructParser().ParseDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("empty directory", func(t *testing.T) {
		models, err := NewStructParser().ParseDirectory(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, models)
	})
}

func TestParseNamingConvention(t *testing.T) {
	n, err := ParseNamingConvention("")
	require.NoError(t, err)
	assert.Equal(t, NamingSnakeCase, n)

	n, err = ParseNamingConvention("verbatim")
	require.NoError(t, err)
	assert.Equal(t, NamingVerbatim, n)

	_, err = ParseNamingConvention("camelCase")
	assert.Error(t, err)
}
