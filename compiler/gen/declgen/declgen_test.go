package declgen

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/strata/compiler/gen"
	"github.com/syssam/strata/compiler/load"
)

func libraryIR(t *testing.T) (*gen.IR, gen.RelationGraph) {
	t.Helper()
	snap := load.NewSnapshot(
		&load.Model{
			Name:       "Author",
			Entity:     &load.EntityMeta{Name: "Author", Service: "library"},
			PrimaryKey: &load.PrimaryKeyMeta{TableName: "authors"},
			Properties: []*load.Property{
				{Name: "id", Type: &load.TypeRef{Name: "uuid"}, PrimaryKey: true},
				{Name: "name", Type: &load.TypeRef{Name: "text"}},
			},
		},
		&load.Model{
			Name:       "Book",
			Entity:     &load.EntityMeta{Name: "Book", Service: "library"},
			PrimaryKey: &load.PrimaryKeyMeta{TableName: "books"},
			Properties: []*load.Property{
				{Name: "id", Type: &load.TypeRef{Name: "uuid"}, PrimaryKey: true},
				{Name: "title", Type: &load.TypeRef{Name: "text"}},
				{Name: "pages", Type: &load.TypeRef{Name: "integer"}, Optional: true},
				{Name: "status", Type: &load.TypeRef{Name: "Status", Values: []string{"draft", "published"}}},
				{
					Name: "authorId",
					Type: &load.TypeRef{Name: "uuid"},
					Ref:  &load.Reference{Model: "Author", Property: "id"},
				},
			},
		},
		&load.Model{
			Name:       "Genre",
			Entity:     &load.EntityMeta{Name: "Genre", Service: "library"},
			PrimaryKey: &load.PrimaryKeyMeta{TableName: "genres"},
			Properties: []*load.Property{
				{Name: "id", Type: &load.TypeRef{Name: "uuid"}, PrimaryKey: true},
				{Name: "label", Type: &load.TypeRef{Name: "text"}},
			},
		},
		&load.Model{
			Name:       "BookGenre",
			Entity:     &load.EntityMeta{Name: "BookGenre", Service: "library"},
			PrimaryKey: &load.PrimaryKeyMeta{TableName: "book_genres"},
			Junction:   true,
			Properties: []*load.Property{
				{
					Name:       "bookId",
					Type:       &load.TypeRef{Name: "uuid"},
					PrimaryKey: true,
					Ref:        &load.Reference{Model: "Book", Property: "id"},
				},
				{
					Name:       "genreId",
					Type:       &load.TypeRef{Name: "uuid"},
					PrimaryKey: true,
					Ref:        &load.Reference{Model: "Genre", Property: "id"},
				},
			},
		},
	)
	ir := gen.NewIR(snap)
	require.Len(t, ir.Entities, 4)
	return ir, gen.NewRelationGraph(ir.Entities)
}

func TestGenerate(t *testing.T) {
	ir, graph := libraryIR(t)
	target := t.TempDir()
	cfg, err := gen.NewConfig(gen.WithTarget(target), gen.WithPackage("library"))
	require.NoError(t, err)

	g, err := NewGenerator(ir, graph, cfg)
	require.NoError(t, err)
	require.NoError(t, g.Generate(context.Background()))

	for _, name := range []string{"author.go", "book.go", "genre.go", "bookgenre.go", "relation.go", "enums.go"} {
		_, err := os.Stat(filepath.Join(target, name))
		assert.NoError(t, err, name)
	}

	book, err := os.ReadFile(filepath.Join(target, "book.go"))
	require.NoError(t, err)
	src := string(book)
	assert.Contains(t, src, "package library")
	assert.Contains(t, src, "BookTable = \"books\"")
	assert.Contains(t, src, "type Book struct")
	// Struct fields are rendered gofmt-aligned, so the whitespace between
	// name and type varies with the longest field name.
	assert.Regexp(t, `AuthorId\s+uuid\.UUID`, src)
	assert.Regexp(t, `Pages\s+\*int`, src)
	assert.Regexp(t, `Status\s+StatusEnum`, src)
	assert.Contains(t, src, "BookRelations")
	assert.Contains(t, src, "BookWithRelationsSQL")

	enums, err := os.ReadFile(filepath.Join(target, "enums.go"))
	require.NoError(t, err)
	assert.Contains(t, string(enums), "type StatusEnum string")
	assert.Regexp(t, `StatusEnumDraft\s+StatusEnum = "draft"`, string(enums))
}

func TestGenerateMissingTarget(t *testing.T) {
	ir, graph := libraryIR(t)
	_, err := NewGenerator(ir, graph, &gen.Config{})
	require.Error(t, err)
	var cerr *gen.ConfigError
	assert.ErrorAs(t, err, &cerr)
}

func TestRelationQuery(t *testing.T) {
	ir, graph := libraryIR(t)

	book, ok := ir.Entity("Book")
	require.True(t, ok)
	q := RelationQuery(ir, graph, book)
	assert.Contains(t, q, "FROM books")
	assert.Contains(t, q, "LEFT JOIN authors AS author ON books.author_id = author.id")
	assert.Contains(t, q, "LEFT JOIN book_genres AS genres_via ON genres_via.book_id = books.id")
	assert.Contains(t, q, "LEFT JOIN genres AS genres ON genres.id = genres_via.genre_id")

	author, ok := ir.Entity("Author")
	require.True(t, ok)
	q = RelationQuery(ir, graph, author)
	assert.Contains(t, q, "LEFT JOIN books AS books ON books.author_id = authors.id")
}

func TestRelationQueryDuplicateReverseKeys(t *testing.T) {
	// A child holding two foreign keys to the same target yields two
	// same-named reverse relations; each one must join its own key column
	// under a distinct alias.
	snap := load.NewSnapshot(
		&load.Model{
			Name:       "Account",
			Entity:     &load.EntityMeta{Name: "Account", Service: "billing"},
			PrimaryKey: &load.PrimaryKeyMeta{TableName: "accounts"},
			Properties: []*load.Property{
				{Name: "id", Type: &load.TypeRef{Name: "uuid"}, PrimaryKey: true},
			},
		},
		&load.Model{
			Name:       "Transfer",
			Entity:     &load.EntityMeta{Name: "Transfer", Service: "billing"},
			PrimaryKey: &load.PrimaryKeyMeta{TableName: "transfers"},
			Properties: []*load.Property{
				{Name: "id", Type: &load.TypeRef{Name: "uuid"}, PrimaryKey: true},
				{
					Name: "fromId",
					Type: &load.TypeRef{Name: "uuid"},
					Ref:  &load.Reference{Model: "Account", Property: "id"},
				},
				{
					Name: "toId",
					Type: &load.TypeRef{Name: "uuid"},
					Ref:  &load.Reference{Model: "Account", Property: "id"},
				},
			},
		},
	)
	ir := gen.NewIR(snap)
	graph := gen.NewRelationGraph(ir.Entities)

	account, ok := ir.Entity("Account")
	require.True(t, ok)
	require.Len(t, graph.Relations("Account"), 2)

	q := RelationQuery(ir, graph, account)
	assert.Contains(t, q, "LEFT JOIN transfers AS transfers ON transfers.from_id = accounts.id")
	assert.Contains(t, q, "LEFT JOIN transfers AS transfers_2 ON transfers_2.to_id = accounts.id")
}

func TestRelationQueryExecutes(t *testing.T) {
	ir, graph := libraryIR(t)
	author, ok := ir.Entity("Author")
	require.True(t, ok)
	query := RelationQuery(ir, graph, author)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow("6dd2a5ab-0000-0000-0000-000000000000", "Ursula"))

	rows, err := db.Query(query)
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())
	var id, name string
	require.NoError(t, rows.Scan(&id, &name))
	assert.Equal(t, "Ursula", name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
