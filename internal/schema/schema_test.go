package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-schema/internal/models"
	"blog-schema/internal/schema"
)

func loadSchema(t *testing.T) *schema.Schema {
	t.Helper()
	sch, err := schema.Load(models.All()...)
	require.NoError(t, err)
	return sch
}

func foreignKeyOn(t *testing.T, table *schema.Table, column string) *schema.ForeignKey {
	t.Helper()
	for _, fk := range table.ForeignKeys {
		if len(fk.Columns) == 1 && fk.Columns[0] == column {
			return fk
		}
	}
	t.Fatalf("no foreign key on %s.%s", table.Table, column)
	return nil
}

func TestLoad_Tables(t *testing.T) {
	sch := loadSchema(t)

	var names []string
	for _, table := range sch.Tables {
		names = append(names, table.TableName())
	}
	assert.Equal(t, []string{"users", "users_preferences", "posts", "categories", "posts_categories"}, names)
}

func TestLoad_UserColumns(t *testing.T) {
	sch := loadSchema(t)
	users, ok := sch.Table("users")
	require.True(t, ok)

	var cols []string
	for _, c := range users.TableColumns() {
		cols = append(cols, c.ColumnName())
	}
	assert.Equal(t, []string{"id", "name", "age", "email", "user_role"}, cols)
	assert.Equal(t, []string{"id"}, users.PrimaryKey)

	id, _ := users.Column("id")
	assert.Equal(t, schema.TypeUUID, id.SemanticType)
	assert.True(t, id.PrimaryKey)
	assert.False(t, id.Nullable)
	assert.Equal(t, "gen_random_uuid()", id.Default)

	name, _ := users.Column("name")
	assert.Equal(t, schema.TypeText, name.SemanticType)
	assert.Equal(t, "varchar(255)", name.SQLType)
	assert.False(t, name.Nullable)
	assert.False(t, name.Unique)

	age, _ := users.Column("age")
	assert.Equal(t, schema.TypeInteger, age.SemanticType)
	assert.Equal(t, "integer", age.SQLType)

	email, _ := users.Column("email")
	assert.True(t, email.Unique)
	assert.False(t, email.Nullable)

	role, _ := users.Column("user_role")
	assert.Equal(t, schema.TypeEnum, role.SemanticType)
	assert.Equal(t, "user_role", role.SQLType)
	require.NotNil(t, role.Enum)
	assert.Equal(t, []string{"ADMIN", "BASIC"}, role.Enum.Values)
	assert.Equal(t, "BASIC", role.Default)
	assert.Equal(t, "'BASIC'", role.DefaultSQL())
	assert.False(t, role.Nullable)
}

func TestLoad_UserIndexesAndUniques(t *testing.T) {
	sch := loadSchema(t)
	users, _ := sch.Table("users")

	require.Len(t, users.Indexes, 1)
	assert.Equal(t, "email_index", users.Indexes[0].Name)
	assert.Equal(t, []string{"email"}, users.Indexes[0].Columns)
	assert.False(t, users.Indexes[0].Unique)

	uniques := map[string][]string{}
	for _, u := range users.Uniques {
		assert.True(t, u.Unique)
		uniques[u.Name] = u.Columns
	}
	assert.Equal(t, map[string][]string{
		"unique_name_and_age": {"name", "age"},
		"users_email_unique":  {"email"},
	}, uniques)
}

func TestLoad_PostDefaults(t *testing.T) {
	sch := loadSchema(t)
	posts, _ := sch.Table("posts")

	rating, ok := posts.Column("average_rating")
	require.True(t, ok)
	assert.Equal(t, schema.TypeReal, rating.SemanticType)
	assert.Equal(t, "0", rating.DefaultSQL())
	assert.False(t, rating.Nullable)

	for _, name := range []string{"created_at", "updated_at"} {
		col, ok := posts.Column(name)
		require.True(t, ok, name)
		assert.Equal(t, schema.TypeTimestamp, col.SemanticType)
		assert.Equal(t, "now()", col.DefaultSQL())
		assert.False(t, col.Nullable)
	}

	author, _ := posts.Column("author_id")
	require.NotNil(t, author.References)
	assert.Equal(t, schema.Reference{Table: "users", Column: "id"}, *author.References)
}

func TestLoad_PreferencesDefaults(t *testing.T) {
	sch := loadSchema(t)
	prefs, _ := sch.Table("users_preferences")

	flag, ok := prefs.Column("email_updates")
	require.True(t, ok)
	assert.Equal(t, schema.TypeBoolean, flag.SemanticType)
	assert.Equal(t, "false", flag.DefaultSQL())
}

func TestLoad_ForeignKeys(t *testing.T) {
	sch := loadSchema(t)

	prefs, _ := sch.Table("users_preferences")
	fk := foreignKeyOn(t, prefs, "user_id")
	assert.Equal(t, "users", fk.ReferencedTable)
	assert.Equal(t, []string{"id"}, fk.ReferencedColumns)
	assert.Equal(t, "CASCADE", fk.OnDelete)
	assert.Len(t, prefs.ForeignKeys, 1)

	posts, _ := sch.Table("posts")
	fk = foreignKeyOn(t, posts, "author_id")
	assert.Equal(t, "users", fk.ReferencedTable)
	assert.Equal(t, "RESTRICT", fk.OnDelete)
	assert.Len(t, posts.ForeignKeys, 1)

	links, _ := sch.Table("posts_categories")
	assert.Len(t, links.ForeignKeys, 2)
	assert.Equal(t, "posts", foreignKeyOn(t, links, "post_id").ReferencedTable)
	assert.Equal(t, "categories", foreignKeyOn(t, links, "category_id").ReferencedTable)
	assert.Equal(t, "RESTRICT", foreignKeyOn(t, links, "category_id").OnDelete)

	users, _ := sch.Table("users")
	assert.Empty(t, users.ForeignKeys)
	categories, _ := sch.Table("categories")
	assert.Empty(t, categories.ForeignKeys)
}

func TestLoad_CompositePrimaryKey(t *testing.T) {
	sch := loadSchema(t)
	links, _ := sch.Table("posts_categories")

	assert.Equal(t, []string{"post_id", "category_id"}, links.PrimaryKey)
	assert.True(t, links.CompositePrimaryKey())

	postID, _ := links.Column("post_id")
	assert.Empty(t, postID.Default)
}

func TestLoad_Relations(t *testing.T) {
	sch := loadSchema(t)

	tests := []struct {
		table      string
		relation   string
		target     string
		kind       schema.Cardinality
		fields     []string
		references []string
	}{
		{"users", "preferences", "users_preferences", schema.One, []string{"id"}, []string{"user_id"}},
		{"users", "posts", "posts", schema.Many, []string{"id"}, []string{"author_id"}},
		{"users_preferences", "user", "users", schema.One, []string{"user_id"}, []string{"id"}},
		{"posts", "author", "users", schema.One, []string{"author_id"}, []string{"id"}},
		{"posts", "postCategories", "posts_categories", schema.Many, []string{"id"}, []string{"post_id"}},
		{"categories", "posts", "posts_categories", schema.Many, []string{"id"}, []string{"category_id"}},
		{"posts_categories", "post", "posts", schema.One, []string{"post_id"}, []string{"id"}},
		{"posts_categories", "category", "categories", schema.One, []string{"category_id"}, []string{"id"}},
	}

	for _, tt := range tests {
		t.Run(tt.table+"."+tt.relation, func(t *testing.T) {
			table, ok := sch.Table(tt.table)
			require.True(t, ok)
			rel, ok := table.Relation(tt.relation)
			require.True(t, ok)
			assert.Equal(t, tt.target, rel.Target)
			assert.Equal(t, tt.kind, rel.Kind)
			assert.Equal(t, tt.fields, rel.Fields)
			assert.Equal(t, tt.references, rel.References)
		})
	}

	assert.Len(t, sch.Relations("users"), 2)
	assert.Len(t, sch.Relations("categories"), 1)
	assert.Nil(t, sch.Relations("missing"))
}

func TestSchema_Enums(t *testing.T) {
	sch := loadSchema(t)

	require.Len(t, sch.Enums, 1)
	assert.Equal(t, "user_role", sch.Enums[0].Name)
	assert.Equal(t, []string{"ADMIN", "BASIC"}, sch.Enums[0].Values)
}

func TestSchema_SortedTables(t *testing.T) {
	sch, err := schema.Load(&models.PostCategory{}, &models.Post{}, &models.Category{}, &models.UserPreferences{}, &models.User{})
	require.NoError(t, err)

	sorted, err := sch.SortedTables()
	require.NoError(t, err)

	pos := map[string]int{}
	for i, table := range sorted {
		pos[table.TableName()] = i
	}
	require.Len(t, pos, 5)
	assert.Less(t, pos["users"], pos["users_preferences"])
	assert.Less(t, pos["users"], pos["posts"])
	assert.Less(t, pos["posts"], pos["posts_categories"])
	assert.Less(t, pos["categories"], pos["posts_categories"])
}

func TestColumn_Definition(t *testing.T) {
	sch := loadSchema(t)
	users, _ := sch.Table("users")

	id, _ := users.Column("id")
	assert.Equal(t, `"id" uuid PRIMARY KEY DEFAULT gen_random_uuid()`, id.Definition(true))

	role, _ := users.Column("user_role")
	assert.Equal(t, `"user_role" user_role DEFAULT 'BASIC' NOT NULL`, role.Definition(true))

	links, _ := sch.Table("posts_categories")
	postID, _ := links.Column("post_id")
	assert.Equal(t, `"post_id" uuid NOT NULL`, postID.Definition(false))
}
