package zotero

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/zotrec/internal/collection"
	"github.com/matsen/zotrec/internal/zotero/zoterotest"
)

func openTestLibrary(t *testing.T) *DB {
	t.Helper()
	db, err := Open(zoterotest.NewLibrary(t, zoterotest.Fixture...))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.sqlite"))
	assert.Error(t, err)
}

func TestTitles_EmptyLibrary(t *testing.T) {
	db, err := Open(zoterotest.NewLibrary(t))
	require.NoError(t, err)
	defer db.Close()

	titles, err := db.Titles(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, titles)

	nodes, err := db.Collections(context.Background())
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestTitles_All(t *testing.T) {
	db := openTestLibrary(t)

	titles, err := db.Titles(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"Paper One", "Paper Two", "Paper One", "Nested Paper", "Deep Paper"}, titles)
}

func TestTitles_Scoped(t *testing.T) {
	db := openTestLibrary(t)

	tests := []struct {
		name       string
		collection string
		includeSub bool
		want       []string
	}{
		{"exact collection", "Thesis", false, []string{"Paper One"}},
		{"one level of subcollections", "Thesis", true, []string{"Paper One", "Nested Paper"}},
		{"leaf collection", "Section", true, []string{"Deep Paper"}},
		{"unknown collection", "Missing", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			titles, err := db.Titles(context.Background(), ScopeFilter(tt.collection, tt.includeSub))
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestCollections(t *testing.T) {
	db := openTestLibrary(t)

	nodes, err := db.Collections(context.Background())

	require.NoError(t, err)
	require.Len(t, nodes, 4)
	assert.Equal(t, []string{"Other", "Thesis", "  Chapter 1", "    Section"}, collection.Flatten(nodes))
}

func TestScopeFilter_SQL(t *testing.T) {
	sql, args, err := ScopeFilter("Thesis", false).ToSql()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sql, "i.itemID IN (SELECT ci.itemID FROM collectionItems ci"))
	assert.NotContains(t, sql, "parentCollectionID")
	assert.Equal(t, []interface{}{"Thesis"}, args)

	sql, args, err = ScopeFilter("Thesis", true).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "c.parentCollectionID IN (SELECT collectionID FROM collections WHERE collectionName = ?)")
	assert.Equal(t, []interface{}{"Thesis", "Thesis"}, args)
}
