// Package zoterotest builds throwaway Zotero databases for tests.
package zoterotest

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// Schema is the subset of the Zotero schema zotrec reads.
var Schema = []string{
	`CREATE TABLE itemTypes (itemTypeID INTEGER PRIMARY KEY, typeName TEXT)`,
	`CREATE TABLE items (itemID INTEGER PRIMARY KEY, itemTypeID INT)`,
	`CREATE TABLE fields (fieldID INTEGER PRIMARY KEY, fieldName TEXT)`,
	`CREATE TABLE itemDataValues (valueID INTEGER PRIMARY KEY, value TEXT)`,
	`CREATE TABLE itemData (itemID INT, fieldID INT, valueID INT)`,
	`CREATE TABLE deletedItems (itemID INTEGER PRIMARY KEY)`,
	`CREATE TABLE collections (collectionID INTEGER PRIMARY KEY, collectionName TEXT, parentCollectionID INT)`,
	`CREATE TABLE collectionItems (collectionID INT, itemID INT)`,
}

// Fixture is the standard test library:
//
//	Thesis            -> "Paper One"
//	  Chapter 1       -> "Nested Paper"
//	    Section       -> "Deep Paper"
//	Other             -> "Paper Two"
//
// plus an attachment, a trashed item, and a duplicate "Paper One" outside
// any collection.
var Fixture = []string{
	`INSERT INTO itemTypes VALUES (1, 'journalArticle'), (2, 'attachment')`,
	`INSERT INTO fields VALUES (1, 'title'), (2, 'abstractNote')`,
	`INSERT INTO items VALUES (1, 1), (2, 1), (3, 2), (4, 1), (5, 1), (6, 1), (7, 1)`,
	`INSERT INTO itemDataValues VALUES
		(1, 'Paper One'), (2, 'Paper Two'), (3, 'Full Text PDF'),
		(4, 'Deleted Paper'), (5, 'Nested Paper'), (6, 'Deep Paper'), (7, 'An abstract')`,
	`INSERT INTO itemData VALUES
		(1, 1, 1), (1, 2, 7), (2, 1, 2), (3, 1, 3), (4, 1, 4),
		(5, 1, 1), (6, 1, 5), (7, 1, 6)`,
	`INSERT INTO deletedItems VALUES (4)`,
	`INSERT INTO collections VALUES
		(1, 'Thesis', NULL), (2, 'Chapter 1', 1), (3, 'Section', 2), (4, 'Other', NULL)`,
	`INSERT INTO collectionItems VALUES (1, 1), (2, 6), (3, 7), (4, 2)`,
}

// NewLibrary writes Schema followed by stmts to a fresh zotero.sqlite in a
// temporary directory and returns its path. With no stmts the library is
// empty.
func NewLibrary(t testing.TB, stmts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zotero.sqlite")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening test library: %v", err)
	}
	defer db.Close()

	for _, s := range append(append([]string{}, Schema...), stmts...) {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}

	return path
}
