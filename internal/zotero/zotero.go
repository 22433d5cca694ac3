// Package zotero reads titles and collections from a Zotero SQLite database.
//
// The database is opened read-only and immutable: Zotero holds a lock on
// zotero.sqlite while it runs, and zotrec never writes to it.
package zotero

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/matsen/zotrec/internal/collection"
)

// nonBibliographicTypes are item types whose "title" is not a paper title.
var nonBibliographicTypes = []string{"attachment", "note", "annotation"}

// DB is a read-only handle on a Zotero database.
type DB struct {
	db *sql.DB
}

// Open opens the Zotero database at path read-only.
func Open(path string) (*DB, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving zotero path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("zotero database: %w", err)
	}

	dsn := (&url.URL{Scheme: "file", Path: abs, RawQuery: "mode=ro&immutable=1"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening zotero database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening zotero database: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// TitlesQuery builds the bibliography title query, optionally restricted by
// scope (see ScopeFilter).
func TitlesQuery(scope sq.Sqlizer) sq.SelectBuilder {
	q := sq.Select("v.value").
		From("items i").
		Join("itemTypes t ON t.itemTypeID = i.itemTypeID").
		Join("itemData d ON d.itemID = i.itemID").
		Join("fields f ON f.fieldID = d.fieldID").
		Join("itemDataValues v ON v.valueID = d.valueID").
		Where(sq.Eq{"f.fieldName": "title"}).
		Where(sq.NotEq{"t.typeName": nonBibliographicTypes}).
		Where("i.itemID NOT IN (SELECT itemID FROM deletedItems)").
		OrderBy("i.itemID")
	if scope != nil {
		q = q.Where(scope)
	}
	return q
}

// Titles returns the title of every non-deleted bibliographic item, in
// item order. Duplicate titles are kept. scope may be nil.
func (d *DB) Titles(ctx context.Context, scope sq.Sqlizer) ([]string, error) {
	query, args, err := TitlesQuery(scope).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building title query: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scanning title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating titles: %w", err)
	}

	return titles, nil
}

// Collections returns every collection as a flat list of nodes.
func (d *DB) Collections(ctx context.Context) ([]collection.Node, error) {
	query, args, err := sq.Select("collectionID", "collectionName", "parentCollectionID").
		From("collections").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building collection query: %w", err)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying collections: %w", err)
	}
	defer rows.Close()

	var nodes []collection.Node
	for rows.Next() {
		var n collection.Node
		var parent sql.NullInt64
		if err := rows.Scan(&n.ID, &n.Name, &parent); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		if parent.Valid {
			p := parent.Int64
			n.ParentID = &p
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections: %w", err)
	}

	return nodes, nil
}
