package zotero

import (
	sq "github.com/Masterminds/squirrel"
)

// scopeFilter restricts the title query to items in selected collections.
type scopeFilter struct {
	items sq.SelectBuilder
}

// ScopeFilter builds a filter for the title query matching items in the
// collection called name and, when includeSub is set, items in any
// collection whose parent is called name. Only one level of nesting is
// matched, not the full subtree.
//
// Collection names are not unique in Zotero; every collection with the
// given name matches.
func ScopeFilter(name string, includeSub bool) sq.Sqlizer {
	var pred sq.Sqlizer = sq.Eq{"c.collectionName": name}
	if includeSub {
		pred = sq.Or{
			pred,
			sq.Expr("c.parentCollectionID IN (SELECT collectionID FROM collections WHERE collectionName = ?)", name),
		}
	}

	items := sq.Select("ci.itemID").
		From("collectionItems ci").
		Join("collections c ON c.collectionID = ci.collectionID").
		Where(pred)

	return scopeFilter{items: items}
}

// ToSql implements sq.Sqlizer.
func (f scopeFilter) ToSql() (string, []interface{}, error) {
	sql, args, err := f.items.ToSql()
	if err != nil {
		return "", nil, err
	}
	return "i.itemID IN (" + sql + ")", args, nil
}
