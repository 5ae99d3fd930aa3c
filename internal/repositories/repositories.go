// package repositories provides sqlite persistence for tracks, playlists and cohort name lists.
package repositories

import (
	"database/sql"
	"fmt"

	"github.com/iuliopime/bmat/internal/models"
	"github.com/iuliopime/bmat/internal/shared"
)

// storageErr tags a failing query or insert so callers can classify it
// without losing the underlying message.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", shared.ErrStorage, op, err)
}

// nullable converts a model pointer field to its sql representation.
func nullable(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// ptr converts a scanned nullable column back to a model pointer field.
func ptr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// filterPredicate renders one cohort component as an exact three-valued
// predicate: a named filter matches only that name, the wildcard matches
// only NULL.
func filterPredicate(column string, f models.Filter) (string, []any) {
	if f.IsWildcard() {
		return column + " IS NULL", nil
	}
	return column + " = ?", []any{f.Value()}
}
