package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Comparison enumerates how a configured filter key is matched against
// its column. Range keys (GTE/LTE) use inclusive comparison.
type Comparison int

const (
	Equals Comparison = iota
	GTE
	LTE
)

// Filter binds a request parameter to a column and a comparison kind.
type Filter struct {
	Column  string
	Compare Comparison
}

// Definition is the per-component, compile-time configuration of which
// fields are searchable, filterable and sortable. It is stateless and
// shared by Count and Find so both see identical conditions.
type Definition struct {
	// Searchable columns are matched disjunctively (OR) with a
	// case-insensitive substring comparison against the search term.
	Searchable []string
	// Filters maps request parameter names to column comparisons,
	// combined conjunctively (AND). Unknown parameters are ignored.
	Filters map[string]Filter
	// Sortable is the allow-list of ORDER BY columns.
	Sortable []string
	// DefaultSort is used when no (or an unlisted) sort field is given,
	// e.g. "created_at DESC".
	DefaultSort string
}

// Params is the raw, already-parsed request input for one list call.
type Params struct {
	Search  string
	Filters map[string]string
	Page    int
	Limit   int
	SortBy  string
	SortDir string
}

// FromValues extracts Params from URL query values. Only filter keys
// present in the definition are picked up.
func FromValues(values url.Values, def Definition) Params {
	p := Params{
		Search:  values.Get("search"),
		Filters: map[string]string{},
		Page:    DefaultPage,
		Limit:   DefaultLimit,
		SortBy:  values.Get("sort_by"),
		SortDir: values.Get("sort_dir"),
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit >= 1 {
		p.Limit = limit
	}

	for key := range def.Filters {
		if v := values.Get(key); v != "" {
			p.Filters[key] = v
		}
	}

	return p
}

// Offset is the row offset implied by page/limit (page is 1-based).
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Scope returns a gorm scope applying the search and filter conditions.
// It deliberately excludes ordering and pagination so the same scope can
// back the parallel count query.
func (d Definition) Scope(p Params) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Search != "" && len(d.Searchable) > 0 {
			conds := make([]string, len(d.Searchable))
			args := make([]any, len(d.Searchable))
			for i, col := range d.Searchable {
				conds[i] = col + " ILIKE ?"
				args[i] = "%" + p.Search + "%"
			}
			db = db.Where(strings.Join(conds, " OR "), args...)
		}

		for key, value := range p.Filters {
			f, ok := d.Filters[key]
			if !ok {
				continue
			}
			switch f.Compare {
			case GTE:
				db = db.Where(f.Column+" >= ?", value)
			case LTE:
				db = db.Where(f.Column+" <= ?", value)
			default:
				db = db.Where(f.Column+" = ?", value)
			}
		}

		return db
	}
}

// Order resolves the ORDER BY clause against the sortable allow-list;
// anything not on the list falls back to the definition default.
func (d Definition) Order(p Params) string {
	for _, col := range d.Sortable {
		if p.SortBy == col {
			dir := "ASC"
			if strings.EqualFold(p.SortDir, "desc") {
				dir = "DESC"
			}
			return fmt.Sprintf("%s %s", col, dir)
		}
	}
	return d.DefaultSort
}

// Paginate is the companion scope for the data query.
func Paginate(p Params) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.Limit)
	}
}
