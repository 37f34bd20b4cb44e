package query_test

import (
	"net/url"
	"testing"

	"github.com/way-wise/company-site-backend-sub001/internal/shared/query"

	"github.com/stretchr/testify/assert"
)

var testDef = query.Definition{
	Searchable: []string{"name", "description"},
	Filters: map[string]query.Filter{
		"status":    {Column: "status", Compare: query.Equals},
		"date_from": {Column: "start_date", Compare: query.GTE},
		"date_to":   {Column: "end_date", Compare: query.LTE},
	},
	Sortable:    []string{"name", "created_at"},
	DefaultSort: "created_at DESC",
}

func TestFromValues(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		p := query.FromValues(url.Values{}, testDef)

		assert.Equal(t, query.DefaultPage, p.Page)
		assert.Equal(t, query.DefaultLimit, p.Limit)
		assert.Empty(t, p.Search)
		assert.Empty(t, p.Filters)
	})

	t.Run("picks up configured filters only", func(t *testing.T) {
		values := url.Values{}
		values.Set("status", "PENDING")
		values.Set("date_from", "2026-01-01")
		values.Set("rogue", "1")

		p := query.FromValues(values, testDef)

		assert.Equal(t, "PENDING", p.Filters["status"])
		assert.Equal(t, "2026-01-01", p.Filters["date_from"])
		assert.NotContains(t, p.Filters, "rogue")
	})

	t.Run("rejects bad pagination values", func(t *testing.T) {
		values := url.Values{}
		values.Set("page", "0")
		values.Set("limit", "-5")

		p := query.FromValues(values, testDef)

		assert.Equal(t, query.DefaultPage, p.Page)
		assert.Equal(t, query.DefaultLimit, p.Limit)
	})

	t.Run("accepts explicit pagination", func(t *testing.T) {
		values := url.Values{}
		values.Set("page", "3")
		values.Set("limit", "25")
		values.Set("search", "annual")

		p := query.FromValues(values, testDef)

		assert.Equal(t, 3, p.Page)
		assert.Equal(t, 25, p.Limit)
		assert.Equal(t, "annual", p.Search)
	})
}

func TestParams_Offset(t *testing.T) {
	assert.Equal(t, 0, query.Params{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, query.Params{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 50, query.Params{Page: 3, Limit: 25}.Offset())
}

func TestDefinition_Order(t *testing.T) {
	t.Run("allow-listed column ascending by default", func(t *testing.T) {
		order := testDef.Order(query.Params{SortBy: "name"})
		assert.Equal(t, "name ASC", order)
	})

	t.Run("explicit direction", func(t *testing.T) {
		order := testDef.Order(query.Params{SortBy: "name", SortDir: "DESC"})
		assert.Equal(t, "name DESC", order)
	})

	t.Run("unlisted column falls back to default", func(t *testing.T) {
		order := testDef.Order(query.Params{SortBy: "payload; DROP TABLE users"})
		assert.Equal(t, "created_at DESC", order)
	})

	t.Run("empty sort falls back to default", func(t *testing.T) {
		order := testDef.Order(query.Params{})
		assert.Equal(t, "created_at DESC", order)
	})
}
