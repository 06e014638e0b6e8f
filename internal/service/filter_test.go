package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterCriteria(t *testing.T) {
	fc := ParseFilterCriteria("acer, lenovo ,,msi", "50000", "150000")

	assert.Equal(t, []string{"acer", "lenovo", "msi"}, fc.Brands)
	require.NotNil(t, fc.MinPrice)
	require.NotNil(t, fc.MaxPrice)
	assert.Equal(t, 50000.0, *fc.MinPrice)
	assert.Equal(t, 150000.0, *fc.MaxPrice)
}

func TestParseFilterCriteriaInvalidBounds(t *testing.T) {
	fc := ParseFilterCriteria("", "cheap", "")

	assert.Nil(t, fc.Brands)
	assert.Nil(t, fc.MinPrice)
	assert.Nil(t, fc.MaxPrice)
}

func TestPredicateRenderEmpty(t *testing.T) {
	p := &Predicate{}

	where, args := p.Render(1)

	assert.Empty(t, where)
	assert.Empty(t, args)
	assert.Equal(t, 0, p.Len())
}

func TestPredicateRenderOrGroup(t *testing.T) {
	p := &Predicate{}
	p.Or("brand_name", "ILIKE", "%acer%")
	p.Or("brand_name", "ILIKE", "%asus%")

	where, args := p.Render(1)

	assert.Equal(t, " AND (brand_name ILIKE $1 OR brand_name ILIKE $2)", where)
	assert.Equal(t, []any{"%acer%", "%asus%"}, args)
}

func TestPredicateRenderMixedNumbering(t *testing.T) {
	p := &Predicate{}
	p.Or("brand_name", "ILIKE", "%lenovo%")
	p.And("show_price", ">=", 50000.0)
	p.And("show_price", "<=", 150000.0)

	where, args := p.Render(3)

	assert.Equal(t,
		" AND (brand_name ILIKE $3) AND show_price >= $4 AND show_price <= $5",
		where)
	assert.Equal(t, []any{"%lenovo%", 50000.0, 150000.0}, args)
	assert.Equal(t, 3, p.Len())
}

func TestCriteriaPredicate(t *testing.T) {
	minPrice := 40000.0
	fc := FilterCriteria{Brands: []string{"acer"}, MinPrice: &minPrice}

	where, args := criteriaPredicate(fc).Render(1)

	assert.Equal(t, " AND (brand_name ILIKE $1) AND show_price >= $2", where)
	assert.Equal(t, []any{"%acer%", 40000.0}, args)
}

func TestCriteriaPredicateEmpty(t *testing.T) {
	where, args := criteriaPredicate(FilterCriteria{}).Render(1)

	assert.Empty(t, where)
	assert.Empty(t, args)
}
