package service

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterCriteria narrows catalog queries. Brand terms are OR-combined,
// case-insensitive substring matches; price bounds are AND-combined with the
// brand clause and with each other.
type FilterCriteria struct {
	Brands   []string
	MinPrice *float64
	MaxPrice *float64
}

// ParseFilterCriteria builds criteria from raw query parameters. Brand terms
// come comma separated and are trimmed individually; empty terms are dropped.
// Unparseable price bounds are treated as absent.
func ParseFilterCriteria(brands, minPrice, maxPrice string) FilterCriteria {
	var fc FilterCriteria

	if brands != "" {
		for _, term := range strings.Split(brands, ",") {
			term = strings.TrimSpace(term)
			if term != "" {
				fc.Brands = append(fc.Brands, term)
			}
		}
	}

	if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
		fc.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
		fc.MaxPrice = &v
	}

	return fc
}

// Clause is a single bound comparison against a catalog column. The column
// and operator always come from code, never from the caller; only Value is
// caller controlled and it is always bound as a query parameter.
type Clause struct {
	Column string
	Op     string
	Value  any
}

// Predicate collects clauses for one query. Or-clauses render as a single
// parenthesised OR group, and-clauses render individually; both attach to a
// base query ending in "WHERE 1=1" with AND.
type Predicate struct {
	or  []Clause
	and []Clause
}

func (p *Predicate) Or(column, op string, value any) {
	p.or = append(p.or, Clause{Column: column, Op: op, Value: value})
}

func (p *Predicate) And(column, op string, value any) {
	p.and = append(p.and, Clause{Column: column, Op: op, Value: value})
}

// Len reports the number of bound values the predicate carries.
func (p *Predicate) Len() int {
	return len(p.or) + len(p.and)
}

// Render returns the SQL fragment (leading " AND ..." or empty) and the bound
// arguments, numbering placeholders from next.
func (p *Predicate) Render(next int) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, p.Len())

	if len(p.or) > 0 {
		sb.WriteString(" AND (")
		for i, c := range p.or {
			if i > 0 {
				sb.WriteString(" OR ")
			}
			fmt.Fprintf(&sb, "%s %s $%d", c.Column, c.Op, next)
			args = append(args, c.Value)
			next++
		}
		sb.WriteByte(')')
	}

	for _, c := range p.and {
		fmt.Fprintf(&sb, " AND %s %s $%d", c.Column, c.Op, next)
		args = append(args, c.Value)
		next++
	}

	return sb.String(), args
}

// criteriaPredicate translates FilterCriteria into a predicate. An empty
// criteria value yields an empty predicate matching the whole catalog.
func criteriaPredicate(fc FilterCriteria) *Predicate {
	p := &Predicate{}
	for _, brand := range fc.Brands {
		p.Or("brand_name", "ILIKE", "%"+brand+"%")
	}
	if fc.MinPrice != nil {
		p.And("show_price", ">=", *fc.MinPrice)
	}
	if fc.MaxPrice != nil {
		p.And("show_price", "<=", *fc.MaxPrice)
	}
	return p
}
