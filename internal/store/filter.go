package store

import (
	"fmt"
	"strings"
)

// Condition operators supported by the remote query boundary.
const (
	opEq       = "="
	opGte      = ">="
	opLte      = "<="
	opILike    = "ILIKE"
	opILikeAny = "ILIKE ANY" // disjunction over Columns
)

// Condition is a single predicate applied to a table select.
type Condition struct {
	Column  string
	Columns []string // used by OrILike instead of Column
	Op      string
	Value   any
}

// Filter describes the predicate and ordering of a table select.
// Conditions are combined with AND, in the order they were added.
// The zero value selects everything.
type Filter struct {
	Conditions []Condition
	OrderBy    string
	Descending bool
}

// with returns a copy of f with c appended. The copy never shares a
// backing array with f, so filters derived from a common base do not
// alias.
func (f Filter) with(c Condition) Filter {
	conds := make([]Condition, len(f.Conditions), len(f.Conditions)+1)
	copy(conds, f.Conditions)
	f.Conditions = append(conds, c)
	return f
}

// Eq appends an equality condition.
func (f Filter) Eq(column string, value any) Filter {
	return f.with(Condition{Column: column, Op: opEq, Value: value})
}

// Gte appends an inclusive lower-bound condition.
func (f Filter) Gte(column string, value any) Filter {
	return f.with(Condition{Column: column, Op: opGte, Value: value})
}

// Lte appends an inclusive upper-bound condition.
func (f Filter) Lte(column string, value any) Filter {
	return f.with(Condition{Column: column, Op: opLte, Value: value})
}

// ILike appends a case-insensitive pattern condition.
func (f Filter) ILike(column, pattern string) Filter {
	return f.with(Condition{Column: column, Op: opILike, Value: pattern})
}

// OrILike appends a condition matching the pattern against any of the
// given columns.
func (f Filter) OrILike(columns []string, pattern string) Filter {
	return f.with(Condition{Columns: columns, Op: opILikeAny, Value: pattern})
}

// Sort sets the order-by column and direction.
func (f Filter) Sort(column string, descending bool) Filter {
	f.OrderBy = column
	f.Descending = descending
	return f
}

// where compiles the conditions into a SQL fragment with $n
// placeholders starting at $1. An empty fragment means no WHERE
// clause applies.
func (f Filter) where() (string, []any) {
	if len(f.Conditions) == 0 {
		return "", nil
	}

	var preds []string
	var args []any
	for _, c := range f.Conditions {
		switch c.Op {
		case opILikeAny:
			var alts []string
			for _, col := range c.Columns {
				args = append(args, c.Value)
				alts = append(alts, fmt.Sprintf("%s ILIKE $%d", col, len(args)))
			}
			preds = append(preds, "("+strings.Join(alts, " OR ")+")")
		default:
			args = append(args, c.Value)
			preds = append(preds, fmt.Sprintf("%s %s $%d", c.Column, c.Op, len(args)))
		}
	}
	return strings.Join(preds, " AND "), args
}

// order compiles the ORDER BY fragment, falling back to the given
// column so pagination stays consistent across pages.
func (f Filter) order(fallback string) string {
	col := f.OrderBy
	if col == "" {
		col = fallback
	}
	dir := "ASC"
	if f.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s", col, dir)
}

// buildSelect assembles a full paginated SELECT for the given table
// and column list. The offset and limit become the last two
// placeholders.
func (f Filter) buildSelect(table, cols, fallbackOrder string, offset, limit int) (string, []any) {
	where, args := f.where()

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, table)
	if where != "" {
		b.WriteString(" WHERE " + where)
	}
	fmt.Fprintf(&b, " ORDER BY %s", f.order(fallbackOrder))
	args = append(args, offset)
	fmt.Fprintf(&b, " OFFSET $%d", len(args))
	args = append(args, limit)
	fmt.Fprintf(&b, " LIMIT $%d", len(args))
	return b.String(), args
}
