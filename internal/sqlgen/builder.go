// Package sqlgen builds parameterized SQL statement text from structured
// specs. It is a pure translation layer: it never executes anything, and it
// assumes table and column names have already been resolved and validated
// against metadata. Values are always bound parameters, never interpolated.
//
// Determinism contract: an identical spec yields identical statement text
// and argument order across calls.
package sqlgen

import (
	"fmt"
	"strconv"
	"strings"
)

// Statement is one ready-to-execute parameterized statement.
type Statement struct {
	SQL  string
	Args []any
}

// SortKey is one explicit ORDER BY entry.
type SortKey struct {
	Column string
	Desc   bool
}

// SelectSpec describes a SELECT over one physical table.
//
// OrderColumn, when set, is the implicit primary sort: it is always emitted
// first and ascending, ahead of any caller-specified OrderBy. For view-backed
// reads this pins output order to the view's displayed order for equal sort
// keys, which stable pagination depends on.
type SelectSpec struct {
	Table       string
	Projection  []string // nil means all columns
	Filter      *Condition
	OrderColumn string
	OrderBy     []SortKey
	Offset      int
	Limit       int // <= 0 means no limit
}

// quoteIdent quotes an already-validated identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// BuildInsert builds one multi-row INSERT from a column list and a value
// matrix. Every row must match the column list width.
func BuildInsert(d Dialect, table string, columns []string, rows [][]any) (Statement, error) {
	if table == "" {
		return Statement{}, fmt.Errorf("insert: empty table name")
	}
	if len(columns) == 0 {
		return Statement{}, fmt.Errorf("insert: empty column list")
	}
	if len(rows) == 0 {
		return Statement{}, fmt.Errorf("insert: empty value matrix")
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(quoteIdent(table))
	sb.WriteString(" (")
	for i, col := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quoteIdent(col))
	}
	sb.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	n := 0
	for ri, row := range rows {
		if len(row) != len(columns) {
			return Statement{}, fmt.Errorf("insert: row %d has %d values, want %d", ri, len(row), len(columns))
		}
		if ri > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for vi, v := range row {
			if vi > 0 {
				sb.WriteString(", ")
			}
			n++
			sb.WriteString(d.Placeholder(n))
			args = append(args, v)
		}
		sb.WriteString(")")
	}

	return Statement{SQL: sb.String(), Args: args}, nil
}

// BuildSelect builds one SELECT from a spec.
func BuildSelect(d Dialect, spec SelectSpec) (Statement, error) {
	if spec.Table == "" {
		return Statement{}, fmt.Errorf("select: empty table name")
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if len(spec.Projection) == 0 {
		sb.WriteString("*")
	} else {
		for i, col := range spec.Projection {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(quoteIdent(col))
		}
	}
	sb.WriteString(" FROM ")
	sb.WriteString(quoteIdent(spec.Table))

	args := make([]any, 0, 8)
	n := 0
	if spec.Filter != nil {
		sb.WriteString(" WHERE ")
		if err := renderCondition(d, *spec.Filter, &n, &args, &sb); err != nil {
			return Statement{}, err
		}
	}

	if spec.OrderColumn != "" || len(spec.OrderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		first := true
		if spec.OrderColumn != "" {
			sb.WriteString(quoteIdent(spec.OrderColumn))
			sb.WriteString(" ASC")
			first = false
		}
		for _, key := range spec.OrderBy {
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(quoteIdent(key.Column))
			if key.Desc {
				sb.WriteString(" DESC")
			} else {
				sb.WriteString(" ASC")
			}
		}
	}

	if spec.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(strconv.Itoa(spec.Limit))
	}
	if spec.Offset > 0 {
		sb.WriteString(" OFFSET ")
		sb.WriteString(strconv.Itoa(spec.Offset))
	}

	return Statement{SQL: sb.String(), Args: args}, nil
}

// BuildCount builds an unfiltered row count for a table.
func BuildCount(d Dialect, table string) (Statement, error) {
	if table == "" {
		return Statement{}, fmt.Errorf("count: empty table name")
	}
	return Statement{SQL: "SELECT COUNT(*) AS total FROM " + quoteIdent(table)}, nil
}

// BuildNextBase builds the aggregate read used by the sequence allocator:
// one past the current maximum of column, 0 on an empty table, never null.
func BuildNextBase(d Dialect, table, column string) (Statement, error) {
	if table == "" {
		return Statement{}, fmt.Errorf("next base: empty table name")
	}
	sql := "SELECT COALESCE(MAX(" + quoteIdent(column) + ") + 1, 0) AS base FROM " + quoteIdent(table)
	return Statement{SQL: sql}, nil
}

func renderCondition(d Dialect, c Condition, n *int, args *[]any, sb *strings.Builder) error {
	if c.isGroup() {
		logic := c.Logic
		if logic != "AND" && logic != "OR" {
			return fmt.Errorf("condition: bad group logic %q", logic)
		}
		sb.WriteString("(")
		for i, child := range c.Children {
			if i > 0 {
				sb.WriteString(" " + logic + " ")
			}
			if err := renderCondition(d, child, n, args, sb); err != nil {
				return err
			}
		}
		sb.WriteString(")")
		return nil
	}

	if c.Column == "" {
		return fmt.Errorf("condition: empty column")
	}
	sb.WriteString(quoteIdent(c.Column))

	switch c.Op {
	case OpIsNull:
		sb.WriteString(" IS NULL")
	case OpIn:
		if len(c.Values) == 0 {
			return fmt.Errorf("condition: IN on %q with no values", c.Column)
		}
		sb.WriteString(" IN (")
		for i, v := range c.Values {
			if i > 0 {
				sb.WriteString(", ")
			}
			*n++
			sb.WriteString(d.Placeholder(*n))
			*args = append(*args, v)
		}
		sb.WriteString(")")
	case OpEq, OpNeq, OpGt, OpGte, OpLt, OpLte, OpLike:
		sb.WriteString(" " + string(c.Op) + " ")
		*n++
		sb.WriteString(d.Placeholder(*n))
		*args = append(*args, c.Value)
	default:
		return fmt.Errorf("condition: unknown operator %q", c.Op)
	}
	return nil
}
