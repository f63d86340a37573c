package sqlgen

// Op is a comparison operator in a filter predicate.
type Op string

const (
	OpEq     Op = "="
	OpNeq    Op = "!="
	OpGt     Op = ">"
	OpGte    Op = ">="
	OpLt     Op = "<"
	OpLte    Op = "<="
	OpLike   Op = "LIKE"
	OpIn     Op = "IN"
	OpIsNull Op = "IS NULL"
)

// Condition is one node of a filter predicate tree. A node is either a leaf
// comparison (Column/Op/Value) or a group (Logic/Children); group nodes
// ignore the leaf fields and vice versa.
type Condition struct {
	Column string
	Op     Op
	Value  any
	Values []any // IN operands

	Logic    string // "AND" or "OR"
	Children []Condition
}

func (c Condition) isGroup() bool {
	return len(c.Children) > 0
}

// Eq creates a condition for checking equality.
func Eq(column string, value any) Condition {
	return Condition{Column: column, Op: OpEq, Value: value}
}

// Neq creates a condition for checking inequality.
func Neq(column string, value any) Condition {
	return Condition{Column: column, Op: OpNeq, Value: value}
}

// Gt creates a condition for checking if a value is greater than another.
func Gt(column string, value any) Condition {
	return Condition{Column: column, Op: OpGt, Value: value}
}

// Gte creates a condition for checking if a value is greater than or equal to another.
func Gte(column string, value any) Condition {
	return Condition{Column: column, Op: OpGte, Value: value}
}

// Lt creates a condition for checking if a value is less than another.
func Lt(column string, value any) Condition {
	return Condition{Column: column, Op: OpLt, Value: value}
}

// Lte creates a condition for checking if a value is less than or equal to another.
func Lte(column string, value any) Condition {
	return Condition{Column: column, Op: OpLte, Value: value}
}

// Like creates a condition for checking if a value matches a pattern.
func Like(column string, value any) Condition {
	return Condition{Column: column, Op: OpLike, Value: value}
}

// In creates a condition for checking membership in a value set.
func In(column string, values ...any) Condition {
	return Condition{Column: column, Op: OpIn, Values: values}
}

// IsNull creates a condition for checking absence of a value.
func IsNull(column string) Condition {
	return Condition{Column: column, Op: OpIsNull}
}

// And groups conditions so that all must hold.
func And(children ...Condition) Condition {
	return Condition{Logic: "AND", Children: children}
}

// Or groups conditions so that at least one must hold.
func Or(children ...Condition) Condition {
	return Condition{Logic: "OR", Children: children}
}
