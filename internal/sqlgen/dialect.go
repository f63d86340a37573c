package sqlgen

import "strconv"

// Dialect selects the placeholder format for bound parameters.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

// Placeholder returns the bound-parameter marker for 1-based position n.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}
