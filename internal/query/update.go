package query

import (
	"strconv"
	"strings"

	"github.com/mickamy/trackable/internal/ident"
)

// Placeholder selects the bind parameter syntax of the target driver.
type Placeholder int

const (
	Dollar   Placeholder = iota // $1, $2 (PostgreSQL)
	Question                    // ?, ? (SQLite, MySQL)
)

// Nth renders the n-th (1-based) bind parameter.
func (p Placeholder) Nth(n int) string {
	if p == Question {
		return "?"
	}
	return "$" + strconv.Itoa(n)
}

// Update builds `UPDATE table SET c1 = $1, ... WHERE key = $n` where the key
// parameter follows the column parameters. It returns "" when there is nothing
// to set or the table identifier is empty.
func Update(table string, cols []string, key string, p Placeholder) string {
	tableIdent := ident.Qualified(table)
	if tableIdent == "" || len(cols) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(tableIdent)
	b.WriteString(" SET ")
	for i, c := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(ident.Quote(c))
		b.WriteString(" = ")
		b.WriteString(p.Nth(i + 1))
	}
	b.WriteString(" WHERE ")
	b.WriteString(ident.Quote(key))
	b.WriteString(" = ")
	b.WriteString(p.Nth(len(cols) + 1))
	return b.String()
}

// SelectByKey builds `SELECT * FROM table WHERE key = $1`.
func SelectByKey(table, key string, p Placeholder) string {
	tableIdent := ident.Qualified(table)
	if tableIdent == "" {
		return ""
	}
	return "SELECT * FROM " + tableIdent + " WHERE " + ident.Quote(key) + " = " + p.Nth(1)
}
