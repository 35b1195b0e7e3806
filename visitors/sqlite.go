package visitors

import (
	"github.com/bawdo/sqlbee/internal/quoting"
)

// SQLiteVisitor generates SQLite-dialect SQL: double-quoted identifiers
// and ? placeholders. This is the canonical dialect; the other dialects
// vary only in quoting and placeholder style.
type SQLiteVisitor struct {
	*baseVisitor
}

// NewSQLiteVisitor creates a SQLiteVisitor ready for use.
// Parameterized mode is enabled by default for SQL injection protection.
// Pass WithoutParams() to disable (not recommended for production).
func NewSQLiteVisitor(opts ...Option) *SQLiteVisitor {
	v := &SQLiteVisitor{}
	v.baseVisitor = &baseVisitor{
		outer:        v,
		quoteIdent:   quoting.DoubleQuote,
		placeholder:  func(_ int) string { return "?" },
		parameterize: true,
		qualify:      true,
	}
	v.applyOptions(opts)
	return v
}
