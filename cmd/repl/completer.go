package main

import "strings"

// replCompleter offers tab completion for command names, table names,
// and column names of tables already mentioned on the line.
type replCompleter struct {
	sess *Session
}

// Do implements readline.AutoCompleter.
func (c *replCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	fields := strings.Fields(text)
	trailingSpace := strings.HasSuffix(text, " ")

	var prefix string
	if !trailingSpace && len(fields) > 0 {
		prefix = fields[len(fields)-1]
	}

	var candidates []string
	switch {
	case len(fields) == 0 || (len(fields) == 1 && !trailingSpace):
		candidates = commandNames()
	case len(fields) >= 1 && isTablePosition(fields, trailingSpace):
		candidates = c.sess.conn.schemaTables()
	default:
		candidates = c.columnCandidates(fields)
	}

	var out [][]rune
	for _, cand := range candidates {
		if strings.HasPrefix(cand, prefix) {
			out = append(out, []rune(cand[len(prefix):]+" "))
		}
	}
	return out, len(prefix)
}

// isTablePosition reports whether the cursor sits where a table name is
// expected: right after the command word, or after "join".
func isTablePosition(fields []string, trailingSpace bool) bool {
	effective := len(fields)
	if !trailingSpace {
		effective--
	}
	if effective < 1 {
		return false
	}
	prev := strings.ToLower(fields[effective-1])
	switch prev {
	case "select", "insert", "update", "delete", "columns", "join":
		return true
	}
	return false
}

// columnCandidates offers columns of every table mentioned on the line.
func (c *replCompleter) columnCandidates(fields []string) []string {
	known := make(map[string]bool)
	for _, t := range c.sess.conn.schemaTables() {
		known[t] = true
	}
	var cols []string
	for _, f := range fields {
		if known[f] {
			cols = append(cols, c.sess.conn.schemaColumns(f)...)
		}
	}
	return cols
}
