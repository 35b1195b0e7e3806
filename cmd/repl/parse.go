package main

import (
	"fmt"
	"strconv"
	"strings"
)

// The command language is a compact, line-oriented front end over the
// query builders:
//
//	select users id, username where age > 21 and active = true order id desc limit 10
//	select note content join person on note.author_id = person.id
//	insert users username = 'huey', admin = false
//	update users set counter = 3 where username = 'huey'
//	delete users where id = 7 limit 1
//
// Identifiers may be qualified (table.column); values are numbers,
// 'single-quoted strings', true/false, or null.

type colref struct {
	table string // empty means the command's base table
	name  string
}

type condition struct {
	col colref
	op  string // =, !=, >, >=, <, <=, like
	val any
}

type assignment struct {
	col string
	val any
}

type joinSpec struct {
	table string
	left  colref
	right colref
}

type orderSpec struct {
	col  colref
	desc bool
}

type selectCmd struct {
	table  string
	cols   []colref
	joins  []joinSpec
	wheres []condition
	groups []colref
	orders []orderSpec
	limit  *int
	offset *int
}

type writeCmd struct {
	kind   string // insert, update, delete
	table  string
	sets   []assignment
	wheres []condition
	limit  *int
}

// --- Tokenizer ---

type token struct {
	text     string
	isString bool
}

// tokenize splits a command line into word, operator, string, and comma
// tokens. Single-quoted strings keep their spaces; doubled quotes
// escape a literal quote.
func tokenize(line string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(line) {
		c := line[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == ',':
			toks = append(toks, token{text: ","})
			i++
		case c == '\'':
			var sb strings.Builder
			i++
			closed := false
			for i < len(line) {
				if line[i] == '\'' {
					if i+1 < len(line) && line[i+1] == '\'' {
						sb.WriteByte('\'')
						i += 2
						continue
					}
					i++
					closed = true
					break
				}
				sb.WriteByte(line[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("unterminated string literal")
			}
			toks = append(toks, token{text: sb.String(), isString: true})
		case c == '!' || c == '<' || c == '>' || c == '=':
			op := string(c)
			if i+1 < len(line) && line[i+1] == '=' {
				op += "="
				i++
			}
			i++
			if op == "!" {
				return nil, fmt.Errorf("unexpected character %q", "!")
			}
			toks = append(toks, token{text: op})
		default:
			start := i
			for i < len(line) && !strings.ContainsRune(" \t,'!<>=", rune(line[i])) {
				i++
			}
			toks = append(toks, token{text: line[start:i]})
		}
	}
	return toks, nil
}

// --- Parser ---

type parser struct {
	toks []token
	pos  int
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token {
	if p.done() {
		return token{}
	}
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.peek()
	p.pos++
	return t
}

// keyword reports whether the next token is the given bare word.
func (p *parser) keyword(word string) bool {
	t := p.peek()
	if !t.isString && strings.EqualFold(t.text, word) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectWord(what string) (string, error) {
	t := p.next()
	if t.text == "" || t.isString {
		return "", fmt.Errorf("expected %s", what)
	}
	return t.text, nil
}

var clauseWords = map[string]bool{
	"where": true, "order": true, "limit": true, "offset": true,
	"group": true, "join": true, "and": true, "on": true, "set": true,
	"asc": true, "desc": true,
}

func isClauseWord(t token) bool {
	return !t.isString && clauseWords[strings.ToLower(t.text)]
}

func parseColref(s string) colref {
	if i := strings.IndexByte(s, '.'); i > 0 {
		return colref{table: s[:i], name: s[i+1:]}
	}
	return colref{name: s}
}

// parseValue interprets a value token: strings stay strings; bare words
// become numbers, booleans, or null.
func parseValue(t token) (any, error) {
	if t.isString {
		return t.text, nil
	}
	switch strings.ToLower(t.text) {
	case "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if n, err := strconv.Atoi(t.text); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(t.text, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("cannot interpret value %q (strings need single quotes)", t.text)
}

var comparisonOps = map[string]bool{
	"=": true, "!=": true, ">": true, ">=": true, "<": true, "<=": true, "like": true,
}

func (p *parser) parseCondition() (condition, error) {
	colTok, err := p.expectWord("column name")
	if err != nil {
		return condition{}, err
	}
	opTok := p.next()
	op := strings.ToLower(opTok.text)
	if !comparisonOps[op] {
		return condition{}, fmt.Errorf("expected comparison operator after %q, got %q", colTok, opTok.text)
	}
	valTok := p.next()
	if valTok.text == "" && !valTok.isString {
		return condition{}, fmt.Errorf("expected value after %q %s", colTok, op)
	}
	val, err := parseValue(valTok)
	if err != nil {
		return condition{}, err
	}
	return condition{col: parseColref(colTok), op: op, val: val}, nil
}

func (p *parser) parseConditions() ([]condition, error) {
	var conds []condition
	for {
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
		if !p.keyword("and") {
			return conds, nil
		}
	}
}

func (p *parser) parseInt(what string) (*int, error) {
	t := p.next()
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return nil, fmt.Errorf("%s expects a number, got %q", what, t.text)
	}
	return &n, nil
}

// parseSelect parses everything after the leading "select" word.
func parseSelect(line string) (*selectCmd, error) {
	toks, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	table, err := p.expectWord("table name")
	if err != nil {
		return nil, err
	}
	cmd := &selectCmd{table: table}

	// Optional projection list, up to the first clause keyword.
	for !p.done() && !isClauseWord(p.peek()) {
		name, err := p.expectWord("column name")
		if err != nil {
			return nil, err
		}
		cmd.cols = append(cmd.cols, parseColref(name))
		if p.peek().text == "," {
			p.next()
		}
	}

	for !p.done() {
		switch {
		case p.keyword("join"):
			jt, err := p.expectWord("join table")
			if err != nil {
				return nil, err
			}
			if !p.keyword("on") {
				return nil, fmt.Errorf("join %s: expected 'on'", jt)
			}
			left, err := p.expectWord("join column")
			if err != nil {
				return nil, err
			}
			if p.next().text != "=" {
				return nil, fmt.Errorf("join %s: condition must be column = column", jt)
			}
			right, err := p.expectWord("join column")
			if err != nil {
				return nil, err
			}
			cmd.joins = append(cmd.joins, joinSpec{table: jt, left: parseColref(left), right: parseColref(right)})
		case p.keyword("where"):
			conds, err := p.parseConditions()
			if err != nil {
				return nil, err
			}
			cmd.wheres = append(cmd.wheres, conds...)
		case p.keyword("group"):
			for {
				name, err := p.expectWord("group column")
				if err != nil {
					return nil, err
				}
				cmd.groups = append(cmd.groups, parseColref(name))
				if p.peek().text != "," {
					break
				}
				p.next()
			}
		case p.keyword("order"):
			for {
				name, err := p.expectWord("order column")
				if err != nil {
					return nil, err
				}
				spec := orderSpec{col: parseColref(name)}
				if p.keyword("desc") {
					spec.desc = true
				} else {
					p.keyword("asc")
				}
				cmd.orders = append(cmd.orders, spec)
				if p.peek().text != "," {
					break
				}
				p.next()
			}
		case p.keyword("limit"):
			if cmd.limit, err = p.parseInt("limit"); err != nil {
				return nil, err
			}
		case p.keyword("offset"):
			if cmd.offset, err = p.parseInt("offset"); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unexpected token %q", p.peek().text)
		}
	}

	return cmd, nil
}

func (p *parser) parseAssignments() ([]assignment, error) {
	var sets []assignment
	for {
		col, err := p.expectWord("column name")
		if err != nil {
			return nil, err
		}
		if p.next().text != "=" {
			return nil, fmt.Errorf("expected = after column %q", col)
		}
		valTok := p.next()
		val, err := parseValue(valTok)
		if err != nil {
			return nil, err
		}
		sets = append(sets, assignment{col: col, val: val})
		if p.peek().text != "," {
			return sets, nil
		}
		p.next()
	}
}

// parseInsert parses everything after the leading "insert" word.
func parseInsert(line string) (*writeCmd, error) {
	toks, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	table, err := p.expectWord("table name")
	if err != nil {
		return nil, err
	}
	sets, err := p.parseAssignments()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, fmt.Errorf("unexpected token %q", p.peek().text)
	}
	return &writeCmd{kind: "insert", table: table, sets: sets}, nil
}

// parseUpdate parses everything after the leading "update" word.
func parseUpdate(line string) (*writeCmd, error) {
	toks, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	table, err := p.expectWord("table name")
	if err != nil {
		return nil, err
	}
	if !p.keyword("set") {
		return nil, fmt.Errorf("update %s: expected 'set'", table)
	}
	sets, err := p.parseAssignments()
	if err != nil {
		return nil, err
	}
	cmd := &writeCmd{kind: "update", table: table, sets: sets}
	if p.keyword("where") {
		if cmd.wheres, err = p.parseConditions(); err != nil {
			return nil, err
		}
	}
	if !p.done() {
		return nil, fmt.Errorf("unexpected token %q", p.peek().text)
	}
	return cmd, nil
}

// parseDelete parses everything after the leading "delete" word.
func parseDelete(line string) (*writeCmd, error) {
	toks, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}

	table, err := p.expectWord("table name")
	if err != nil {
		return nil, err
	}
	cmd := &writeCmd{kind: "delete", table: table}
	for !p.done() {
		switch {
		case p.keyword("where"):
			if cmd.wheres, err = p.parseConditions(); err != nil {
				return nil, err
			}
		case p.keyword("limit"):
			if cmd.limit, err = p.parseInt("limit"); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unexpected token %q", p.peek().text)
		}
	}
	return cmd, nil
}
