package main

import "testing"

func TestTokenizeStringsAndOperators(t *testing.T) {
	t.Parallel()
	toks, err := tokenize("name = 'it''s fine' and age >= 21")
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		text     string
		isString bool
	}{
		{"name", false}, {"=", false}, {"it's fine", true},
		{"and", false}, {"age", false}, {">=", false}, {"21", false},
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), toks)
	}
	for i, w := range want {
		if toks[i].text != w.text || toks[i].isString != w.isString {
			t.Errorf("token %d: expected %+v, got %+v", i, w, toks[i])
		}
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	t.Parallel()
	if _, err := tokenize("name = 'oops"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestParseSelectFull(t *testing.T) {
	t.Parallel()
	cmd, err := parseSelect("users id, username join tweets on tweets.user_id = users.id where age > 21 and active = true group id order username desc limit 10 offset 5")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.table != "users" {
		t.Errorf("table: %q", cmd.table)
	}
	if len(cmd.cols) != 2 || cmd.cols[1].name != "username" {
		t.Errorf("cols: %+v", cmd.cols)
	}
	if len(cmd.joins) != 1 || cmd.joins[0].table != "tweets" ||
		cmd.joins[0].left.table != "tweets" || cmd.joins[0].left.name != "user_id" {
		t.Errorf("joins: %+v", cmd.joins)
	}
	if len(cmd.wheres) != 2 {
		t.Fatalf("wheres: %+v", cmd.wheres)
	}
	if cmd.wheres[0].op != ">" || cmd.wheres[0].val != 21 {
		t.Errorf("where[0]: %+v", cmd.wheres[0])
	}
	if cmd.wheres[1].val != true {
		t.Errorf("where[1]: %+v", cmd.wheres[1])
	}
	if len(cmd.groups) != 1 || len(cmd.orders) != 1 || !cmd.orders[0].desc {
		t.Errorf("groups/orders: %+v %+v", cmd.groups, cmd.orders)
	}
	if cmd.limit == nil || *cmd.limit != 10 || cmd.offset == nil || *cmd.offset != 5 {
		t.Errorf("limit/offset: %v %v", cmd.limit, cmd.offset)
	}
}

func TestParseSelectBareTable(t *testing.T) {
	t.Parallel()
	cmd, err := parseSelect("users")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.table != "users" || len(cmd.cols) != 0 {
		t.Errorf("unexpected command: %+v", cmd)
	}
}

func TestParseSelectRejectsGarbage(t *testing.T) {
	t.Parallel()
	if _, err := parseSelect("users where age >"); err == nil {
		t.Fatal("expected an error for missing value")
	}
	if _, err := parseSelect(""); err == nil {
		t.Fatal("expected an error for missing table")
	}
}

func TestParseValueKinds(t *testing.T) {
	t.Parallel()
	cases := []struct {
		tok  token
		want any
	}{
		{token{text: "42"}, 42},
		{token{text: "4.5"}, 4.5},
		{token{text: "true"}, true},
		{token{text: "null"}, nil},
		{token{text: "42", isString: true}, "42"},
	}
	for _, c := range cases {
		got, err := parseValue(c.tok)
		if err != nil {
			t.Fatalf("parseValue(%+v): %v", c.tok, err)
		}
		if got != c.want {
			t.Errorf("parseValue(%+v) = %v, want %v", c.tok, got, c.want)
		}
	}
	if _, err := parseValue(token{text: "bareword"}); err == nil {
		t.Fatal("expected an error for unquoted strings")
	}
}

func TestParseInsert(t *testing.T) {
	t.Parallel()
	cmd, err := parseInsert("users username = 'huey', admin = false")
	if err != nil {
		t.Fatal(err)
	}
	if cmd.table != "users" || len(cmd.sets) != 2 {
		t.Fatalf("unexpected command: %+v", cmd)
	}
	if cmd.sets[0].col != "username" || cmd.sets[0].val != "huey" {
		t.Errorf("sets[0]: %+v", cmd.sets[0])
	}
	if cmd.sets[1].val != false {
		t.Errorf("sets[1]: %+v", cmd.sets[1])
	}
}

func TestParseUpdate(t *testing.T) {
	t.Parallel()
	cmd, err := parseUpdate("users set counter = 3 where username = 'huey'")
	if err != nil {
		t.Fatal(err)
	}
	if len(cmd.sets) != 1 || cmd.sets[0].val != 3 {
		t.Errorf("sets: %+v", cmd.sets)
	}
	if len(cmd.wheres) != 1 || cmd.wheres[0].val != "huey" {
		t.Errorf("wheres: %+v", cmd.wheres)
	}
}

func TestParseUpdateRequiresSet(t *testing.T) {
	t.Parallel()
	if _, err := parseUpdate("users counter = 3"); err == nil {
		t.Fatal("expected an error without 'set'")
	}
}

func TestParseDelete(t *testing.T) {
	t.Parallel()
	cmd, err := parseDelete("users where id = 7 limit 1")
	if err != nil {
		t.Fatal(err)
	}
	if len(cmd.wheres) != 1 || cmd.limit == nil || *cmd.limit != 1 {
		t.Errorf("unexpected command: %+v", cmd)
	}
}
