package visitors

import (
	"testing"

	"github.com/bawdo/sqlbee/internal/testutil"
	"github.com/bawdo/sqlbee/managers"
	"github.com/bawdo/sqlbee/nodes"
)

func TestFormatBreaksClauses(t *testing.T) {
	t.Parallel()
	got := Format(`SELECT "t1"."id" FROM "users" AS "t1" WHERE ("t1"."active" = ?) ORDER BY "t1"."id" ASC LIMIT 10`)
	want := `SELECT "t1"."id"
FROM "users" AS "t1"
WHERE ("t1"."active" = ?)
ORDER BY "t1"."id" ASC
LIMIT 10`
	testutil.AssertEqual(t, got, want)
}

func TestFormatIndentsBySubqueryDepth(t *testing.T) {
	t.Parallel()
	got := Format(`SELECT "a" FROM "x" WHERE ("a" IN (SELECT "b" FROM "y"))`)
	want := `SELECT "a"
FROM "x"
WHERE ("a" IN (SELECT "b"
    FROM "y"))`
	testutil.AssertEqual(t, got, want)
}

func TestFormatLeavesStringsAlone(t *testing.T) {
	t.Parallel()
	in := `SELECT 'a FROM b' AS "x FROM y"`
	testutil.AssertEqual(t, Format(in), in)
}

func TestFormatKeywordInsideWordIsNotBroken(t *testing.T) {
	t.Parallel()
	in := `SELECT "offset_limit"`
	testutil.AssertEqual(t, Format(in), in)
}

func TestFormatRoundTripsRenderedQuery(t *testing.T) {
	t.Parallel()
	users := nodes.NewTable("users")
	q := managers.NewSelectManager(users).
		Select(users.Col("id")).
		Where(users.Col("active").Eq(true)).
		Order(users.Col("id").Desc()).
		Limit(5)

	sqlStr, _, err := q.ToSQL(NewSQLiteVisitor())
	testutil.AssertNoError(t, err)
	want := `SELECT "t1"."id"
FROM "users" AS "t1"
WHERE ("t1"."active" = ?)
ORDER BY "t1"."id" DESC
LIMIT 5`
	testutil.AssertEqual(t, Format(sqlStr), want)
}
