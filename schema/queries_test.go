package schema

import (
	"testing"

	"github.com/bawdo/sqlbee/database"
)

// The runtime tests exercise the full path: model definition, DDL
// execution, inserts, and reads against an in-memory SQLite database.

func openTestDB(t *testing.T) database.Database {
	t.Helper()
	db, err := database.NewSqliteDatabase(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestModelRoundTripOnSqlite(t *testing.T) {
	db := openTestDB(t)

	owner := Define("owner",
		NewCharField("name"),
	).Bind(db)
	pet := Define("pet",
		NewForeignKeyField("keeper", owner),
		NewCharField("name"),
		NewIntegerField("age", WithNull()),
	).Bind(db)

	for _, m := range []*Model{owner, pet} {
		if err := m.Schema().CreateTable(); err != nil {
			t.Fatalf("create table: %v", err)
		}
	}

	huey, err := owner.Create(Values{owner.F("name"): "huey"})
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	if huey.PK() == nil {
		t.Fatal("expected a generated primary key")
	}

	for _, name := range []string{"mickey", "zaizee"} {
		if _, err := pet.Create(Values{
			pet.F("keeper"): huey,
			pet.F("name"):   name,
		}); err != nil {
			t.Fatalf("create pet: %v", err)
		}
	}

	rows, err := pet.
		Select(pet.F("name"), owner.F("name")).
		Join(owner).
		Order(pet.F("name")).
		Query()
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer func() { _ = rows.Close() }()

	var got [][2]string
	for rows.Next() {
		var petName, ownerName string
		if err := rows.Scan(&petName, &ownerName); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, [2]string{petName, ownerName})
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}

	want := [][2]string{{"mickey", "huey"}, {"zaizee", "huey"}}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d: expected %v, got %v", i, want[i], got[i])
		}
	}

	// Update through the model layer and verify the change landed.
	if _, err := pet.
		Update(Values{pet.F("age"): 9}).
		Where(pet.F("name").Eq("mickey")).
		Execute(); err != nil {
		t.Fatalf("update: %v", err)
	}

	res, err := pet.Delete().Where(pet.F("name").Eq("zaizee")).Execute()
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		t.Errorf("expected 1 row deleted, got %d", n)
	}
}

func TestUnboundModelRefusesToExecute(t *testing.T) {
	t.Parallel()
	loose := Define("loose_table",
		NewCharField("name"),
	)

	if _, err := loose.Insert(Values{loose.F("name"): "x"}).Execute(); err == nil {
		t.Fatal("expected an error for an unbound model")
	}
	if err := loose.Schema().CreateTable(); err == nil {
		t.Fatal("expected an error for an unbound model")
	}
}
