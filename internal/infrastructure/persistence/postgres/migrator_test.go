// internal/infrastructure/persistence/postgres/migrator_test.go
package postgres

import (
	"strings"
	"testing"
)

func TestPendingAll(t *testing.T) {
	pending, err := Pending(Migrations, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != len(Migrations) {
		t.Fatalf("pending = %d, want %d", len(pending), len(Migrations))
	}
	if !strings.Contains(pending[0].SQL, "CREATE TABLE IF NOT EXISTS requests") {
		t.Errorf("первая миграция: %s", pending[0].Name)
	}
}

func TestPendingSkipsApplied(t *testing.T) {
	applied := map[int]string{1: Migrations[0].Checksum()}
	pending, err := Pending(Migrations, applied)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != 2 {
		t.Errorf("pending = %+v", pending)
	}
}

func TestPendingChecksumMismatch(t *testing.T) {
	applied := map[int]string{1: "deadbeef"}
	if _, err := Pending(Migrations, applied); err == nil || !strings.Contains(err.Error(), "checksum") {
		t.Errorf("err = %v, want checksum mismatch", err)
	}
}

func TestPendingOutOfOrder(t *testing.T) {
	migrations := []Migration{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}}
	if _, err := Pending(migrations, nil); err == nil {
		t.Error("ожидалась ошибка порядка")
	}
}

func TestChecksumStable(t *testing.T) {
	m := Migration{SQL: "SELECT 1"}
	if m.Checksum() != m.Checksum() || len(m.Checksum()) != 64 {
		t.Errorf("checksum = %q", m.Checksum())
	}
	if m.Checksum() == (Migration{SQL: "SELECT 2"}).Checksum() {
		t.Error("разный SQL, одинаковая сумма")
	}
}
