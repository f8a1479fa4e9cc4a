package observability

import (
	"context"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mensawerk/mensamail/dbopen"
)

func TestLogRun(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	logger := NewRunLogger(db)

	logger.LogRun(context.Background(), Run{
		StartedAt: time.Now(),
		PerDay:    map[string]int{"Montag": 3, "Dienstag": 2},
		Success:   true,
	})

	var count, dishes int
	err := db.QueryRow(`SELECT COUNT(*), COALESCE(MAX(dish_count), 0) FROM menu_runs`).Scan(&count, &dishes)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}
	if dishes != 5 {
		t.Errorf("dish_count = %d, want 5", dishes)
	}
}

func TestCleanup(t *testing.T) {
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	logger := NewRunLogger(db)

	old := Run{StartedAt: time.Now().AddDate(0, 0, -30), Success: true}
	recent := Run{StartedAt: time.Now(), Success: true}
	logger.LogRun(context.Background(), old)
	logger.LogRun(context.Background(), recent)

	if err := Cleanup(context.Background(), db, 7); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM menu_runs`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("rows after cleanup = %d, want 1", count)
	}
}
