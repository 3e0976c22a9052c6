package persistence

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/talgya/hexclaim/internal/board"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCellRoundTrip(t *testing.T) {
	db := openTestDB(t)

	rec := board.Record{Color: "#ff0000", Label: "homestead", CodeHash: board.SHA256Hex("hunter2")}
	if err := db.SetCell(42, rec); err != nil {
		t.Fatalf("SetCell: %v", err)
	}

	got, err := db.GetCell(42)
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if got == nil {
		t.Fatal("GetCell returned nil for stored record")
	}
	if *got != rec {
		t.Errorf("got %+v, want %+v", *got, rec)
	}
}

func TestGetCellMissing(t *testing.T) {
	db := openTestDB(t)

	got, err := db.GetCell(7)
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil record for missing row, got %+v", *got)
	}
}

func TestGetCellMalformed(t *testing.T) {
	db := openTestDB(t)

	// A row without a digest cannot be a valid claim.
	if err := db.SetCell(3, board.Record{Color: "#00ff00", Label: "ghost"}); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	got, err := db.GetCell(3)
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if got != nil {
		t.Errorf("expected malformed row to read as nil, got %+v", *got)
	}

	// Same for a label past the storage budget.
	long := board.Record{Color: "#00ff00", Label: "nineteen-char-label", CodeHash: board.SHA256Hex("secret")}
	if err := db.SetCell(4, long); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	got, err = db.GetCell(4)
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if got != nil {
		t.Errorf("expected over-long label to read as nil, got %+v", *got)
	}
}

func TestSetCellOverwrites(t *testing.T) {
	db := openTestDB(t)

	hash := board.SHA256Hex("hunter2")
	if err := db.SetCell(5, board.Record{Color: "#ff0000", Label: "first", CodeHash: hash}); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if err := db.SetCell(5, board.Record{Color: "#0000ff", Label: "second", CodeHash: hash}); err != nil {
		t.Fatalf("SetCell overwrite: %v", err)
	}

	got, err := db.GetCell(5)
	if err != nil {
		t.Fatalf("GetCell: %v", err)
	}
	if got.Color != "#0000ff" || got.Label != "second" {
		t.Errorf("overwrite not applied: %+v", *got)
	}
}

func TestAllCellsAndCount(t *testing.T) {
	db := openTestDB(t)

	hash := board.SHA256Hex("secret")
	for _, idx := range []int{9, 2, 6} {
		rec := board.Record{Color: "#336699", Label: "plot", CodeHash: hash}
		if err := db.SetCell(idx, rec); err != nil {
			t.Fatalf("SetCell %d: %v", idx, err)
		}
	}

	cells, err := db.AllCells()
	if err != nil {
		t.Fatalf("AllCells: %v", err)
	}
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells, got %d", len(cells))
	}
	for i, want := range []int{2, 6, 9} {
		if cells[i].Index != want {
			t.Errorf("cells[%d].Index = %d, want %d", i, cells[i].Index, want)
		}
	}

	n, err := db.CountCells()
	if err != nil {
		t.Fatalf("CountCells: %v", err)
	}
	if n != 3 {
		t.Errorf("CountCells = %d, want 3", n)
	}
}

func TestEventsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 4; i++ {
		e := board.NewEvent(board.EventClaim, i, "plot")
		e.At = base.Add(time.Duration(i) * time.Second)
		if err := db.AppendEvent(e); err != nil {
			t.Fatalf("AppendEvent: %v", err)
		}
	}

	events, err := db.RecentEvents(3)
	if err != nil {
		t.Fatalf("RecentEvents: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	// Oldest of the kept window first.
	for i, want := range []int{1, 2, 3} {
		if events[i].Index != want {
			t.Errorf("events[%d].Index = %d, want %d", i, events[i].Index, want)
		}
	}
	if !events[2].At.Equal(base.Add(3 * time.Second)) {
		t.Errorf("timestamp not preserved: got %v", events[2].At)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	got, err := db.GetMeta("seed")
	if err != nil {
		t.Fatalf("GetMeta missing: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty value for missing key, got %q", got)
	}

	if err := db.SaveMeta("seed", "1337"); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}
	if err := db.SaveMeta("seed", "9001"); err != nil {
		t.Fatalf("SaveMeta overwrite: %v", err)
	}

	got, err = db.GetMeta("seed")
	if err != nil {
		t.Fatalf("GetMeta: %v", err)
	}
	if got != "9001" {
		t.Errorf("GetMeta = %q, want %q", got, "9001")
	}
}

func TestFileSize(t *testing.T) {
	db := openTestDB(t)

	if size := db.FileSize(); size <= 0 {
		t.Errorf("expected positive file size, got %d", size)
	}
}

func TestProtocolAgainstStore(t *testing.T) {
	db := openTestDB(t)
	proto := board.NewProtocol(db, board.SHA256Hex)

	outcome, err := proto.Apply(nil, board.SaveRequest{
		Index: 12, Color: "#ffaa00", Label: "outpost", Secret: "hunter2",
	})
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !outcome.Claimed {
		t.Error("expected a fresh claim")
	}

	current, err := db.GetCell(12)
	if err != nil || current == nil {
		t.Fatalf("GetCell after claim: rec=%v err=%v", current, err)
	}

	_, err = proto.Apply(current, board.SaveRequest{
		Index: 12, Color: "#000000", Label: "stolen", Secret: "wrong",
	})
	var authErr *board.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}

	after, err := db.GetCell(12)
	if err != nil {
		t.Fatalf("GetCell after denial: %v", err)
	}
	if after.Label != "outpost" || after.Color != "#ffaa00" {
		t.Errorf("denied edit mutated the row: %+v", *after)
	}
}
