package lead

import (
	"strings"
	"testing"
	"time"
)

func TestRowFollowsColumnOrder(t *testing.T) {
	ts := time.Date(2026, 9, 1, 10, 30, 0, 0, time.Local)
	l := sampleLead(ts)

	row := l.Row(testColumns)
	want := []string{"2026-09-01 10:30:00", "John", "9876543210", "Gym Trial", "Main Branch", "42"}
	if len(row) != len(want) {
		t.Fatalf("row length %d, want %d", len(row), len(want))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %s: got %q, want %q", testColumns[i], row[i], want[i])
		}
	}
}

func TestFromRecord(t *testing.T) {
	record := []string{"2026-09-01 10:30:00", "John", "9876543210", "Gym Trial", "Main Branch", "42"}
	l := FromRecord(testColumns, record)

	if l.UserID != 42 {
		t.Fatalf("user id: got %d", l.UserID)
	}
	if got := l.SubmittedAt.Format(TimestampLayout); got != "2026-09-01 10:30:00" {
		t.Fatalf("timestamp: got %q", got)
	}
	if l.Values["name"] != "John" || l.Values["branch"] != "Main Branch" {
		t.Fatalf("values: %v", l.Values)
	}

	// Short record: trailing columns read empty, nothing panics.
	short := FromRecord(testColumns, []string{"garbage", "Ann"})
	if !short.SubmittedAt.IsZero() {
		t.Fatal("unparseable timestamp must stay zero")
	}
	if short.Values["name"] != "Ann" || short.Values["phone"] != "" {
		t.Fatalf("short record values: %v", short.Values)
	}
}

func TestSummaryEscapesUserInput(t *testing.T) {
	l := sampleLead(time.Date(2026, 9, 1, 10, 30, 0, 0, time.Local))
	l.Values["name"] = "John_the*Great"

	text := Summary(l, testColumns)
	if !strings.Contains(text, `John\_the\*Great`) {
		t.Fatalf("markdown specials must be escaped, got:\n%s", text)
	}
	if !strings.Contains(text, "Submitted: 2026-09-01 10:30:00") {
		t.Fatalf("summary must carry the submit time, got:\n%s", text)
	}
	if !strings.Contains(text, "User id: 42") {
		t.Fatalf("summary must carry the user id, got:\n%s", text)
	}
	if strings.Count(text, "2026-09-01 10:30:00") != 1 {
		t.Fatalf("timestamp column must not repeat, got:\n%s", text)
	}
}
