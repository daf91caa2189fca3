package services

import (
	"testing"
	"time"
)

func TestFlagCalendarParsesDates(t *testing.T) {
	r := setupRepos(t)
	cal := NewFlagCalendar(r.flag)

	if err := cal.SetFlag(FlagOpeningDate, "2026-02-01T00:00:00Z", "staff"); err != nil {
		t.Fatalf("SetFlag() error = %v", err)
	}
	if err := cal.SetFlag(FlagClosingDate, "2026-04-01T00:00:00Z", "staff"); err != nil {
		t.Fatalf("SetFlag() error = %v", err)
	}
	if err := cal.SetFlag(FlagCodingTestDuration, "120", "staff"); err != nil {
		t.Fatalf("SetFlag() error = %v", err)
	}

	dates, err := cal.Dates()
	if err != nil {
		t.Fatalf("Dates() error = %v", err)
	}
	if want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC); !dates.OpeningDate.Equal(want) {
		t.Errorf("OpeningDate = %v, want %v", dates.OpeningDate, want)
	}
	if dates.CodingTestDuration != 2*time.Hour {
		t.Errorf("CodingTestDuration = %v, want 2h", dates.CodingTestDuration)
	}
}

func TestFlagsAreAppendOnlyLatestWins(t *testing.T) {
	r := setupRepos(t)
	cal := NewFlagCalendar(r.flag)

	values := []string{"30", "60", "90"}
	for _, v := range values {
		if err := cal.SetFlag(FlagCodingTestDuration, v, "staff"); err != nil {
			t.Fatalf("SetFlag(%s) error = %v", v, err)
		}
	}

	got, err := r.flag.GetFlag(FlagCodingTestDuration)
	if err != nil {
		t.Fatalf("GetFlag() error = %v", err)
	}
	if got != "90" {
		t.Errorf("GetFlag() = %s, want the latest value 90", got)
	}

	// history stays around
	var count int64
	if err := r.db.Table("flags").Where("key = ?", FlagCodingTestDuration).Count(&count).Error; err != nil {
		t.Fatalf("count flags: %v", err)
	}
	if count != 3 {
		t.Errorf("flag rows = %d, want 3", count)
	}
}

func TestUnsetFlagReadsEmpty(t *testing.T) {
	r := setupRepos(t)

	got, err := r.flag.GetFlag("never_set")
	if err != nil {
		t.Fatalf("GetFlag() error = %v", err)
	}
	if got != "" {
		t.Errorf("GetFlag() = %q, want empty", got)
	}

	// an unset calendar fails loudly instead of defaulting
	cal := NewFlagCalendar(r.flag)
	if _, err := cal.Dates(); err == nil {
		t.Error("Dates() with unset flags should fail")
	}
}
