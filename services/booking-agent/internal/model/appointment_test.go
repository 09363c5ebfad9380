package model

import (
	"testing"
	"time"
)

func TestEndTimeFor(t *testing.T) {
	start := time.Date(0, 1, 1, 11, 5, 0, 0, time.UTC)
	if got := EndTimeFor(start).Format(TimeLayout); got != "11:10:00" {
		t.Fatalf("expected 11:10:00, got %s", got)
	}

	late := time.Date(0, 1, 1, 23, 58, 30, 0, time.UTC)
	end := EndTimeFor(late)
	if got := end.Format(TimeLayout); got != "00:03:30" {
		t.Fatalf("expected wrap to 00:03:30, got %s", got)
	}
	if end.Year() != 0 || end.Day() != 1 {
		t.Fatalf("end time must keep the zero date, got %s", end)
	}
}

func TestPatchEmpty(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Fatal("zero patch should be empty")
	}
	age := 30
	if (Patch{Age: &age}).Empty() {
		t.Fatal("patch with age should not be empty")
	}
}
