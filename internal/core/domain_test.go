package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-04-06 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "2025-04-06" || d.Location() != time.UTC {
		t.Fatalf("unexpected date: %v", d)
	}
	if _, err := ParseDate("06/04/2025"); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
}

func TestParseDirection(t *testing.T) {
	cases := map[string]Direction{
		"in":     DirectionIn,
		"Masuk":  DirectionIn,
		"OUT":    DirectionOut,
		"keluar": DirectionOut,
	}
	for in, want := range cases {
		got, err := ParseDirection(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q err=%v", in, got, err)
		}
	}
	if _, err := ParseDirection("sideways"); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:        "TRX-1",
		Title:     "Penitipan",
		Date:      NewDate(2025, 4, 6),
		Direction: DirectionIn,
		Amount:    Money{Units: 0},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{Title: "a", Date: NewDate(2025, 1, 1), Direction: DirectionIn},
		{ID: "x", Date: NewDate(2025, 1, 1), Direction: DirectionIn},
		{ID: "x", Title: "a", Direction: DirectionIn},
		{ID: "x", Title: "a", Date: NewDate(2025, 1, 1), Direction: "up"},
		{ID: "x", Title: "a", Date: NewDate(2025, 1, 1), Direction: DirectionOut, Amount: Money{Units: -1}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
