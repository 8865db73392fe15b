package core

import (
	"errors"
	"strings"
	"time"
)

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

type (
	Direction string

	Date struct {
		time.Time
	}

	// Money is an amount in minor currency units. For IDR the minor unit
	// is the rupiah itself.
	Money struct {
		Units int64
	}

	Transaction struct {
		ID        string
		Title     string
		Date      Date
		Direction Direction
		Amount    Money
	}

	// Metric is a headline counter shown as a dashboard card.
	Metric struct {
		Label string
		Value int
	}

	// Reminder is a system notice listed next to the chart.
	Reminder struct {
		Title string
		Type  string // iuran, verifikasi, audit
	}
)

var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidDirection   = errors.New("invalid direction")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyID            = errors.New("empty transaction id")
	ErrEmptyTitle         = errors.New("empty transaction title")
	ErrEmptyEmail         = errors.New("empty email")
	ErrEmptyPassword      = errors.New("empty password")
)

// ParseDirection accepts "in"/"out" and the Indonesian "masuk"/"keluar".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "masuk":
		return DirectionIn, nil
	case "out", "keluar":
		return DirectionOut, nil
	default:
		return "", ErrInvalidDirection
	}
}

func (d Direction) Validate() error {
	switch d {
	case DirectionIn, DirectionOut:
		return nil
	default:
		return ErrInvalidDirection
	}
}

// Label returns the badge text used on the dashboard.
func (d Direction) Label() string {
	if d == DirectionIn {
		return "Masuk"
	}
	return "Keluar"
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Day truncates a timestamp to its calendar day in UTC.
func Day(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (m Money) Validate() error {
	if m.Units < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Direction.Validate(); err != nil {
		return err
	}
	return t.Amount.Validate()
}
