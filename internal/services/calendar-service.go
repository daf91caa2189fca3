package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bootcampcrew/admissions_service/internal/repository"
)

// Flag keys driving the admissions calendar.
const (
	FlagOpeningDate        = "applications_opening_date"
	FlagClosingDate        = "applications_closing_date"
	FlagCodingTestDuration = "coding_test_duration_minutes"
)

// CalendarDates is a resolved snapshot of the calendar, so the eligibility
// code stays pure and tests can inject fixed dates.
type CalendarDates struct {
	OpeningDate        time.Time
	ClosingDate        time.Time
	CodingTestDuration time.Duration
}

type Calendar interface {
	Dates() (CalendarDates, error)
	SetFlag(key, value, createdBy string) error
}

type flagCalendar struct {
	flags repository.FlagRepository
}

func NewFlagCalendar(flags repository.FlagRepository) Calendar {
	return &flagCalendar{flags: flags}
}

func (c *flagCalendar) Dates() (CalendarDates, error) {
	opening, err := c.dateFlag(FlagOpeningDate)
	if err != nil {
		return CalendarDates{}, err
	}

	closing, err := c.dateFlag(FlagClosingDate)
	if err != nil {
		return CalendarDates{}, err
	}

	raw, err := c.flags.GetFlag(FlagCodingTestDuration)
	if err != nil {
		return CalendarDates{}, err
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil {
		return CalendarDates{}, fmt.Errorf("flag %s: invalid minutes %q", FlagCodingTestDuration, raw)
	}

	return CalendarDates{
		OpeningDate:        opening,
		ClosingDate:        closing,
		CodingTestDuration: time.Duration(minutes) * time.Minute,
	}, nil
}

func (c *flagCalendar) dateFlag(key string) (time.Time, error) {
	raw, err := c.flags.GetFlag(key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("flag %s: invalid date %q", key, raw)
	}
	return t, nil
}

func (c *flagCalendar) SetFlag(key, value, createdBy string) error {
	return c.flags.SetFlag(key, value, createdBy)
}

// FixedCalendar returns the same snapshot on every call. Used by tests and
// local tooling.
type FixedCalendar struct {
	Snapshot CalendarDates
}

func (c FixedCalendar) Dates() (CalendarDates, error) { return c.Snapshot, nil }

func (c FixedCalendar) SetFlag(key, value, createdBy string) error { return nil }
