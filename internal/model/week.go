package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mwerner-fin/divtracker-backend/internal/apperrors"
)

// WeekKey identifies an ISO-8601 calendar week. It is the time bucket for all
// reconciliation output: activities are grouped per (symbol, WeekKey), and
// position rows are ordered by WeekKey ascending.
type WeekKey struct {
	Week int // ISO week number, 1..53
	Year int // ISO year (may differ from the calendar year at year boundaries)
}

// WeekOf returns the ISO week containing t. Only the date component of t is
// considered.
func WeekOf(t time.Time) WeekKey {
	year, week := t.UTC().ISOWeek()
	return WeekKey{Week: week, Year: year}
}

// CurrentWeek returns the ISO week containing today.
func CurrentWeek() WeekKey {
	return WeekOf(time.Now())
}

// String formats the key as "WW/YYYY", e.g. "05/2025".
func (k WeekKey) String() string {
	return fmt.Sprintf("%02d/%d", k.Week, k.Year)
}

// ParseWeekKey parses "WW/YYYY" or "WW-YYYY" into a WeekKey.
// The dash form exists because the slash form is not path-safe in URLs.
func ParseWeekKey(s string) (WeekKey, error) {
	sep := "/"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return WeekKey{}, fmt.Errorf("%w: %q, expected WW/YYYY", apperrors.ErrInvalidWeekKey, s)
	}

	week, err := strconv.Atoi(parts[0])
	if err != nil {
		return WeekKey{}, fmt.Errorf("%w: bad week in %q", apperrors.ErrInvalidWeekKey, s)
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return WeekKey{}, fmt.Errorf("%w: bad year in %q", apperrors.ErrInvalidWeekKey, s)
	}

	if week < 1 || week > 53 {
		return WeekKey{}, fmt.Errorf("%w: week %d out of range 1..53", apperrors.ErrInvalidWeekKey, week)
	}
	if year < 1970 || year > 2200 {
		return WeekKey{}, fmt.Errorf("%w: year %d out of range", apperrors.ErrInvalidWeekKey, year)
	}

	return WeekKey{Week: week, Year: year}, nil
}

// Before reports whether k is chronologically earlier than other.
// Ordering is by (year, week).
func (k WeekKey) Before(other WeekKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Week < other.Week
}

// IsZero reports whether k is the zero value.
func (k WeekKey) IsZero() bool {
	return k.Week == 0 && k.Year == 0
}

// MarshalJSON encodes the key as its "WW/YYYY" string form.
func (k WeekKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes the "WW/YYYY" string form.
func (k *WeekKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseWeekKey(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// SortWeekKeys sorts keys ascending by (year, week) in place.
func SortWeekKeys(keys []WeekKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
}
