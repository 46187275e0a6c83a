// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

// Package civildate provides a calendar date without a time-of-day component.
//
// Course start/end dates and student birth dates are civil dates: "2026-09-01"
// means the same day regardless of server timezone. Encoding them as full
// timestamps invites off-by-one-day bugs, so this type pins the wire format
// to YYYY-MM-DD for both JSON and PostgreSQL DATE columns.
package civildate

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Layout is the wire format for civil dates.
const Layout = "2006-01-02"

// Date is a calendar date. The zero value is the zero time.Time.
type Date struct {
	time.Time
}

// Parse converts a YYYY-MM-DD string into a [Date].
func Parse(value string) (Date, error) {
	parsed, err := time.Parse(Layout, value)
	if err != nil {
		return Date{}, fmt.Errorf("civildate_parse_failed: %w", err)
	}
	return Date{Time: parsed}, nil
}

// FromTime truncates a timestamp to its UTC calendar date.
func FromTime(t time.Time) Date {
	year, month, day := t.UTC().Date()
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String returns the date in YYYY-MM-DD format.
func (date Date) String() string {
	return date.Format(Layout)
}

// MarshalJSON encodes the date as a quoted YYYY-MM-DD string.
func (date Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + date.Format(Layout) + `"`), nil
}

// UnmarshalJSON decodes a quoted YYYY-MM-DD string.
func (date *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" || raw == "" {
		*date = Date{}
		return nil
	}

	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*date = parsed
	return nil
}

// Scan implements sql.Scanner so DATE columns map onto [Date].
func (date *Date) Scan(src any) error {
	switch value := src.(type) {
	case nil:
		*date = Date{}
		return nil
	case time.Time:
		*date = FromTime(value)
		return nil
	case string:
		parsed, err := Parse(value)
		if err != nil {
			return err
		}
		*date = parsed
		return nil
	default:
		return fmt.Errorf("civildate_scan_unsupported_type: %T", src)
	}
}

// Value implements driver.Valuer, storing the date as a midnight-UTC timestamp
// which PostgreSQL truncates into its DATE representation.
func (date Date) Value() (driver.Value, error) {
	return date.Time, nil
}
