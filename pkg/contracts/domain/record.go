package domain

import (
	"time"
)

// ReferenceEntry maps an identifier to the date its series is measured from.
// DayZero (StartDate plus Offset days) is the origin for relative day indices.
type ReferenceEntry struct {
	ID        string    `json:"id" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	Offset    int       `json:"offset"`
}

// DayZero returns the date that relative day 0 corresponds to.
func (e ReferenceEntry) DayZero() time.Time {
	return e.StartDate.AddDate(0, 0, e.Offset)
}

// RawRecord is one parsed input row before alignment. It is produced by the
// parser and consumed immediately by the aligner; nothing retains it.
type RawRecord struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Response Response  `json:"response"`

	// Source file and 1-based row number, carried for diagnostics.
	Source string `json:"source"`
	Row    int    `json:"row"`
}

// AlignedRecord is a RawRecord re-indexed onto the identifier's day-zero.
// RelativeDay may be negative when the record predates day-zero.
type AlignedRecord struct {
	ID          string   `json:"id"`
	RelativeDay int      `json:"relative_day"`
	Response    Response `json:"response"`
	Source      string   `json:"source"`
	Row         int      `json:"row"`
}
