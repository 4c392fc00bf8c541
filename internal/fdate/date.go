// Package fdate implements proleptic-Gregorian date arithmetic (spec.md §3,
// "Date"), independent of time zones or wall-clock time: a Date is just a
// (year, month, day) triple plus a day-count epoch conversion for
// arithmetic.
package fdate

import (
	"fmt"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/printfn/fend/internal/ferr"
	"github.com/printfn/fend/internal/kind"
)

// Date is a validated proleptic-Gregorian calendar date.
type Date struct {
	Year  int32
	Month uint8 // 1..12
	Day   uint8 // 1..31
}

var daysInMonth = [13]uint8{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeap(year int32) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysIn(year int32, month uint8) uint8 {
	if month == 2 && isLeap(year) {
		return 29
	}
	return daysInMonth[month]
}

// New validates and builds a Date.
func New(year int32, month, day uint8) (Date, error) {
	if month < 1 || month > 12 {
		return Date{}, ferr.New(kind.InvalidDate, "month must be between 1 and 12")
	}
	if day < 1 || day > daysIn(year, month) {
		return Date{}, ferr.New(kind.InvalidDate, "day %d is not valid for %04d-%02d", day, year, month)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// toEpochDay implements Howard Hinnant's days_from_civil algorithm: the
// number of days since 1970-01-01, valid for the whole proleptic Gregorian
// calendar (no special-casing around year 0, unlike the BC/AD Julian
// convention spec.md explicitly rejects).
func (d Date) toEpochDay() int64 {
	y := int64(d.Year)
	m := int64(d.Month)
	dd := int64(d.Day)
	if m <= 2 {
		y--
	}
	era := y
	if y < 0 {
		era = y - 399
	}
	era /= 400
	yoe := y - era*400
	var mp int64
	if m > 2 {
		mp = m - 3
	} else {
		mp = m + 9
	}
	doy := (153*mp+2)/5 + dd - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func fromEpochDay(z int64) Date {
	z += 719468
	era := z
	if z < 0 {
		era = z - 146096
	}
	era /= 146097
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d := doy - (153*mp+2)/5 + 1
	var m int64
	if mp < 10 {
		m = mp + 3
	} else {
		m = mp - 9
	}
	if m <= 2 {
		y++
	}
	return Date{Year: int32(y), Month: uint8(m), Day: uint8(d)}
}

// AddDays returns the date n days later (n may be negative).
func (d Date) AddDays(n int64) Date {
	return fromEpochDay(d.toEpochDay() + n)
}

// DiffDays returns d - o, in days.
func (d Date) DiffDays(o Date) int64 {
	return d.toEpochDay() - o.toEpochDay()
}

// Weekday returns 0=Sunday .. 6=Saturday, via the epoch-day-mod-7
// Zeller-equivalent computation spec.md §4.4 calls for.
func (d Date) Weekday() int {
	epoch := d.toEpochDay()
	// 1970-01-01 was a Thursday (weekday 4).
	wd := (epoch%7 + 7 + 4) % 7
	return int(wd)
}

var weekdayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Format renders "Weekday, D Month YYYY" via strftime (spec.md §4.4).
func (d Date) Format() (string, error) {
	t := d.asTimeUTC()
	s := strftime.Format("%A, %-d %B %Y", t)
	return s, nil
}

func (d Date) WeekdayName() string { return weekdayNames[d.Weekday()] }

// asTimeUTC produces a time.Time usable purely for strftime rendering; no
// arithmetic in this package goes through time.Time, since the Go standard
// library's Gregorian/Julian switchover assumptions don't match spec.md's
// "year 0 directly precedes year 1, proleptic Gregorian throughout" rule.
func (d Date) asTimeUTC() time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
}

// Today returns the current date in UTC (spec.md §4.6's "today" builtin has
// no timezone concept at the core layer; the CLI/host may localise).
func Today() Date {
	now := time.Now().UTC()
	return Date{Year: int32(now.Year()), Month: uint8(now.Month()), Day: uint8(now.Day())}
}

// AddMonths steps the month field by n, clamping the day into the
// destination month's length (spec.md §4.6, "next month" style arithmetic).
func (d Date) AddMonths(n int64) Date {
	total := int64(d.Year)*12 + int64(d.Month-1) + n
	year := total / 12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}
	y := int32(year)
	m := uint8(month + 1)
	day := d.Day
	if max := daysIn(y, m); day > max {
		day = max
	}
	return Date{Year: y, Month: m, Day: day}
}

// AddYears steps the year field by n, clamping Feb 29 into Feb 28 when the
// destination year isn't a leap year.
func (d Date) AddYears(n int64) Date {
	return d.AddMonths(n * 12)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Parse reads an ISO-8601-style "YYYY-MM-DD" literal, the @-attribute form
// spec.md §4.1 tokenises as a DATE token.
func Parse(s string) (Date, error) {
	var year int32
	var month, day uint8
	n, err := fmt.Sscanf(s, "%d-%d-%d", &year, &month, &day)
	if err != nil || n != 3 {
		return Date{}, ferr.New(kind.InvalidDate, "invalid date literal %q", s)
	}
	return New(year, month, day)
}
