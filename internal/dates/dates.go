// Package dates handles the REGOS reporting calendar: flexible user-entered
// dates, named period presets and the UTC+5 business timezone the upstream
// expects unix timestamps in.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// BusinessZone is the fixed offset the REGOS backend interprets timestamps in.
var BusinessZone = time.FixedZone("UTC+5", 5*60*60)

const displayLayout = "02.01.2006 15:04:05"

var (
	allowedChars = regexp.MustCompile(`^[\d\s.:]+$`)
	timePattern  = regexp.MustCompile(`^\d{1,2}:\d{2}$`)
)

// ParseFlexible accepts the short date forms users type and resolves them
// against now:
//
//	"23"               day in the current month
//	"23.12"            day and month in the current year
//	"23.12.2024"       full date (two-digit years map to 2000+)
//	"23.12.2024 18:30" full date with time
//
// Without an explicit time, isEnd selects 23:59 versus 00:00. The result is
// anchored in BusinessZone.
func ParseFlexible(input string, isEnd bool, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("parse date: empty input")
	}
	if !allowedChars.MatchString(input) {
		return time.Time{}, fmt.Errorf("parse date %q: invalid characters", input)
	}

	hour, minute := 0, 0
	if isEnd {
		hour, minute = 23, 59
	}

	datePart := input
	if fields := strings.Fields(input); len(fields) > 1 {
		if len(fields) != 2 || !timePattern.MatchString(fields[1]) {
			return time.Time{}, fmt.Errorf("parse date %q: invalid time", input)
		}
		datePart = fields[0]
		hm := strings.SplitN(fields[1], ":", 2)
		h, _ := strconv.Atoi(hm[0])
		m, _ := strconv.Atoi(hm[1])
		if h > 23 || m > 59 {
			return time.Time{}, fmt.Errorf("parse date %q: time out of range", input)
		}
		hour, minute = h, m
	}

	parts := strings.Split(datePart, ".")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 9999 {
			return time.Time{}, fmt.Errorf("parse date %q: invalid component %q", input, p)
		}
		nums = append(nums, n)
	}

	now = now.In(BusinessZone)
	var day, month, year int
	switch len(nums) {
	case 1:
		day, month, year = nums[0], int(now.Month()), now.Year()
	case 2:
		day, month, year = nums[0], nums[1], now.Year()
	case 3:
		day, month, year = nums[0], nums[1], nums[2]
		if year < 100 {
			year += 2000
		}
	default:
		return time.Time{}, fmt.Errorf("parse date %q: too many components", input)
	}

	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1900 || year > 9999 {
		return time.Time{}, fmt.Errorf("parse date %q: out of range", input)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, BusinessZone)
	// time.Date normalizes overflow (31.02 becomes 02.03 or 03.03); reject
	// instead of silently shifting.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("parse date %q: no such day", input)
	}
	return t, nil
}

// Range is an inclusive reporting window.
type Range struct {
	Start time.Time
	End   time.Time
}

// Unix returns the window bounds as unix timestamps.
func (r Range) Unix() (int64, int64) {
	return r.Start.Unix(), r.End.Unix()
}

// ParseRange understands either a single flexible date, which expands to that
// whole day, or "start-end" with flexible dates on both sides.
func ParseRange(input string, now time.Time) (Range, error) {
	input = strings.TrimSpace(input)
	if strings.Count(input, "-") > 1 {
		return Range{}, fmt.Errorf("parse range %q: at most one dash", input)
	}

	startRaw, endRaw := input, input
	if before, after, found := strings.Cut(input, "-"); found {
		startRaw, endRaw = before, after
	}

	start, err := ParseFlexible(startRaw, false, now)
	if err != nil {
		return Range{}, err
	}
	end, err := ParseFlexible(endRaw, true, now)
	if err != nil {
		return Range{}, err
	}
	if end.Before(start) {
		return Range{}, fmt.Errorf("parse range %q: end before start", input)
	}
	return Range{Start: start, End: end}, nil
}

// FormatUnix renders a unix timestamp in the display layout, shifted to
// BusinessZone.
func FormatUnix(ts int64) string {
	return time.Unix(ts, 0).In(BusinessZone).Format(displayLayout)
}

// Period is a named preset window resolved against a reference time.
type Period string

const (
	PeriodToday        Period = "today"
	PeriodYesterday    Period = "yesterday"
	PeriodCurrentWeek  Period = "current_week"
	PeriodLastWeek     Period = "last_week"
	PeriodCurrentMonth Period = "current_month"
	PeriodLastMonth    Period = "last_month"
	PeriodCurrentYear  Period = "current_year"
)

// Periods lists the presets in menu order.
var Periods = []Period{
	PeriodToday,
	PeriodYesterday,
	PeriodCurrentWeek,
	PeriodLastWeek,
	PeriodCurrentMonth,
	PeriodLastMonth,
	PeriodCurrentYear,
}

// Resolve expands a preset to its inclusive window. Weeks start on Monday.
func (p Period) Resolve(now time.Time) (Range, error) {
	now = now.In(BusinessZone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, BusinessZone)

	dayRange := func(start, end time.Time) Range {
		return Range{
			Start: start,
			End:   end.Add(24*time.Hour - time.Second),
		}
	}

	weekday := int(today.Weekday())
	if weekday == 0 {
		weekday = 7 // Monday-based week
	}
	startOfWeek := today.AddDate(0, 0, -(weekday - 1))

	switch p {
	case PeriodToday:
		return dayRange(today, today), nil
	case PeriodYesterday:
		y := today.AddDate(0, 0, -1)
		return dayRange(y, y), nil
	case PeriodCurrentWeek:
		return dayRange(startOfWeek, startOfWeek.AddDate(0, 0, 6)), nil
	case PeriodLastWeek:
		start := startOfWeek.AddDate(0, 0, -7)
		return dayRange(start, start.AddDate(0, 0, 6)), nil
	case PeriodCurrentMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, BusinessZone)
		return dayRange(start, start.AddDate(0, 1, -1)), nil
	case PeriodLastMonth:
		firstOfCurrent := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, BusinessZone)
		end := firstOfCurrent.AddDate(0, 0, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, BusinessZone)
		return dayRange(start, end), nil
	case PeriodCurrentYear:
		start := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, BusinessZone)
		return dayRange(start, today), nil
	default:
		return Range{}, fmt.Errorf("unknown period %q", string(p))
	}
}

// Month expands a month of the current year to its inclusive window. Months
// after the reference month are not yet selectable.
func Month(m time.Month, now time.Time) (Range, error) {
	now = now.In(BusinessZone)
	if m < time.January || m > time.December {
		return Range{}, fmt.Errorf("invalid month %d", int(m))
	}
	if m > now.Month() {
		return Range{}, fmt.Errorf("month %s is in the future", m)
	}
	start := time.Date(now.Year(), m, 1, 0, 0, 0, 0, BusinessZone)
	end := start.AddDate(0, 1, -1)
	return Range{Start: start, End: end.Add(24*time.Hour - time.Second)}, nil
}
