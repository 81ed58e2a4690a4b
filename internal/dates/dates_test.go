package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// June 15 2024 is a Saturday; keeps week math interesting.
var refNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, BusinessZone)

func TestParseFlexible(t *testing.T) {
	tests := []struct {
		name  string
		input string
		isEnd bool
		want  time.Time
	}{
		{
			name:  "day only",
			input: "23",
			want:  time.Date(2024, time.June, 23, 0, 0, 0, 0, BusinessZone),
		},
		{
			name:  "day only end of day",
			input: "23",
			isEnd: true,
			want:  time.Date(2024, time.June, 23, 23, 59, 0, 0, BusinessZone),
		},
		{
			name:  "day and month",
			input: "05.02",
			want:  time.Date(2024, time.February, 5, 0, 0, 0, 0, BusinessZone),
		},
		{
			name:  "full date",
			input: "23.12.2024",
			want:  time.Date(2024, time.December, 23, 0, 0, 0, 0, BusinessZone),
		},
		{
			name:  "two digit year",
			input: "23.12.24",
			want:  time.Date(2024, time.December, 23, 0, 0, 0, 0, BusinessZone),
		},
		{
			name:  "explicit time overrides end of day",
			input: "23.12.2024 18:30",
			isEnd: true,
			want:  time.Date(2024, time.December, 23, 18, 30, 0, 0, BusinessZone),
		},
		{
			name:  "surrounding whitespace",
			input: "  7  ",
			want:  time.Date(2024, time.June, 7, 0, 0, 0, 0, BusinessZone),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlexible(tt.input, tt.isEnd, refNow)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseFlexibleInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"letters", "tomorrow"},
		{"too many components", "1.1.1.1"},
		{"nonexistent day", "31.02.2024"},
		{"month out of range", "13.13"},
		{"day out of range", "32"},
		{"hour out of range", "10 25:00"},
		{"minute out of range", "10 12:61"},
		{"malformed time", "10 1:2:3"},
		{"extra fields", "10 12:00 extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlexible(tt.input, false, refNow)
			assert.Error(t, err)
		})
	}
}

func TestParseFlexibleAnchorsInBusinessZone(t *testing.T) {
	// A reference time just past UTC midnight is already the next day in
	// UTC+5; day-only input must resolve against the business calendar.
	utcNow := time.Date(2024, time.June, 30, 20, 0, 0, 0, time.UTC)

	got, err := ParseFlexible("1", false, utcNow)
	require.NoError(t, err)
	assert.Equal(t, time.July, got.Month())
	assert.Equal(t, 1, got.Day())
}

func TestParseRange(t *testing.T) {
	t.Run("start and end", func(t *testing.T) {
		r, err := ParseRange("01.06-15.06", refNow)
		require.NoError(t, err)
		assert.True(t, r.Start.Equal(time.Date(2024, time.June, 1, 0, 0, 0, 0, BusinessZone)))
		assert.True(t, r.End.Equal(time.Date(2024, time.June, 15, 23, 59, 0, 0, BusinessZone)))
	})

	t.Run("single date expands to whole day", func(t *testing.T) {
		r, err := ParseRange("10", refNow)
		require.NoError(t, err)
		assert.True(t, r.Start.Equal(time.Date(2024, time.June, 10, 0, 0, 0, 0, BusinessZone)))
		assert.True(t, r.End.Equal(time.Date(2024, time.June, 10, 23, 59, 0, 0, BusinessZone)))
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := ParseRange("15.06-01.06", refNow)
		assert.Error(t, err)
	})

	t.Run("more than one dash", func(t *testing.T) {
		_, err := ParseRange("1-2-3", refNow)
		assert.Error(t, err)
	})
}

func TestRangeUnix(t *testing.T) {
	start := time.Date(2024, time.June, 1, 0, 0, 0, 0, BusinessZone)
	end := time.Date(2024, time.June, 2, 23, 59, 0, 0, BusinessZone)

	gotStart, gotEnd := Range{Start: start, End: end}.Unix()
	assert.Equal(t, start.Unix(), gotStart)
	assert.Equal(t, end.Unix(), gotEnd)
}

func TestPeriodResolve(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, BusinessZone)
	}
	endOf := func(t time.Time) time.Time {
		return t.Add(24*time.Hour - time.Second)
	}

	tests := []struct {
		period    Period
		wantStart time.Time
		wantEnd   time.Time
	}{
		{PeriodToday, day(2024, time.June, 15), endOf(day(2024, time.June, 15))},
		{PeriodYesterday, day(2024, time.June, 14), endOf(day(2024, time.June, 14))},
		{PeriodCurrentWeek, day(2024, time.June, 10), endOf(day(2024, time.June, 16))},
		{PeriodLastWeek, day(2024, time.June, 3), endOf(day(2024, time.June, 9))},
		{PeriodCurrentMonth, day(2024, time.June, 1), endOf(day(2024, time.June, 30))},
		{PeriodLastMonth, day(2024, time.May, 1), endOf(day(2024, time.May, 31))},
		{PeriodCurrentYear, day(2024, time.January, 1), endOf(day(2024, time.June, 15))},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			r, err := tt.period.Resolve(refNow)
			require.NoError(t, err)
			assert.True(t, r.Start.Equal(tt.wantStart), "start: got %v, want %v", r.Start, tt.wantStart)
			assert.True(t, r.End.Equal(tt.wantEnd), "end: got %v, want %v", r.End, tt.wantEnd)
		})
	}
}

func TestPeriodResolveWeekOnSunday(t *testing.T) {
	// June 16 2024 is a Sunday; it belongs to the week starting June 10.
	sunday := time.Date(2024, time.June, 16, 9, 0, 0, 0, BusinessZone)

	r, err := PeriodCurrentWeek.Resolve(sunday)
	require.NoError(t, err)
	assert.Equal(t, 10, r.Start.Day())
	assert.Equal(t, 16, r.End.Day())
}

func TestPeriodResolveUnknown(t *testing.T) {
	_, err := Period("fortnight").Resolve(refNow)
	assert.Error(t, err)
}

func TestMonth(t *testing.T) {
	r, err := Month(time.March, refNow)
	require.NoError(t, err)
	assert.True(t, r.Start.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, BusinessZone)))
	assert.True(t, r.End.Equal(time.Date(2024, time.March, 31, 23, 59, 59, 0, BusinessZone)))

	_, err = Month(time.July, refNow)
	assert.Error(t, err, "future months are not selectable")

	_, err = Month(time.Month(0), refNow)
	assert.Error(t, err)
}

func TestFormatUnix(t *testing.T) {
	ts := time.Date(2024, time.June, 15, 10, 30, 0, 0, BusinessZone).Unix()
	assert.Equal(t, "15.06.2024 10:30:00", FormatUnix(ts))
}
