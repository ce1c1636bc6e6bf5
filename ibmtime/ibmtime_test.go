package ibmtime_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/ibmi-toolkit/ibmtime"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clock(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

// ─────────────────────────────────────────────────────────────────────────────
// DecodeDate
// ─────────────────────────────────────────────────────────────────────────────

func TestDecodeDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		packed int
		want   time.Time
	}{
		{"ordinary", 20230615, date(2023, time.June, 15)},
		{"leap day", 20240229, date(2024, time.February, 29)},
		{"first valid year", 10000101, date(1000, time.January, 1)},
		{"last day", 99991231, date(9999, time.December, 31)},
		{"zero", 0, ibmtime.Absent},
		{"impossible day", 20230230, ibmtime.Absent},
		{"not a leap year", 20230229, ibmtime.Absent},
		{"month 13", 20231301, ibmtime.Absent},
		{"day zero", 20230600, ibmtime.Absent},
		{"seven digits", 2023061, ibmtime.Absent},
		{"year before 1000 is not padded", 9990615, ibmtime.Absent},
		{"extra digits ignored", 202306159, date(2023, time.June, 15)},
		{"negative", -20230615, ibmtime.Absent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ibmtime.DecodeDate(tc.packed)
			assert.True(t, tc.want.Equal(got), "want %v got %v", tc.want, got)
		})
	}
}

func TestDecodeDate_ZeroIsAbsent(t *testing.T) {
	t.Parallel()
	assert.True(t, ibmtime.DecodeDate(0).IsZero())
	assert.Equal(t, 1, ibmtime.Absent.Year())
}

// ─────────────────────────────────────────────────────────────────────────────
// DecodeDateTime
// ─────────────────────────────────────────────────────────────────────────────

func TestDecodeDateTime(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		date, clock int
		width       int
		want        time.Time
	}{
		{"hhmm", 20230615, 930, 4, clock(2023, time.June, 15, 9, 30, 0)},
		{"hhmmss", 20230615, 93045, 6, clock(2023, time.June, 15, 9, 30, 45)},
		{"midnight hhmm", 20230615, 0, 4, date(2023, time.June, 15)},
		{"seconds only", 20230615, 5, 6, clock(2023, time.June, 15, 0, 0, 5)},
		{"last minute", 20231231, 2359, 4, clock(2023, time.December, 31, 23, 59, 0)},
		{"both zero width 4", 0, 0, 4, ibmtime.Absent},
		{"both zero width 6", 0, 0, 6, ibmtime.Absent},
		{"unsupported width", 20230615, 930, 5, ibmtime.Absent},
		{"zero date with time", 0, 930, 4, ibmtime.Absent},
		{"invalid hhmm falls back to midnight", 20230615, 2561, 4, date(2023, time.June, 15)},
		{"six digit value in width 4", 20230615, 93045, 4, date(2023, time.June, 15)},
		{"invalid hhmmss is absent", 20230615, 256100, 6, ibmtime.Absent},
		{"invalid seconds is absent", 20230615, 93060, 6, ibmtime.Absent},
		{"invalid date with valid time", 20230231, 930, 4, ibmtime.Absent},
		{"negative hhmm falls back to midnight", 20230615, -5, 4, date(2023, time.June, 15)},
		{"negative hhmmss is absent", 20230615, -5, 6, ibmtime.Absent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ibmtime.DecodeDateTime(tc.date, tc.clock, tc.width)
			assert.True(t, tc.want.Equal(got), "want %v got %v", tc.want, got)
		})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Encoding
// ─────────────────────────────────────────────────────────────────────────────

func TestEncodeDate(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 20230615, ibmtime.EncodeDate(date(2023, time.June, 15)))
	assert.Equal(t, 20230615, ibmtime.EncodeDate(clock(2023, time.June, 15, 9, 30, 45)))
	assert.Equal(t, 0, ibmtime.EncodeDate(ibmtime.Absent))
}

func TestEncodeTime(t *testing.T) {
	t.Parallel()
	ts := clock(2023, time.June, 15, 9, 30, 45)

	assert.Equal(t, 93045, ibmtime.EncodeTime(ts, 6))
	assert.Equal(t, 930, ibmtime.EncodeTime(ts, 4))
	assert.Equal(t, ibmtime.InvalidTime, ibmtime.EncodeTime(ts, 5))
	assert.Equal(t, ibmtime.InvalidTime, ibmtime.EncodeTime(ts, 0))
}

func TestValidWidth(t *testing.T) {
	t.Parallel()
	require.NoError(t, ibmtime.ValidWidth(4))
	require.NoError(t, ibmtime.ValidWidth(6))
	require.ErrorIs(t, ibmtime.ValidWidth(8), ibmtime.ErrUnsupportedWidth)
}

// ─────────────────────────────────────────────────────────────────────────────
// Round trips
// ─────────────────────────────────────────────────────────────────────────────

func TestRoundTrip_Date(t *testing.T) {
	t.Parallel()
	end := date(9999, time.December, 31)
	for d := date(1000, time.January, 1); !d.After(end); d = d.AddDate(0, 0, 997) {
		got := ibmtime.DecodeDate(ibmtime.EncodeDate(d))
		require.True(t, d.Equal(got), "round trip of %v gave %v", d, got)
	}
	require.True(t, end.Equal(ibmtime.DecodeDate(ibmtime.EncodeDate(end))))
}

func TestRoundTrip_HHMM(t *testing.T) {
	t.Parallel()
	d := date(2023, time.June, 15)
	packed := ibmtime.EncodeDate(d)
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			got := ibmtime.DecodeDateTime(packed, h*100+m, 4)
			want := clock(2023, time.June, 15, h, m, 0)
			require.True(t, want.Equal(got), "%02d:%02d gave %v", h, m, got)
		}
	}
}

func TestRoundTrip_HHMMSS(t *testing.T) {
	t.Parallel()
	d := date(1999, time.December, 31)
	packed := ibmtime.EncodeDate(d)
	for sec := 0; sec < 24*60*60; sec += 7 {
		want := d.Add(time.Duration(sec) * time.Second)
		got := ibmtime.DecodeDateTime(packed, ibmtime.EncodeTime(want, 6), 6)
		require.True(t, want.Equal(got), "%v gave %v", want, got)
	}
}

func TestRoundTrip_HHMMTruncatesSeconds(t *testing.T) {
	t.Parallel()
	ts := clock(2023, time.June, 15, 9, 30, 45)
	got := ibmtime.DecodeDateTime(ibmtime.EncodeDate(ts), ibmtime.EncodeTime(ts, 4), 4)
	assert.True(t, clock(2023, time.June, 15, 9, 30, 0).Equal(got))
}

// ─────────────────────────────────────────────────────────────────────────────
// Decimal forms
// ─────────────────────────────────────────────────────────────────────────────

func TestDecodeDecimal(t *testing.T) {
	t.Parallel()

	got := ibmtime.DecodeDateDecimal(decimal.RequireFromString("20230615"))
	assert.True(t, date(2023, time.June, 15).Equal(got))

	got = ibmtime.DecodeDateDecimal(decimal.RequireFromString("20230615.00"))
	assert.True(t, date(2023, time.June, 15).Equal(got))

	assert.True(t, ibmtime.DecodeDateDecimal(decimal.Zero).IsZero())

	got = ibmtime.DecodeDateTimeDecimal(decimal.NewFromInt(20230615), decimal.NewFromInt(930), 4)
	assert.True(t, clock(2023, time.June, 15, 9, 30, 0).Equal(got))

	got = ibmtime.DecodeDateTimeDecimal(decimal.NewFromInt(20230615), decimal.NewFromInt(93045), 6)
	assert.True(t, clock(2023, time.June, 15, 9, 30, 45).Equal(got))

	got = ibmtime.DecodeDateTimeDecimal(decimal.NewFromInt(20230615), decimal.NewFromInt(2561), 4)
	assert.True(t, date(2023, time.June, 15).Equal(got))

	assert.True(t, ibmtime.DecodeDateTimeDecimal(decimal.Zero, decimal.Zero, 6).IsZero())
}

func TestDecimalMatchesInt(t *testing.T) {
	t.Parallel()
	for _, p := range []int{20230615, 20240229, 20230230, 2023061, 99991231} {
		assert.True(t, ibmtime.DecodeDate(p).Equal(ibmtime.DecodeDateDecimal(decimal.NewFromInt(int64(p)))), "packed %d", p)
	}
}

func TestEncodeDateDecimal(t *testing.T) {
	t.Parallel()
	got := ibmtime.EncodeDateDecimal(date(2023, time.June, 15))
	assert.True(t, decimal.NewFromInt(20230615).Equal(got))
}
