package timezone

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/aleister1102/zoneshift/internal/catalog"
	"github.com/aleister1102/zoneshift/internal/common/timeutils"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2018, time.July, 25, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, uk bool) *Engine {
	t.Helper()
	e, err := New(Options{
		StorageTimezone: "UTC",
		DisplayTimezone: "Europe/London",
		ParseUKDates:    uk,
		Clock:           timeutils.FixedClock{At: fixedNow},
		Logger:          zerolog.Nop(),
	})
	require.NoError(t, err)
	return e
}

func TestNew_Defaults(t *testing.T) {
	e, err := New(Options{Logger: zerolog.Nop()})
	require.NoError(t, err)

	assert.Equal(t, "UTC", e.StorageTimezone())
	assert.Equal(t, "UTC", e.CurrentTimezone())
	assert.Equal(t, timeutils.DefaultPattern, e.DefaultFormat())
	assert.False(t, e.ParsesUKDates())
}

func TestNew_UnknownTimezone(t *testing.T) {
	_, err := New(Options{DisplayTimezone: "Mars/Olympus"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTimezone)
	assert.Contains(t, err.Error(), "display timezone")
}

func TestFromStorage_Timestamp(t *testing.T) {
	e := newTestEngine(t, false)

	m, err := e.FromStorage("2018-07-25 13:00:00", "")
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", m.Timezone())
	assert.Equal(t, "2018-07-25 14:00:00", m.FormatDefault())
}

func TestToStorage_Timestamp(t *testing.T) {
	e := newTestEngine(t, false)

	m, err := e.ToStorage("2018-07-25 14:00:00", "")
	require.NoError(t, err)
	assert.Equal(t, "UTC", m.Timezone())
	assert.Equal(t, "2018-07-25 13:00:00", m.String())
}

func TestLocalizedRender(t *testing.T) {
	e := newTestEngine(t, false)

	m, err := e.FromStorage("2018-07-25 13:00:00", "")
	require.NoError(t, err)

	out, err := m.FormatToLocale("EEEE d MMMM yyyy HH:mm:ss", "nl")
	require.NoError(t, err)
	assert.Equal(t, "woensdag 25 juli 2018 14:00:00", out)

	assert.Empty(t, m.Locale(), "FormatToLocale must not change the moment's locale")
}

func TestRoundTrip_Timestamp(t *testing.T) {
	e := newTestEngine(t, false)

	for _, stored := range []string{
		"2018-07-25 13:00:00",
		"2018-01-15 00:30:00",
		"2018-10-28 02:30:00",
		"2018-03-25 03:15:00",
	} {
		t.Run(stored, func(t *testing.T) {
			display, err := e.FromStorage(stored, "")
			require.NoError(t, err)

			back, err := e.ToStorage(display.String(), "")
			require.NoError(t, err)
			assert.Equal(t, stored, back.String())
		})
	}
}

func TestRoundTrip_DateOnly(t *testing.T) {
	e := newTestEngine(t, false)

	m, err := e.FromStorage("2018-07-25", "")
	require.NoError(t, err)
	assert.Equal(t, "UTC", m.Timezone())

	out, err := m.Format("dd/MM/yyyy")
	require.NoError(t, err)
	assert.Equal(t, "25/07/2018", out)
	assert.Equal(t, "2018-07-25 00:00:00", m.String())

	back, err := e.ToStorage("2018-07-25", "")
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 00:00:00", back.String())
}

func TestFromStorage_TimeOnly(t *testing.T) {
	e := newTestEngine(t, false)

	m, err := e.FromStorage("13:00:00", "")
	require.NoError(t, err)
	assert.Equal(t, "UTC", m.Timezone())
	assert.Equal(t, "2018-07-25 13:00:00", m.String())
}

func TestUKDates(t *testing.T) {
	uk := newTestEngine(t, true)

	got, err := uk.ToStorage("25/07/2018 14:00:00", "")
	require.NoError(t, err)
	want, err := uk.ToStorage("2018-07-25 14:00:00", "")
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
	assert.Equal(t, "2018-07-25 13:00:00", got.String())

	date, err := uk.FromStorage("25/07/2018", "")
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 00:00:00", date.String())

	plain := newTestEngine(t, false)
	_, err = plain.ToStorage("25/07/2018 14:00:00", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)

	us, err := plain.ToStorage("07/25/2018 14:00:00", "")
	require.NoError(t, err)
	assert.True(t, us.Equal(want))
}

func TestParseError(t *testing.T) {
	e := newTestEngine(t, false)

	_, err := e.ToStorage("not a date", "")
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "not a date", perr.Raw)
	assert.Equal(t, "error parsing time string, the format of (not a date) is invalid", err.Error())
}

func TestEpochInput(t *testing.T) {
	e := newTestEngine(t, false)
	epoch := time.Date(2018, time.July, 25, 13, 0, 0, 0, time.UTC).Unix()

	m, err := e.FromStorage(epoch, "")
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", m.Timezone())
	assert.Equal(t, "2018-07-25 14:00:00", m.String())

	s, err := e.ToStorage(int(epoch), "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 13:00:00", s.String())
}

func TestEpochInput_UnsignedOverflow(t *testing.T) {
	e := newTestEngine(t, false)

	tests := []struct {
		name string
		raw  any
	}{
		{name: "uint64 above int64 range", raw: uint64(math.MaxInt64) + 1},
		{name: "max uint64", raw: uint64(math.MaxUint64)},
		{name: "max uint", raw: uint(math.MaxUint)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.FromStorage(tt.raw, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Contains(t, err.Error(), "overflows int64")

			_, err = e.ToStorage(tt.raw, "")
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	m, err := e.FromStorage(uint64(1532523600), "")
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 14:00:00", m.String())
}

func TestHostDateValues(t *testing.T) {
	e := newTestEngine(t, false)
	wall := time.Date(2018, time.July, 25, 14, 0, 0, 0, time.UTC)

	m, err := e.ToStorage(wall, "Europe/London")
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 13:00:00", m.String())

	m, err = e.ToStorage(&wall, "")
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 13:00:00", m.String())

	moment := NewMoment(time.Date(2018, time.July, 25, 13, 0, 0, 0, time.UTC), "", "")
	shown, err := e.FromStorage(moment, "")
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 14:00:00", shown.String())
}

func TestUnsupportedInput(t *testing.T) {
	e := newTestEngine(t, false)

	_, err := e.ToStorage(3.14, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = e.ToStorage(nil, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = e.ToStorage("2018-07-25 14:00:00", "Mars/Olympus")
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestMicroseconds(t *testing.T) {
	e := newTestEngine(t, false)

	m, err := e.FromStorage("2018-07-25 13:00:00.123456", "")
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 14:00:00.123456", m.DateString())
	assert.Equal(t, 123456000, m.Time().Nanosecond())
}

func TestLocalizedLiteralFallback(t *testing.T) {
	e := newTestEngine(t, false)

	m, err := e.ConvertToStorage("woensdag 25 juli 2018 14:00:00", "",
		FormatWithLocale("EEEE d MMMM yyyy HH:mm:ss", "nl"))
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 13:00:00", m.String())

	_, err = e.ToStorage("woensdag 25 juli 2018 14:00:00", "")
	assert.ErrorIs(t, err, ErrParse)
}

func TestSession(t *testing.T) {
	e := newTestEngine(t, false)

	tokyo, err := e.ForSession("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", tokyo.CurrentTimezone())
	assert.Equal(t, "Europe/London", e.CurrentTimezone())

	m, err := tokyo.FromStorage("2018-07-25 13:00:00", "")
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 22:00:00", m.String())

	same, err := e.ForSession("")
	require.NoError(t, err)
	assert.Same(t, e, same)

	ctx := WithSessionTimezone(context.Background(), "America/New_York")
	ny, err := e.ForContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", ny.CurrentTimezone())

	_, err = e.ForSession("Mars/Olympus")
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestRender(t *testing.T) {
	e := newTestEngine(t, false).WithLocale("nl")
	m, err := e.FromStorage("2018-07-25 13:00:00", "")
	require.NoError(t, err)

	out, err := e.Render(m, FormatSpec{})
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 14:00:00", out)

	out, err = e.Render(m, Format("d MMMM"))
	require.NoError(t, err)
	assert.Equal(t, "25 juli", out)

	out, err = e.Render(m, FormatWithLocale("d MMMM", "en"))
	require.NoError(t, err)
	assert.Equal(t, "25 July", out)
}

type staticLister []catalog.Entry

func (s staticLister) List(context.Context) ([]catalog.Entry, error) {
	return s, nil
}

func TestTimezones(t *testing.T) {
	e := newTestEngine(t, false)
	_, err := e.Timezones(context.Background())
	assert.ErrorIs(t, err, ErrNoCatalog)

	withCatalog, err := New(Options{
		Catalog: staticLister{{ID: "UTC", Label: "(GMT) UTC"}},
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	entries, err := withCatalog.Timezones(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestClassificationHelpers(t *testing.T) {
	e := newTestEngine(t, false)
	assert.True(t, e.IsTimestamp("2018-07-25 13:00:00"))
	assert.True(t, e.IsTime("13:00:00"))
	assert.True(t, e.IsDate("2018-07-25"))
}
