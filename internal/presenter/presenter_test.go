package presenter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aleister1102/zoneshift/internal/batch"
	"github.com/aleister1102/zoneshift/internal/common/timeutils"
	"github.com/aleister1102/zoneshift/internal/timezone"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *timezone.Engine {
	t.Helper()
	e, err := timezone.New(timezone.Options{
		StorageTimezone: "UTC",
		DisplayTimezone: "Europe/London",
		Clock:           timeutils.FixedClock{At: time.Date(2018, time.July, 25, 12, 0, 0, 0, time.UTC)},
		Logger:          zerolog.Nop(),
	})
	require.NoError(t, err)
	return e
}

func testBindings(t *testing.T) Bindings {
	t.Helper()
	b := Bindings{}
	require.NoError(t, b.Bind("datetime", "dd/MM/yyyy HH:mm:ss"))
	require.NoError(t, b.Bind("timestamp", []string{"EEEE d MMMM yyyy HH:mm:ss", "nl"}))
	require.NoError(t, b.Bind("date", "dd/MM/yyyy"))
	require.NoError(t, b.Bind("time", "HH:mm:ss"))
	require.NoError(t, b.Bind("plain", nil))
	return b
}

func storedRecord() *batch.MapRecord {
	return batch.NewMapRecord(
		"id", 1,
		"name", "test",
		"timestamp", "2018-07-25 13:00:00",
		"datetime", "2018-07-25 13:00:00",
		"date", "2018-07-25",
		"time", "13:00:00",
		"plain", "2018-07-25 13:00:00",
	)
}

func TestDisplay_FieldDefaults(t *testing.T) {
	p := New(newEngine(t), storedRecord(), testBindings(t))

	tests := []struct {
		field string
		want  string
	}{
		{"datetime", "25/07/2018 14:00:00"},
		{"timestamp", "woensdag 25 juli 2018 14:00:00"},
		{"date", "25/07/2018"},
		{"time", "13:00:00"},
		{"plain", "2018-07-25 14:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			h, err := p.Select(tt.field)
			require.NoError(t, err)
			got, err := h.Display("", "", "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplay_Overrides(t *testing.T) {
	p := New(newEngine(t), storedRecord(), testBindings(t))
	_, err := p.Select("timestamp")
	require.NoError(t, err)

	got, err := p.Display("", "en", "")
	require.NoError(t, err)
	assert.Equal(t, "Wednesday 25 July 2018 14:00:00", got)

	got, err = p.Display("yyyy-MM-dd HH:mm", "", "Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 22:00", got)
}

func TestDisplay_SessionLocale(t *testing.T) {
	rec := storedRecord()
	bindings := Bindings{}
	require.NoError(t, bindings.Bind("datetime", "d MMMM yyyy"))

	off := New(newEngine(t), rec, bindings, WithLocale("en"), WithSessionLocale("nl", false))
	_, err := off.Select("datetime")
	require.NoError(t, err)
	got, err := off.Display("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "25 July 2018", got)

	on := New(newEngine(t), rec, bindings, WithLocale("en"), WithSessionLocale("nl", true))
	_, err = on.Select("datetime")
	require.NoError(t, err)
	got, err = on.Display("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "25 juli 2018", got)
}

func TestDisplay_SessionTimezone(t *testing.T) {
	engine, err := newEngine(t).ForSession("America/New_York")
	require.NoError(t, err)

	p := New(engine, storedRecord(), testBindings(t))
	_, err = p.Select("datetime")
	require.NoError(t, err)
	got, err := p.Display("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "25/07/2018 09:00:00", got)
}

func TestAssign_ShapeInference(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value any
		want  any
	}{
		{name: "timestamp", field: "datetime", value: "2018-07-25 14:00:00", want: "2018-07-25 13:00:00"},
		{name: "timestamp with micro", field: "datetime", value: "2018-07-25 14:00:00.25", want: "2018-07-25 13:00:00.250000"},
		{name: "time", field: "time", value: "14:00:00", want: "14:00:00"},
		{name: "date", field: "date", value: "2018-07-25", want: "2018-07-25"},
		{name: "localized literal", field: "timestamp", value: "woensdag 25 juli 2018 14:00:00", want: "2018-07-25 13:00:00"},
		{name: "epoch", field: "plain", value: int64(1532523600), want: "2018-07-25 13:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := storedRecord()
			p := New(newEngine(t), rec, testBindings(t))

			out, err := p.Assign(tt.field, tt.value)
			require.NoError(t, err)
			got, _ := out.Get(tt.field)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAssign_ThenDisplay(t *testing.T) {
	p := New(newEngine(t), storedRecord(), testBindings(t))

	_, err := p.Assign("datetime", "2018-12-25 09:30:00")
	require.NoError(t, err)
	_, err = p.Select("datetime")
	require.NoError(t, err)
	got, err := p.Display("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "25/12/2018 09:30:00", got)
}

type booking struct {
	Datetime time.Time `zone:"datetime"`
}

func TestAssign_TimeField(t *testing.T) {
	b := &booking{}
	rec, err := batch.NewStructRecord(b)
	require.NoError(t, err)
	p := New(newEngine(t), rec, testBindings(t))

	_, err = p.Assign("datetime", "2018-07-25 14:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2018-07-25 13:00:00", b.Datetime.Format(timeutils.LayoutDateTime))
	assert.Equal(t, "UTC", b.Datetime.Location().String())

	_, err = p.Select("datetime")
	require.NoError(t, err)
	got, err := p.Display("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "25/07/2018 14:00:00", got)
}

func TestErrors(t *testing.T) {
	p := New(newEngine(t), storedRecord(), testBindings(t), WithName("TestModel"))

	_, err := p.Display("", "", "")
	assert.ErrorIs(t, err, ErrNoActiveField)

	_, err = p.Select("name")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, "property name not found in TestModel bindings", err.Error())

	_, err = p.Assign("missing", "2018-07-25")
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = p.Assign("datetime", "not a date at all")
	require.Error(t, err)
	assert.ErrorIs(t, err, timezone.ErrParse)

	var unknown *UnknownFieldError
	_, err = p.Select("id")
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "id", unknown.Field)
}

func TestBindings(t *testing.T) {
	b := Bindings{}
	assert.ErrorIs(t, b.Bind("bad", []string{"only-one"}), timezone.ErrInvalidArgument)
	assert.ErrorIs(t, b.Bind("", "dd/MM/yyyy"), timezone.ErrInvalidArgument)
	assert.Equal(t, []string{"date", "datetime", "plain", "time", "timestamp"}, testBindings(t).Fields())
}

func TestLoadBindings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindings.toml")
	err := os.WriteFile(path, []byte(`
[fields.datetime]
format = "dd/MM/yyyy HH:mm:ss"

[fields.timestamp]
format = ["EEEE d MMMM yyyy HH:mm:ss", "nl"]
timezone = "Europe/Amsterdam"

[fields.time]
`), 0644)
	require.NoError(t, err)

	b, err := LoadBindings(path)
	require.NoError(t, err)
	require.Len(t, b, 3)
	assert.Equal(t, timezone.Format("dd/MM/yyyy HH:mm:ss"), b["datetime"].Format)
	assert.Equal(t, timezone.FormatWithLocale("EEEE d MMMM yyyy HH:mm:ss", "nl"), b["timestamp"].Format)
	assert.Equal(t, "Europe/Amsterdam", b["timestamp"].Timezone)
	assert.True(t, b["time"].Format.IsZero())

	p := New(newEngine(t), storedRecord(), b)
	_, err = p.Select("timestamp")
	require.NoError(t, err)
	got, err := p.Display("", "", "")
	require.NoError(t, err)
	assert.Equal(t, "woensdag 25 juli 2018 15:00:00", got)
}

func TestParseBindings_Invalid(t *testing.T) {
	_, err := ParseBindings([]byte(`
[fields.bad]
format = ["a", "b", "c"]
`))
	assert.ErrorIs(t, err, timezone.ErrInvalidArgument)

	_, err = ParseBindings([]byte(`
[fields.bad]
timezone = "Mars/Olympus"
`))
	assert.Error(t, err)

	_, err = LoadBindings(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
