package timezone

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    FormatSpec
		wantErr bool
	}{
		{name: "nil", input: nil, want: FormatSpec{}},
		{name: "string", input: "dd/MM/yyyy", want: Format("dd/MM/yyyy")},
		{name: "string pair", input: []string{"EEEE d MMMM", "nl"}, want: FormatWithLocale("EEEE d MMMM", "nl")},
		{name: "any pair", input: []any{"EEEE", "fr"}, want: FormatWithLocale("EEEE", "fr")},
		{name: "array pair", input: [2]string{"MMMM", "de"}, want: FormatWithLocale("MMMM", "de")},
		{name: "single element", input: []string{"dd/MM/yyyy"}, wantErr: true},
		{name: "three elements", input: []any{"a", "b", "c"}, wantErr: true},
		{name: "non string element", input: []any{"a", 1}, wantErr: true},
		{name: "unsupported type", input: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatSpec_JSON(t *testing.T) {
	var doc struct {
		Plain  FormatSpec `json:"plain"`
		Pair   FormatSpec `json:"pair"`
		Object FormatSpec `json:"object"`
	}
	err := json.Unmarshal([]byte(`{
		"plain": "dd/MM/yyyy",
		"pair": ["EEEE d MMMM yyyy", "nl"],
		"object": {"pattern": "HH:mm", "locale": "en"}
	}`), &doc)
	require.NoError(t, err)

	assert.Equal(t, Format("dd/MM/yyyy"), doc.Plain)
	assert.Equal(t, FormatWithLocale("EEEE d MMMM yyyy", "nl"), doc.Pair)
	assert.Equal(t, FormatWithLocale("HH:mm", "en"), doc.Object)

	var bad FormatSpec
	err = json.Unmarshal([]byte(`["a","b","c"]`), &bad)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	out, err := json.Marshal(doc.Pair)
	require.NoError(t, err)
	assert.JSONEq(t, `["EEEE d MMMM yyyy","nl"]`, string(out))
}

func TestFieldOverride_Validate(t *testing.T) {
	ok := FieldOverride{Field: "datetime", Format: Format("dd/MM/yyyy"), Timezone: "Europe/London"}
	assert.NoError(t, ok.Validate())

	missing := FieldOverride{Format: Format("dd/MM/yyyy")}
	assert.ErrorIs(t, missing.Validate(), ErrInvalidArgument)

	badZone := FieldOverride{Field: "date", Timezone: "Mars/Olympus"}
	err := badZone.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}
