package presenter

import (
	"fmt"
	"os"

	"github.com/aleister1102/zoneshift/internal/timezone"
	"github.com/pelletier/go-toml/v2"
)

type bindingFile struct {
	Fields map[string]bindingEntry `toml:"fields"`
}

type bindingEntry struct {
	Format   any    `toml:"format"`
	Timezone string `toml:"timezone"`
}

// LoadBindings reads a TOML file of the form
//
//	[fields.timestamp]
//	format = ["EEEE d MMMM yyyy HH:mm:ss", "nl"]
//	timezone = "Europe/Amsterdam"
//
//	[fields.date]
//	format = "dd/MM/yyyy"
func LoadBindings(path string) (Bindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bindings %s: %w", path, err)
	}
	b, err := ParseBindings(data)
	if err != nil {
		return nil, fmt.Errorf("bindings %s: %w", path, err)
	}
	return b, nil
}

// ParseBindings decodes TOML bindings.
func ParseBindings(data []byte) (Bindings, error) {
	var doc bindingFile
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	out := make(Bindings, len(doc.Fields))
	for field, entry := range doc.Fields {
		spec, err := timezone.ParseFormat(entry.Format)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field, err)
		}
		ov := timezone.FieldOverride{Field: field, Format: spec, Timezone: entry.Timezone}
		if err := ov.Validate(); err != nil {
			return nil, err
		}
		out[field] = ov
	}
	return out, nil
}
