package batch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Record is one row whose fields can be read and replaced by name.
type Record interface {
	Get(field string) (any, bool)
	Set(field string, value any) error
	Fields() []string
}

// DateFielder is implemented by records that know which of their fields
// hold dates. Those fields are always converted.
type DateFielder interface {
	DateFields() []string
}

// SetChecker is implemented by records that can tell whether a Set would
// succeed without writing anything.
type SetChecker interface {
	CheckSet(field string, value any) error
}

// TimeHolder is implemented by records whose fields may be typed as
// time.Time. Converted values are written to those fields as times rather
// than rendered text.
type TimeHolder interface {
	HoldsTime(field string) bool
}

// MapRecord is an ordered key/value record.
type MapRecord struct {
	keys   []string
	values map[string]any
	dates  []string
}

// NewMapRecord builds a record from alternating key, value arguments.
func NewMapRecord(kv ...any) *MapRecord {
	r := &MapRecord{values: make(map[string]any, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		_ = r.Set(key, kv[i+1])
	}
	return r
}

// FromMap copies m into a record with keys in sorted order.
func FromMap(m map[string]any) *MapRecord {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := &MapRecord{keys: keys, values: make(map[string]any, len(m))}
	for k, v := range m {
		r.values[k] = v
	}
	return r
}

// WithDateFields declares the record's own date fields.
func (r *MapRecord) WithDateFields(fields ...string) *MapRecord {
	r.dates = append(r.dates, fields...)
	return r
}

func (r *MapRecord) Get(field string) (any, bool) {
	v, ok := r.values[field]
	return v, ok
}

func (r *MapRecord) Set(field string, value any) error {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[field]; !ok {
		r.keys = append(r.keys, field)
	}
	r.values[field] = value
	return nil
}

// CheckSet always succeeds; a map record accepts any field and value.
func (r *MapRecord) CheckSet(string, any) error {
	return nil
}

func (r *MapRecord) Fields() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *MapRecord) DateFields() []string {
	return r.dates
}

// Map returns a copy of the values.
func (r *MapRecord) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes the fields in record order.
func (r *MapRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object, keeping the document's key order.
func (r *MapRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object")
	}

	*r = MapRecord{values: map[string]any{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var value any
		if err := dec.Decode(&value); err != nil {
			return err
		}
		_ = r.Set(key, normalizeNumber(value))
	}
	_, err = dec.Token()
	return err
}

// normalizeNumber turns integral JSON numbers into int64 so they read as
// epoch seconds.
func normalizeNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// Accessor reads and writes one field of a host object.
type Accessor struct {
	Get func() any
	Set func(any) error
}

// AccessorRecord exposes a host object through explicit accessor pairs.
type AccessorRecord struct {
	name      string
	order     []string
	accessors map[string]Accessor
	dates     []string
}

// NewAccessorRecord starts an empty accessor record. name identifies the
// host type in error messages.
func NewAccessorRecord(name string) *AccessorRecord {
	return &AccessorRecord{name: name, accessors: map[string]Accessor{}}
}

// Bind registers the accessor pair for field.
func (r *AccessorRecord) Bind(field string, get func() any, set func(any) error) *AccessorRecord {
	if _, ok := r.accessors[field]; !ok {
		r.order = append(r.order, field)
	}
	r.accessors[field] = Accessor{Get: get, Set: set}
	return r
}

// WithDateFields declares the host object's own date fields.
func (r *AccessorRecord) WithDateFields(fields ...string) *AccessorRecord {
	r.dates = append(r.dates, fields...)
	return r
}

func (r *AccessorRecord) Get(field string) (any, bool) {
	a, ok := r.accessors[field]
	if !ok || a.Get == nil {
		return nil, false
	}
	return a.Get(), true
}

func (r *AccessorRecord) Set(field string, value any) error {
	if err := r.CheckSet(field, value); err != nil {
		return err
	}
	return r.accessors[field].Set(value)
}

// CheckSet fails for unknown and read-only fields. Setter-side validation
// only runs on Set.
func (r *AccessorRecord) CheckSet(field string, _ any) error {
	a, ok := r.accessors[field]
	if !ok {
		return fmt.Errorf("%s has no field %q", r.name, field)
	}
	if a.Set == nil {
		return fmt.Errorf("%s field %q is read-only", r.name, field)
	}
	return nil
}

func (r *AccessorRecord) Fields() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *AccessorRecord) DateFields() []string {
	return r.dates
}

func (r *AccessorRecord) String() string {
	return r.name
}
