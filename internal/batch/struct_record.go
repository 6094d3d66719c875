package batch

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

const structTag = "zone"

var timeType = reflect.TypeOf(time.Time{})

// StructRecord exposes the exported fields of a struct pointer. Field names
// come from the `zone` tag, then the `json` tag, then the Go name. A
// `zone:"name,date"` tag marks a date field.
type StructRecord struct {
	target reflect.Value
	typ    reflect.Type
	index  map[string][]int
	order  []string
	dates  []string
	owner  any
}

// NewStructRecord wraps ptr, which must be a non-nil pointer to a struct.
func NewStructRecord(ptr any) (*StructRecord, error) {
	v := reflect.ValueOf(ptr)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("struct record needs a non-nil struct pointer, got %T", ptr)
	}

	r := &StructRecord{
		target: v.Elem(),
		typ:    v.Elem().Type(),
		index:  map[string][]int{},
		owner:  ptr,
	}
	r.collect(r.typ, nil)
	return r, nil
}

func (r *StructRecord) collect(t reflect.Type, parent []int) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := append(append([]int{}, parent...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			r.collect(f.Type, idx)
			continue
		}
		if !f.IsExported() {
			continue
		}

		name, isDate, skip := fieldName(f)
		if skip {
			continue
		}
		if _, dup := r.index[name]; dup {
			continue
		}
		r.index[name] = idx
		r.order = append(r.order, name)
		if isDate {
			r.dates = append(r.dates, name)
		}
	}
}

func fieldName(f reflect.StructField) (name string, isDate bool, skip bool) {
	if tag, ok := f.Tag.Lookup(structTag); ok {
		parts := strings.Split(tag, ",")
		if parts[0] == "-" {
			return "", false, true
		}
		for _, opt := range parts[1:] {
			if opt == "date" {
				isDate = true
			}
		}
		if parts[0] != "" {
			return parts[0], isDate, false
		}
	}
	if tag, ok := f.Tag.Lookup("json"); ok {
		jsonName := strings.Split(tag, ",")[0]
		if jsonName == "-" {
			return "", false, true
		}
		if jsonName != "" {
			return jsonName, isDate, false
		}
	}
	return f.Name, isDate, false
}

func (r *StructRecord) Get(field string) (any, bool) {
	idx, ok := r.index[field]
	if !ok {
		return nil, false
	}
	fv := r.target.FieldByIndex(idx)
	if fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil, true
		}
		fv = fv.Elem()
	}
	return fv.Interface(), true
}

func (r *StructRecord) Set(field string, value any) error {
	apply, err := r.prepare(field, value)
	if err != nil {
		return err
	}
	apply()
	return nil
}

// CheckSet reports whether Set(field, value) would succeed, without writing.
func (r *StructRecord) CheckSet(field string, value any) error {
	_, err := r.prepare(field, value)
	return err
}

// HoldsTime reports whether field is a time.Time or *time.Time.
func (r *StructRecord) HoldsTime(field string) bool {
	idx, ok := r.index[field]
	if !ok {
		return false
	}
	t := r.typ.FieldByIndex(idx).Type
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t == timeType
}

func (r *StructRecord) prepare(field string, value any) (func(), error) {
	idx, ok := r.index[field]
	if !ok {
		return nil, fmt.Errorf("%s has no field %q", r.typ.Name(), field)
	}
	fv := r.target.FieldByIndex(idx)
	if !fv.CanSet() {
		return nil, fmt.Errorf("%s field %q cannot be set", r.typ.Name(), field)
	}

	vv := reflect.ValueOf(value)
	if !vv.IsValid() {
		return func() { fv.Set(reflect.Zero(fv.Type())) }, nil
	}
	if vv.Type().AssignableTo(fv.Type()) {
		return func() { fv.Set(vv) }, nil
	}

	target := fv.Type()
	if target.Kind() == reflect.Pointer {
		target = target.Elem()
	}
	var converted reflect.Value
	switch {
	case vv.Type().AssignableTo(target):
		converted = vv
	case vv.Type().ConvertibleTo(target) && vv.Kind() == target.Kind():
		converted = vv.Convert(target)
	default:
		return nil, fmt.Errorf("%s field %q: cannot assign %T to %s", r.typ.Name(), field, value, fv.Type())
	}

	if fv.Kind() == reflect.Pointer {
		return func() {
			p := reflect.New(target)
			p.Elem().Set(converted)
			fv.Set(p)
		}, nil
	}
	return func() { fv.Set(converted) }, nil
}

func (r *StructRecord) Fields() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DateFields merges tagged date fields with the struct's own DateFields
// method when it has one.
func (r *StructRecord) DateFields() []string {
	out := append([]string{}, r.dates...)
	if df, ok := r.owner.(DateFielder); ok {
		out = append(out, df.DateFields()...)
	}
	return out
}

func (r *StructRecord) String() string {
	return r.typ.Name()
}
