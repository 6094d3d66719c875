package batch

import (
	"fmt"
	"reflect"

	"github.com/aleister1102/zoneshift/internal/timezone"
)

// Collection is an ordered set of records.
type Collection []Record

// AsCollection accepts typed collections only: Collection, []Record,
// []*MapRecord, []*AccessorRecord, []map[string]any and slices of struct
// pointers. Anything else, or an empty collection, is an invalid argument.
func AsCollection(v any) (Collection, error) {
	var out Collection

	switch c := v.(type) {
	case Collection:
		out = c
	case []Record:
		out = Collection(c)
	case []*MapRecord:
		out = make(Collection, len(c))
		for i, r := range c {
			out[i] = r
		}
	case []*AccessorRecord:
		out = make(Collection, len(c))
		for i, r := range c {
			out[i] = r
		}
	case []*StructRecord:
		out = make(Collection, len(c))
		for i, r := range c {
			out[i] = r
		}
	case []map[string]any:
		out = make(Collection, len(c))
		for i, m := range c {
			out[i] = FromMap(m)
		}
	default:
		structs, err := structCollection(v)
		if err != nil {
			return nil, err
		}
		out = structs
	}

	if len(out) == 0 {
		return nil, timezone.NewInvalidArgument("records", "collection is empty")
	}
	for i, r := range out {
		if isNilRecord(r) {
			return nil, timezone.NewInvalidArgument("records", fmt.Sprintf("record %d is nil", i))
		}
	}
	return out, nil
}

func structCollection(v any) (Collection, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Slice {
		return nil, timezone.NewInvalidArgument("records", fmt.Sprintf("%T is not a record collection", v))
	}
	elem := rv.Type().Elem()
	if elem.Kind() != reflect.Pointer || elem.Elem().Kind() != reflect.Struct {
		return nil, timezone.NewInvalidArgument("records", fmt.Sprintf("%T is not a record collection", v))
	}

	out := make(Collection, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		rec, err := NewStructRecord(rv.Index(i).Interface())
		if err != nil {
			return nil, timezone.NewInvalidArgument("records", fmt.Sprintf("record %d: %v", i, err))
		}
		out = append(out, rec)
	}
	return out, nil
}

func isNilRecord(r Record) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return v.IsNil()
	}
	return false
}
