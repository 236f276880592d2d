package compiler

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/lytics/odataql/value"
)

// GetPath walks a dotted path through nested maps, slices, structs and
// wrapped value.Map or value.Slice containers. It never fails: any missing
// key, bad index, nil hop or denied field yields the nil value.
//
// Map keys match exactly; maps keyed by interface are looked up with the
// string key. Slice segments must be in-range integers.
// Struct segments match the json tag name, then the field name case
// insensitively; unexported fields and segments starting with "_" are
// never traversed.
func GetPath(row any, path string) value.Value {
	cur := reflect.ValueOf(row)
	for _, part := range strings.Split(path, ".") {
		cur = step(cur, part)
		if !cur.IsValid() {
			return value.NilValueVal
		}
	}
	if !cur.CanInterface() {
		return value.NilValueVal
	}
	return value.NewValue(cur.Interface())
}

func step(cur reflect.Value, part string) reflect.Value {
	cur = indirect(cur)
	if !cur.IsValid() {
		return reflect.Value{}
	}
	if cur.CanInterface() {
		switch c := cur.Interface().(type) {
		case value.Map:
			v, ok := c.Get(part)
			if !ok {
				return reflect.Value{}
			}
			return unwrap(v)
		case value.Slice:
			items := c.SliceValue()
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(items) {
				return reflect.Value{}
			}
			return unwrap(items[idx])
		}
	}
	switch cur.Kind() {
	case reflect.Map:
		key := reflect.ValueOf(part)
		switch kt := cur.Type().Key(); kt.Kind() {
		case reflect.String:
			return cur.MapIndex(key.Convert(kt))
		case reflect.Interface:
			if !key.Type().Implements(kt) {
				return reflect.Value{}
			}
			return cur.MapIndex(key)
		}
		return reflect.Value{}
	case reflect.Slice, reflect.Array:
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 || idx >= cur.Len() {
			return reflect.Value{}
		}
		return cur.Index(idx)
	case reflect.Struct:
		if strings.HasPrefix(part, "_") {
			return reflect.Value{}
		}
		return structField(cur, part)
	}
	return reflect.Value{}
}

// unwrap keeps containers wrapped so the next hop can use their accessors;
// scalars go back to their native form.
func unwrap(v value.Value) reflect.Value {
	if v == nil {
		return reflect.Value{}
	}
	switch v.(type) {
	case value.Map, value.Slice:
		return reflect.ValueOf(v)
	}
	return reflect.ValueOf(v.Value())
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func structField(v reflect.Value, name string) reflect.Value {
	var byName *reflect.StructField
	for _, f := range reflect.VisibleFields(v.Type()) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if tag == "-" {
			continue
		}
		if tag == name {
			return fieldByIndex(v, f.Index)
		}
		if byName == nil && tag == "" && strings.EqualFold(f.Name, name) {
			fc := f
			byName = &fc
		}
	}
	if byName != nil {
		return fieldByIndex(v, byName.Index)
	}
	return reflect.Value{}
}

func fieldByIndex(v reflect.Value, index []int) reflect.Value {
	fv, err := v.FieldByIndexErr(index)
	if err != nil {
		return reflect.Value{}
	}
	return fv
}
