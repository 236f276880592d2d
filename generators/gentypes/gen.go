package gentypes

import (
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	u "github.com/araddon/gou"

	"github.com/lytics/odataql/value"
)

var _ SchemaColumns = (Schema)(nil)

type (
	// SchemaColumns maps filter columns onto store fields. Generators
	// built with a schema reject columns it does not know.
	SchemaColumns interface {
		// ColumnInfo explains how a filter column maps to a store field,
		// or false if the column doesn't exist.
		ColumnInfo(col string) (*FieldType, bool)
	}
	// FieldType describes a store field.
	FieldType struct {
		Field string          // column name as written in filters
		Path  string          // store field name, if different
		Type  value.ValueType // declared type, UnknownType if any
	}
	// Schema is a map backed SchemaColumns.
	Schema map[string]*FieldType

	// Field is a resolved column reference. Generators emit Name where
	// the store expects a field name.
	Field struct {
		Name string
		Info *FieldType
	}

	// Payload is the top level result of a generator walk.
	Payload struct {
		Size   *int                   `json:"size,omitempty"`
		Filter any                    `json:"filter,omitempty"`
		Fields []string               `json:"fields,omitempty"`
		Sort   []map[string]SortOrder `json:"sort,omitempty"`
	}
	// SortOrder of a request
	SortOrder struct {
		Order string `json:"order"`
	}
)

// NewSchema builds a Schema from field types keyed by Field.
func NewSchema(fields ...*FieldType) Schema {
	s := make(Schema, len(fields))
	for _, f := range fields {
		s[f.Field] = f
	}
	return s
}

func (s Schema) ColumnInfo(col string) (*FieldType, bool) {
	ft, ok := s[col]
	return ft, ok
}

// Numeric returns true if field type has numeric values.
func (f *FieldType) Numeric() bool {
	return f.Type == value.NumberType || f.Type == value.IntType
}

// StoreName is Path when set, else Field.
func (f *FieldType) StoreName() string {
	if f.Path != "" {
		return f.Path
	}
	return f.Field
}

func (f *FieldType) String() string {
	return fmt.Sprintf("<ft path=%q field=%q type=%q >", f.Path, f.Field, f.Type.String())
}

func (p *Payload) SortAsc(field string) {
	p.Sort = append(p.Sort, map[string]SortOrder{field: {"asc"}})
}

func (p *Payload) SortDesc(field string) {
	p.Sort = append(p.Sort, map[string]SortOrder{field: {"desc"}})
}

// Resolve turns a filter path into a Field. With a nil schema every
// path resolves to itself.
func Resolve(schema SchemaColumns, path string) (Field, error) {
	if schema == nil {
		return Field{Name: path}, nil
	}
	ft, ok := schema.ColumnInfo(path)
	if !ok || ft == nil {
		return Field{}, MissingField(path)
	}
	return Field{Name: ft.StoreName(), Info: ft}, nil
}

// Native unwraps a literal into the plain go value stores understand.
// Times of day become "HH:MM:SS" strings.
func Native(v value.Value) any {
	if v == nil || v.Nil() {
		return nil
	}
	return v.Value()
}

// Coerce converts a literal to the declared type of the field it is
// compared against. String literals compared to numeric, bool or date
// fields are parsed; anything that fails to parse is left untouched.
func Coerce(f Field, val any) any {
	if f.Info == nil {
		return val
	}
	s, ok := val.(string)
	if !ok {
		return val
	}
	switch f.Info.Type {
	case value.IntType:
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
	case value.NumberType:
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	case value.BoolType:
		if v, err := strconv.ParseBool(s); err == nil {
			return v
		}
	case value.DateType:
		if v, err := dateparse.ParseAny(s); err == nil {
			return v
		}
	default:
		return val
	}
	u.Debugf("%q left as string for %s field %q", s, f.Info.Type, f.Name)
	return val
}

// IsScalar is true for the plain values Native produces.
func IsScalar(v any) bool {
	switch v.(type) {
	case nil, string, int64, float64, bool, time.Time:
		return true
	}
	return false
}
