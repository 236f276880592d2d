package value

import (
	"encoding/json"
	"sort"
)

func NewMapValue(v map[string]any) MapValue {
	return MapValue{v: v}
}

func (m MapValue) Nil() bool                    { return false }
func (m MapValue) Type() ValueType              { return MapValueType }
func (m MapValue) Value() any                   { return m.v }
func (m MapValue) Val() map[string]any          { return m.v }
func (m MapValue) Len() int                     { return len(m.v) }
func (m MapValue) MarshalJSON() ([]byte, error) { return json.Marshal(m.v) }
func (m MapValue) ToString() string {
	by, err := m.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(by)
}

// Get of a key holding an explicit nil returns (NilValue, true).
func (m MapValue) Get(key string) (Value, bool) {
	raw, ok := m.v[key]
	if !ok {
		return nil, false
	}
	return NewValue(raw), true
}

// Keys in sorted order.
func (m MapValue) Keys() []string {
	keys := make([]string, 0, len(m.v))
	for k := range m.v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
