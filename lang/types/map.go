package types

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"
	"github.com/mna/lilypad/lang/hashing"
)

// A Map represents a map or dictionary. Keys must be of a hashable type (nil,
// bool, int, float, string or bytes). Iteration order is the insertion order
// of the keys. If you know the exact final number of entries, it is more
// efficient to call NewMap with that size.
type Map struct {
	m    *swiss.Map[Value, Value]
	keys []Value
}

// MapTypeID is the type identity token of *Map.
var MapTypeID = hashing.NewTypeID("map")

var (
	_ Value    = (*Map)(nil)
	_ Cloner   = (*Map)(nil)
	_ Iterable = (*Map)(nil)
)

// NewMap returns a map with initial capacity for at least size items.
func NewMap(size int) *Map {
	m := swiss.NewMap[Value, Value](uint32(size))
	return &Map{m: m, keys: make([]Value, 0, size)}
}

func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, _ := m.m.Get(k)
		sb.WriteString(k.String())
		sb.WriteString(": ")
		sb.WriteString(v.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (m *Map) Type() string           { return "map" }
func (m *Map) TypeID() hashing.TypeID { return MapTypeID }
func (m *Map) Len() int               { return m.m.Count() }

// Get returns the value associated with k and true, or nil and false if k is
// not in the map.
func (m *Map) Get(k Value) (Value, bool, error) {
	if err := checkHashable(k); err != nil {
		return nil, false, err
	}
	v, ok := m.m.Get(k)
	return v, ok, nil
}

// SetKey associates v with k in the map.
func (m *Map) SetKey(k, v Value) error {
	if err := checkHashable(k); err != nil {
		return err
	}
	if !m.m.Has(k) {
		m.keys = append(m.keys, k)
	}
	m.m.Put(k, v)
	return nil
}

// Keys returns the keys of the map in insertion order. The caller must not
// modify the returned slice.
func (m *Map) Keys() []Value { return m.keys }

// Clone returns a shallow copy of the map.
func (m *Map) Clone() Value {
	c := NewMap(len(m.keys))
	for _, k := range m.keys {
		v, _ := m.m.Get(k)
		c.keys = append(c.keys, k)
		c.m.Put(k, v)
	}
	return c
}

// Iterate returns an iterator over the keys of the map, in insertion order.
func (m *Map) Iterate() Iterator {
	return &mapIterator{keys: m.keys}
}

type mapIterator struct {
	keys []Value
}

func (it *mapIterator) Next(p *Value) bool {
	if len(it.keys) > 0 {
		*p = it.keys[0]
		it.keys = it.keys[1:]
		return true
	}
	return false
}

func (it *mapIterator) Done() {}

func checkHashable(k Value) error {
	switch k.(type) {
	case NilType, Bool, Int, Float, String, Bytes:
		return nil
	case nil:
		return fmt.Errorf("invalid map key: nil interface")
	default:
		return fmt.Errorf("unhashable map key type: %s", k.Type())
	}
}
