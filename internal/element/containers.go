package element

import "sort"

// OrderedMap is a string-keyed container whose traversal order is
// insertion order (spec §6.7: "insertion order for maps with
// insertion-order semantics"). Containers never alias: a child added here
// is owned by this map until removed or overwritten.
type OrderedMap struct {
	Base
	keys   []string
	values map[string]Node
}

func NewOrderedMap(id FieldID, name string) *OrderedMap {
	return &OrderedMap{
		Base:   newBase(id, name, KindMap),
		values: make(map[string]Node),
	}
}

// Set inserts or overwrites key -> v, appending to the insertion order only
// on first insert.
func (m *OrderedMap) Set(key string, v Node) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	m.dirty = true
}

func (m *OrderedMap) Get(key string) (Node, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *OrderedMap) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	m.dirty = true
}

// Keys returns keys in insertion order, matching traversal order.
func (m *OrderedMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *OrderedMap) Len() int { return len(m.keys) }

// IntMap is keyed by int64, traversed in ascending key order (spec §6.7:
// "ascending key order for numeric-keyed maps").
type IntMap struct {
	Base
	values map[int64]Node
}

func NewIntMap(id FieldID, name string) *IntMap {
	return &IntMap{Base: newBase(id, name, KindIntMap), values: make(map[int64]Node)}
}

func (m *IntMap) Set(key int64, v Node) {
	m.values[key] = v
	m.dirty = true
}

func (m *IntMap) Get(key int64) (Node, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *IntMap) Delete(key int64) {
	if _, ok := m.values[key]; ok {
		delete(m.values, key)
		m.dirty = true
	}
}

// Keys returns keys in ascending order, matching traversal order.
func (m *IntMap) Keys() []int64 {
	out := make([]int64, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (m *IntMap) Len() int { return len(m.values) }

// MacMap is keyed by Mac, traversed in ascending numeric key order.
type MacMap struct {
	Base
	values map[Mac]Node
}

func NewMacMap(id FieldID, name string) *MacMap {
	return &MacMap{Base: newBase(id, name, KindMacMap), values: make(map[Mac]Node)}
}

func (m *MacMap) Set(key Mac, v Node) {
	m.values[key] = v
	m.dirty = true
}

func (m *MacMap) Get(key Mac) (Node, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *MacMap) Keys() []Mac {
	out := make([]Mac, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (m *MacMap) Len() int { return len(m.values) }

// DoubleMap is keyed by float64, traversed in ascending key order. Used by
// freq_khz_map (packets seen per frequency in kHz).
type DoubleMap struct {
	Base
	values map[float64]Node
}

func NewDoubleMap(id FieldID, name string) *DoubleMap {
	return &DoubleMap{Base: newBase(id, name, KindDoubleMap), values: make(map[float64]Node)}
}

func (m *DoubleMap) Set(key float64, v Node) {
	m.values[key] = v
	m.dirty = true
}

func (m *DoubleMap) Get(key float64) (Node, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *DoubleMap) Keys() []float64 {
	out := make([]float64, 0, len(m.values))
	for k := range m.values {
		out = append(out, k)
	}
	sort.Float64s(out)
	return out
}

func (m *DoubleMap) Len() int { return len(m.values) }

// Slice is an ordered sequence container.
type Slice struct {
	Base
	values []Node
}

func NewSlice(id FieldID, name string) *Slice {
	return &Slice{Base: newBase(id, name, KindSlice)}
}

func (s *Slice) Append(v Node) {
	s.values = append(s.values, v)
	s.dirty = true
}

func (s *Slice) At(i int) Node { return s.values[i] }
func (s *Slice) Len() int      { return len(s.values) }

func (s *Slice) All() []Node {
	out := make([]Node, len(s.values))
	copy(out, s.values)
	return out
}

// Set is an insertion-ordered, uniqued sequence container, deduplicated by
// the stringer's Name()+value rendering is not available generically, so
// Set dedups by an explicit caller-supplied key.
type Set struct {
	Base
	order  []string
	values map[string]Node
}

func NewSet(id FieldID, name string) *Set {
	return &Set{Base: newBase(id, name, KindSet), values: make(map[string]Node)}
}

// Add inserts v under dedup key, a no-op if key is already present.
func (s *Set) Add(key string, v Node) {
	if _, exists := s.values[key]; exists {
		return
	}
	s.order = append(s.order, key)
	s.values[key] = v
	s.dirty = true
}

func (s *Set) Contains(key string) bool {
	_, ok := s.values[key]
	return ok
}

func (s *Set) All() []Node {
	out := make([]Node, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.values[k])
	}
	return out
}

func (s *Set) Len() int { return len(s.order) }
