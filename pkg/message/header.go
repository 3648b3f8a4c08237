package message

import "strings"

// Header is an ordered, case-insensitive mapping from header name to a list
// of values. The spelling of a name is taken from its first insertion and
// every value is kept individually, so repeated names are never collapsed.
type Header struct {
	names  []string            // first-seen spelling, insertion order
	index  map[string]int      // lower-cased name -> position in names
	values map[string][]string // lower-cased name -> values
}

// NewHeader builds a Header from a plain map. Map iteration order is not
// significant, so names are inserted in sorted order to keep the result
// deterministic.
func NewHeader(m map[string][]string) Header {
	var h Header
	for _, name := range sortedKeys(m) {
		for _, v := range m[name] {
			h.Add(name, v)
		}
	}
	return h
}

// Add appends value to the values already stored for name.
func (h *Header) Add(name, value string) {
	key := strings.ToLower(name)
	if h.index == nil {
		h.index = make(map[string]int)
		h.values = make(map[string][]string)
	}
	if _, ok := h.index[key]; !ok {
		h.index[key] = len(h.names)
		h.names = append(h.names, name)
	}
	h.values[key] = append(h.values[key], value)
}

// Set replaces all values stored for name.
func (h *Header) Set(name, value string) {
	h.Del(name)
	h.Add(name, value)
}

// Del removes name and all of its values.
func (h *Header) Del(name string) {
	key := strings.ToLower(name)
	pos, ok := h.index[key]
	if !ok {
		return
	}
	h.names = append(h.names[:pos:pos], h.names[pos+1:]...)
	delete(h.index, key)
	delete(h.values, key)
	for i := pos; i < len(h.names); i++ {
		h.index[strings.ToLower(h.names[i])] = i
	}
}

// Get returns the first value stored for name, or "".
func (h Header) Get(name string) string {
	if vs := h.values[strings.ToLower(name)]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Has reports whether name is present.
func (h Header) Has(name string) bool {
	_, ok := h.index[strings.ToLower(name)]
	return ok
}

// Values returns a copy of every value stored for name.
func (h Header) Values(name string) []string {
	vs := h.values[strings.ToLower(name)]
	if vs == nil {
		return nil
	}
	return append([]string(nil), vs...)
}

// Names returns the header names in insertion order.
func (h Header) Names() []string {
	return append([]string(nil), h.names...)
}

// Len returns the number of individual name/value pairs.
func (h Header) Len() int {
	n := 0
	for _, vs := range h.values {
		n += len(vs)
	}
	return n
}

// Each calls fn once per name/value pair, grouped by name in insertion order.
func (h Header) Each(fn func(name, value string)) {
	for _, name := range h.names {
		for _, v := range h.values[strings.ToLower(name)] {
			fn(name, v)
		}
	}
}

// Map returns the header as a plain map keyed by the stored spelling.
func (h Header) Map() map[string][]string {
	m := make(map[string][]string, len(h.names))
	for _, name := range h.names {
		m[name] = h.Values(name)
	}
	return m
}

// Clone returns a deep copy of h.
func (h Header) Clone() Header {
	var c Header
	h.Each(c.Add)
	return c
}
