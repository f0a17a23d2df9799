package watarray

// Builder builds WatArray from an integer array.
// A user calls PushBack()s followed by Build().
type Builder struct {
	vals []uint64
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{vals: make([]uint64, 0)}
}

// PushBack appends val to the end of T
func (wab *Builder) PushBack(val uint64) {
	wab.vals = append(wab.vals, val)
}

// Len returns the number of values pushed so far
func (wab *Builder) Len() int {
	return len(wab.vals)
}

// Build returns a WatArray holding the values pushed so far.
// The Builder can keep accepting values afterwards.
func (wab *Builder) Build() (*WatArray, error) {
	return New(wab.vals)
}
