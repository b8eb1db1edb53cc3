package data3d

// Payload accumulates the float32 arrays of the meshes of a buffer file.
// Offsets and lengths are counted in elements.
type Payload struct {
	data []float32
}

// NewPayload returns a payload that holds data. The slice is not copied.
func NewPayload(data []float32) *Payload {
	return &Payload{data: data}
}

// Append appends a to the payload, and returns where it was placed.
func (p *Payload) Append(a []float32) (offset, length int) {
	offset = len(p.data)
	p.data = append(p.data, a...)
	return offset, len(a)
}

// Len returns the number of elements in the payload.
func (p *Payload) Len() int {
	return len(p.data)
}

// Floats returns the content of the payload.
func (p *Payload) Floats() []float32 {
	return p.data
}

// Slice returns a copy of the given range of the payload, or false if the
// range is out of bounds.
func (p *Payload) Slice(offset, length int64) ([]float32, bool) {
	if offset < 0 || length < 0 || offset > int64(len(p.data)) || length > int64(len(p.data))-offset {
		return nil, false
	}
	a := make([]float32, length)
	copy(a, p.data[offset:offset+length])
	return a, true
}
