package bodycodec

import "bytes"

// BinaryPool deduplicates attachment content into Meta-level pool entries
// referenced by integer index from Entry <Binary Ref="i"> elements (spec
// §4.6).
type BinaryPool struct {
	data [][]byte
}

// AddOrGet returns the pool index for data, appending a new pool entry only
// if an identical blob isn't already present.
func (p *BinaryPool) AddOrGet(data []byte) int {
	for i, existing := range p.data {
		if bytes.Equal(existing, data) {
			return i
		}
	}
	p.data = append(p.data, data)
	return len(p.data) - 1
}

// Get returns pool entry i.
func (p *BinaryPool) Get(i int) ([]byte, bool) {
	if i < 0 || i >= len(p.data) {
		return nil, false
	}
	return p.data[i], true
}

// All returns the pool contents in index order.
func (p *BinaryPool) All() [][]byte {
	return p.data
}

// Append adds data unconditionally during decode, where pool indices come
// directly from the document rather than being assigned by content.
func (p *BinaryPool) Append(data []byte) int {
	p.data = append(p.data, data)
	return len(p.data) - 1
}
