package heaps

import "github.com/google/uuid"

// GuidHeap is the #Guid stream: a 1-based index vector of 16-byte GUIDs,
// deduped by value. Offset 0 / the zero GUID both mean "none".
type GuidHeap struct {
	guids   []uuid.UUID
	indices map[uuid.UUID]uint32
}

// NewGuidHeap returns an empty heap.
func NewGuidHeap() *GuidHeap {
	return &GuidHeap{indices: make(map[uuid.UUID]uint32)}
}

// Add returns g's 1-based index, inserting it if not already present.
// The zero-value (nil) GUID always returns 0.
func (h *GuidHeap) Add(g uuid.UUID) uint32 {
	if g == uuid.Nil {
		return 0
	}
	if idx, ok := h.indices[g]; ok {
		return idx
	}
	h.guids = append(h.guids, g)
	idx := uint32(len(h.guids))
	h.indices[g] = idx
	return idx
}

// Seed loads raw preserved #Guid content (a flat sequence of 16-byte
// entries) verbatim, re-indexing each entry so a later Add for a
// preserved GUID returns its original 1-based index.
func (h *GuidHeap) Seed(raw []byte) {
	h.guids = nil
	h.indices = make(map[uuid.UUID]uint32)
	for off := 0; off+16 <= len(raw); off += 16 {
		var g uuid.UUID
		copy(g[:], raw[off:off+16])
		h.guids = append(h.guids, g)
		h.indices[g] = uint32(len(h.guids))
	}
}

// Bytes returns the heap's flattened 16-byte-per-entry content.
func (h *GuidHeap) Bytes() []byte {
	out := make([]byte, 0, len(h.guids)*16)
	for _, g := range h.guids {
		out = append(out, g[:]...)
	}
	return out
}

// Len returns the number of GUID entries stored.
func (h *GuidHeap) Len() int { return len(h.guids) }
