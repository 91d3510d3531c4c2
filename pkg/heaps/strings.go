// Package heaps implements the four append-and-dedup byte stores that
// back a metadata module's #Strings, #US, #Guid, and #Blob streams
// (ECMA-335 §II.24.2.3). Each exposes an Add that returns a stable
// offset (or 1-based index, for #Guid); duplicate content returns the
// offset of the first occurrence.
package heaps

// StringHeap is the #Strings stream: UTF-8, null-terminated, deduped by
// content. Offset 0 is always the empty string.
type StringHeap struct {
	buf     []byte
	offsets map[string]uint32
}

// NewStringHeap returns a heap seeded with the mandatory empty string at
// offset 0.
func NewStringHeap() *StringHeap {
	h := &StringHeap{offsets: make(map[string]uint32)}
	h.buf = append(h.buf, 0x00)
	h.offsets[""] = 0
	return h
}

// Add appends s if not already present and returns its offset. The
// empty string always returns 0.
func (h *StringHeap) Add(s string) uint32 {
	if s == "" {
		return 0
	}
	if off, ok := h.offsets[s]; ok {
		return off
	}
	off := uint32(len(h.buf))
	h.buf = append(h.buf, []byte(s)...)
	h.buf = append(h.buf, 0x00)
	h.offsets[s] = off
	return off
}

// Seed loads raw is preserved-heap content verbatim as the heap's
// initial bytes for token-preservation mode (spec.md §4.1). Subsequent
// Add calls append beyond the end without disturbing offsets already
// handed out for the seeded content. Seed must be called before any Add.
func (h *StringHeap) Seed(raw []byte) {
	h.buf = append([]byte(nil), raw...)
	if len(h.buf) == 0 {
		h.buf = append(h.buf, 0x00)
	}
	h.offsets = make(map[string]uint32)
	h.offsets[""] = 0
	// Re-index every null-terminated run in the seeded bytes so a
	// preserved Add(s) for a string already present returns its
	// original offset instead of appending a duplicate.
	start := uint32(0)
	for i, b := range h.buf {
		if b == 0x00 {
			if i > int(start) {
				h.offsets[string(h.buf[start:i])] = start
			}
			start = uint32(i + 1)
		}
	}
}

// Bytes returns the accumulated heap content.
func (h *StringHeap) Bytes() []byte { return h.buf }

// Len returns the current heap size in bytes.
func (h *StringHeap) Len() int { return len(h.buf) }
