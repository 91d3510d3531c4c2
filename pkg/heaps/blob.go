package heaps

import (
	"github.com/appsworld/clrmeta/types"
)

// BlobHeap is the #Blob stream: length-prefixed byte sequences, deduped
// by content. Offset 0 is always the empty blob.
type BlobHeap struct {
	buf     []byte
	offsets map[string]uint32
}

// NewBlobHeap returns a heap seeded with the mandatory empty blob at offset 0.
func NewBlobHeap() *BlobHeap {
	h := &BlobHeap{offsets: make(map[string]uint32)}
	h.buf = append(h.buf, 0x00)
	h.offsets[""] = 0
	return h
}

// Add appends content length-prefixed with a compressed unsigned integer
// if not already present, and returns its offset. A nil or empty slice
// always returns 0.
func (h *BlobHeap) Add(content []byte) uint32 {
	if len(content) == 0 {
		return 0
	}
	key := string(content)
	if off, ok := h.offsets[key]; ok {
		return off
	}
	off := uint32(len(h.buf))
	h.buf = types.CompressUint(h.buf, uint32(len(content)))
	h.buf = append(h.buf, content...)
	h.offsets[key] = off
	return off
}

// Seed loads raw preserved #Blob content verbatim. Preserved entries are
// not re-indexed by content (blob boundaries aren't self-delimiting
// without a full walk); preservation mode relies on the original
// offsets recorded by the upstream parser instead.
func (h *BlobHeap) Seed(raw []byte) {
	h.buf = append([]byte(nil), raw...)
	if len(h.buf) == 0 {
		h.buf = append(h.buf, 0x00)
	}
	h.offsets = make(map[string]uint32)
	h.offsets[""] = 0
}

// Bytes returns the accumulated heap content.
func (h *BlobHeap) Bytes() []byte { return h.buf }

// Len returns the current heap size in bytes.
func (h *BlobHeap) Len() int { return len(h.buf) }
