package heaps

import (
	"unicode/utf16"

	"github.com/appsworld/clrmeta/types"
)

// UserStringHeap is the #US stream: length-prefixed UTF-16LE strings
// with a trailing marker byte (ECMA-335 §II.24.2.4). Offset 0 is
// reserved and never returned for real content.
type UserStringHeap struct {
	buf     []byte
	offsets map[string]uint32
}

// NewUserStringHeap returns a heap with the reserved zero byte at offset 0.
func NewUserStringHeap() *UserStringHeap {
	h := &UserStringHeap{offsets: make(map[string]uint32)}
	h.buf = append(h.buf, 0x00)
	return h
}

// Add appends s (encoded UTF-16LE, length-prefixed, terminator-suffixed)
// if not already present, and returns its offset.
func (h *UserStringHeap) Add(s string) uint32 {
	if s == "" {
		return 0
	}
	if off, ok := h.offsets[s]; ok {
		return off
	}
	units := utf16.Encode([]rune(s))
	content := make([]byte, len(units)*2+1)
	terminator := byte(0)
	for i, u := range units {
		content[i*2] = byte(u)
		content[i*2+1] = byte(u >> 8)
		if needsTerminatorMarker(u) {
			terminator = 1
		}
	}
	content[len(content)-1] = terminator

	off := uint32(len(h.buf))
	h.buf = types.CompressUint(h.buf, uint32(len(content)))
	h.buf = append(h.buf, content...)
	h.offsets[s] = off
	return off
}

// needsTerminatorMarker implements the ECMA-335 §II.24.2.4 rule: the
// trailing byte is 1 if any UTF-16 code unit has a nonzero high byte, or
// its low byte falls in a specific "requires roundtrip" set.
func needsTerminatorMarker(u uint16) bool {
	if u>>8 != 0 {
		return true
	}
	low := byte(u)
	switch {
	case low >= 0x01 && low <= 0x08:
		return true
	case low >= 0x0E && low <= 0x1F:
		return true
	case low == 0x27, low == 0x2D, low == 0x7F:
		return true
	default:
		return false
	}
}

// Seed loads raw preserved-heap content verbatim as the heap's initial
// bytes (spec.md §4.1). Must be called before any Add. The dedup index
// is left empty: preserved entries are looked up by the caller via their
// original offsets, not re-discovered by content, since #US entries
// aren't as cheaply re-scanned as null-terminated #Strings entries.
func (h *UserStringHeap) Seed(raw []byte) {
	h.buf = append([]byte(nil), raw...)
	if len(h.buf) == 0 {
		h.buf = append(h.buf, 0x00)
	}
	h.offsets = make(map[string]uint32)
}

// Bytes returns the accumulated heap content.
func (h *UserStringHeap) Bytes() []byte { return h.buf }

// Len returns the current heap size in bytes.
func (h *UserStringHeap) Len() int { return len(h.buf) }
