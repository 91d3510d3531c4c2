package heaps

import (
	"testing"

	"github.com/google/uuid"
)

func TestStringHeapDedup(t *testing.T) {
	h := NewStringHeap()
	if off := h.Add(""); off != 0 {
		t.Fatalf("empty string offset = %d, want 0", off)
	}
	a := h.Add("Hello")
	b := h.Add("World")
	c := h.Add("Hello")
	if a != c {
		t.Fatalf("duplicate Add(%q) returned %d, want %d", "Hello", c, a)
	}
	if a == b {
		t.Fatalf("distinct strings collided at offset %d", a)
	}
}

func TestStringHeapSeedPreservesOffsets(t *testing.T) {
	h := NewStringHeap()
	off := h.Add("Foo")
	raw := h.Bytes()

	h2 := NewStringHeap()
	h2.Seed(raw)
	if got := h2.Add("Foo"); got != off {
		t.Fatalf("seeded Add(%q) = %d, want original offset %d", "Foo", got, off)
	}
}

func TestUserStringTerminatorByte(t *testing.T) {
	h := NewUserStringHeap()
	off := h.Add("ok")
	buf := h.Bytes()
	// length prefix is 1 byte (5 = 2 chars * 2 + 1), content follows.
	term := buf[off+1+4]
	if term != 0 {
		t.Fatalf("plain ascii string got terminator marker %d, want 0", term)
	}

	off2 := h.Add("a\x01b")
	buf = h.Bytes()
	term2 := buf[off2+1+6]
	if term2 != 1 {
		t.Fatalf("string with control char got terminator marker %d, want 1", term2)
	}
}

func TestUserStringEmptyReturnsZero(t *testing.T) {
	h := NewUserStringHeap()
	if off := h.Add(""); off != 0 {
		t.Fatalf("Add(\"\") = %d, want 0", off)
	}
}

func TestGuidHeapDedupAndIndex(t *testing.T) {
	h := NewGuidHeap()
	if idx := h.Add(uuid.Nil); idx != 0 {
		t.Fatalf("Add(Nil) = %d, want 0", idx)
	}
	g1 := uuid.New()
	g2 := uuid.New()
	i1 := h.Add(g1)
	i2 := h.Add(g2)
	i1again := h.Add(g1)
	if i1 != i1again {
		t.Fatalf("duplicate GUID returned %d, want %d", i1again, i1)
	}
	if i1 == i2 {
		t.Fatalf("distinct GUIDs collided at index %d", i1)
	}
	if i1 != 1 || i2 != 2 {
		t.Fatalf("indices = %d, %d, want 1-based sequence", i1, i2)
	}
}

func TestBlobHeapDedup(t *testing.T) {
	h := NewBlobHeap()
	if off := h.Add(nil); off != 0 {
		t.Fatalf("Add(nil) = %d, want 0", off)
	}
	a := h.Add([]byte{0x06, 0x08})
	b := h.Add([]byte{0x06, 0x08})
	c := h.Add([]byte{0x06, 0x09})
	if a != b {
		t.Fatalf("duplicate blob returned %d, want %d", b, a)
	}
	if a == c {
		t.Fatalf("distinct blobs collided at offset %d", a)
	}
}
