package clrmeta

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"

	"go.uber.org/zap"

	"github.com/appsworld/clrmeta/graph"
	"github.com/appsworld/clrmeta/types"
)

// encodeConstantValue implements spec.md §4.6.3: the little-endian raw
// bytes of c.Value, sized by c.Type. A value kind that disagrees with
// the declared ElementType is a graph warning, not a fatal error; an
// unrecognized ElementType falls back to 8 zero bytes.
func encodeConstantValue(c *graph.Constant) []byte {
	switch types.ElementType(c.Type) {
	case types.ElementTypeBoolean:
		v, ok := c.Value.(bool)
		warnIfMismatch(ok, c)
		if v {
			return []byte{1}
		}
		return []byte{0}
	case types.ElementTypeChar:
		return le16(constantUint(c))
	case types.ElementTypeI1, types.ElementTypeU1:
		return []byte{byte(constantUint(c))}
	case types.ElementTypeI2, types.ElementTypeU2:
		return le16(constantUint(c))
	case types.ElementTypeI4, types.ElementTypeU4:
		return le32(uint32(constantUint(c)))
	case types.ElementTypeI8, types.ElementTypeU8:
		return le64(constantUint(c))
	case types.ElementTypeR4:
		f, ok := c.Value.(float32)
		warnIfMismatch(ok, c)
		return le32(math.Float32bits(f))
	case types.ElementTypeR8:
		f, ok := c.Value.(float64)
		warnIfMismatch(ok, c)
		return le64(math.Float64bits(f))
	case types.ElementTypeString:
		s, ok := c.Value.(string)
		warnIfMismatch(ok, c)
		units := utf16.Encode([]rune(s))
		buf := make([]byte, len(units)*2)
		for i, u := range units {
			binary.LittleEndian.PutUint16(buf[i*2:], u)
		}
		return buf
	case types.ElementTypeClass:
		return make([]byte, 4) // null reference, always 4 zero bytes
	default:
		Logger().Warn("constant with unrecognized ElementType", zap.Uint8("type", c.Type))
		return make([]byte, 8)
	}
}

// constantUint coerces c.Value's underlying signed/unsigned/rune kind to
// a uint64 for little-endian truncation by the caller; a kind that
// doesn't fit any integer type logs the same mismatch warning and
// returns 0.
func constantUint(c *graph.Constant) uint64 {
	switch v := c.Value.(type) {
	case int8:
		return uint64(uint8(v))
	case uint8:
		return uint64(v)
	case int16:
		return uint64(uint16(v))
	case uint16:
		return uint64(v)
	case int32:
		return uint64(uint32(v))
	case uint32:
		return uint64(v)
	case int64:
		return uint64(v)
	case uint64:
		return v
	default:
		warnIfMismatch(false, c)
		return 0
	}
}

func warnIfMismatch(ok bool, c *graph.Constant) {
	if !ok {
		Logger().Warn("constant value kind disagrees with declared ElementType",
			zap.Uint8("declaredType", c.Type), zap.String("goType", fmt.Sprintf("%T", c.Value)))
	}
}

func le16(v uint64) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return b
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}
