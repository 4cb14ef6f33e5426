// Package interp executes the Subroutines internal/ir builds: a byte-stack
// interpreter over register frames, plus the compile-time constant
// Evaluator that internal/compiler's Instantiator and WorkResources call
// back into (wired together in pkg/icarus to avoid an import cycle).
package interp

import (
	"encoding/binary"
	"math"

	"github.com/icarus-lang/icarus/internal/types"
)

// decodeInt interprets bytes as a little-endian integer, sign-extending if
// signed reports true.
func decodeInt(b []byte, signed bool) int64 {
	var u uint64
	for i := len(b) - 1; i >= 0; i-- {
		u = u<<8 | uint64(b[i])
	}
	if !signed || len(b) >= 8 {
		return int64(u)
	}
	shift := uint(64 - 8*len(b))
	return int64(u<<shift) >> shift
}

func encodeInt(v int64, width int) []byte {
	buf := make([]byte, width)
	u := uint64(v)
	for i := 0; i < width; i++ {
		buf[i] = byte(u)
		u >>= 8
	}
	return buf
}

func decodeFloat(b []byte) float64 {
	if len(b) == 4 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	buf := make([]byte, 8)
	copy(buf, b)
	return math.Float64frombits(binary.LittleEndian.Uint64(buf))
}

func encodeFloat(v float64, width int) []byte {
	buf := make([]byte, width)
	if width == 4 {
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(v)))
		return buf
	}
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	return buf
}

func isFloat(t types.Type) bool {
	p, ok := t.(*types.Primitive)
	return ok && p.IsFloat()
}

func isSigned(t types.Type) bool {
	p, ok := t.(*types.Primitive)
	return ok && (p.IsSigned() || p == types.Char)
}

func isBool(t types.Type) bool {
	return t == types.Bool
}
