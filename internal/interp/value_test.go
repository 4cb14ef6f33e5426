package interp

import (
	"testing"

	"github.com/icarus-lang/icarus/internal/types"
)

func TestEncodeDecodeIntRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		v      int64
		width  int
		signed bool
	}{
		{"i8 positive", 42, 1, true},
		{"i8 negative", -42, 1, true},
		{"i32 negative", -1000000, 4, true},
		{"i64 max-ish", 1<<40 - 1, 8, true},
		{"u8", 200, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := encodeInt(tt.v, tt.width)
			if len(enc) != tt.width {
				t.Fatalf("encodeInt width = %d, want %d", len(enc), tt.width)
			}
			got := decodeInt(enc, tt.signed)
			if tt.signed {
				want := int64(int8(tt.v))
				if tt.width > 1 {
					want = tt.v
				}
				if tt.width == 1 && got != want {
					t.Fatalf("decodeInt(encodeInt(%d, 1), signed) = %d, want %d", tt.v, got, want)
				}
				if tt.width > 1 && got != tt.v {
					t.Fatalf("decodeInt(encodeInt(%d, %d), signed) = %d, want %d", tt.v, tt.width, got, tt.v)
				}
			} else {
				if got != tt.v {
					t.Fatalf("decodeInt(encodeInt(%d, %d), unsigned) = %d, want %d", tt.v, tt.width, got, tt.v)
				}
			}
		})
	}
}

func TestEncodeDecodeFloatRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		width int
	}{
		{"f32", 3.5, 4},
		{"f64", -2.25, 8},
		{"f64 large", 1e30, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := encodeFloat(tt.v, tt.width)
			got := decodeFloat(enc)
			if tt.width == 4 {
				if float32(got) != float32(tt.v) {
					t.Fatalf("decodeFloat(encodeFloat(%v, 4)) = %v, want %v", tt.v, got, tt.v)
				}
			} else if got != tt.v {
				t.Fatalf("decodeFloat(encodeFloat(%v, 8)) = %v, want %v", tt.v, got, tt.v)
			}
		})
	}
}

func TestIsFloatIsSignedIsBool(t *testing.T) {
	if !isFloat(types.F64) || isFloat(types.I64) {
		t.Fatal("isFloat must distinguish F64 from I64")
	}
	if !isSigned(types.I32) || isSigned(types.U32) {
		t.Fatal("isSigned must distinguish I32 from U32")
	}
	if !isSigned(types.Char) {
		t.Fatal("Char is treated as signed for decode purposes")
	}
	if !isBool(types.Bool) || isBool(types.I64) {
		t.Fatal("isBool must only report true for types.Bool")
	}
}
