package coapmsg

import (
	"bytes"
	"testing"

	cerr "github.com/coalalib/coapmsg/errors"
)

func TestUintValueCanonicalEncoding(t *testing.T) {
	tests := []struct {
		name  string
		value uint32
		want  []byte
	}{
		{"zero", 0, nil},
		{"one byte", 255, []byte{0xff}},
		{"two bytes", 256, []byte{0x01, 0x00}},
		{"two bytes max", 65535, []byte{0xff, 0xff}},
		{"three bytes", 65536, []byte{0x01, 0x00, 0x00}},
		{"four bytes", 16777216, []byte{0x01, 0x00, 0x00, 0x00}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UintValue(tt.value).Encode()
			if !bytes.Equal(got, tt.want) {
				t.Errorf("UintValue(%d).Encode() = %v, want %v", tt.value, got, tt.want)
			}
			if UintValue(tt.value).Length() != len(tt.want) {
				t.Errorf("UintValue(%d).Length() = %d, want %d", tt.value, UintValue(tt.value).Length(), len(tt.want))
			}
		})
	}
}

func TestDecodeIntAbsentBytesMeanZero(t *testing.T) {
	v, err := decodeInt(nil)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0 {
		t.Errorf("decodeInt(nil) = %d, want 0", v)
	}
}

func TestDecodeIntTooLong(t *testing.T) {
	if _, err := decodeInt([]byte{1, 2, 3, 4, 5}); err != cerr.UintOptionTooLong {
		t.Errorf("expected UintOptionTooLong, got %v", err)
	}
}

func TestBlockPacking(t *testing.T) {
	tests := []struct {
		name  string
		block *Block
		want  int
	}{
		{"first block more", NewBlock(true, 0, 2), 0x0a},
		{"first block last", NewBlock(false, 0, 2), 0x02},
		{"block one", NewBlock(true, 1, 6), 0x1e},
		{"large number", NewBlock(false, 1337, 4), 1337<<4 | 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.ToInt(); got != tt.want {
				t.Errorf("ToInt() = %#x, want %#x", got, tt.want)
			}
			back := NewBlockFromInt(tt.block.ToInt())
			if *back != *tt.block {
				t.Errorf("FromInt(ToInt()) = %+v, want %+v", back, tt.block)
			}
		})
	}
}

func TestBlockSize(t *testing.T) {
	sizes := map[int]int{0: 16, 2: 64, 6: 1024, 7: 2048}
	for szx, want := range sizes {
		if got := NewBlock(false, 0, szx).Size(); got != want {
			t.Errorf("Size() for szx %d = %d, want %d", szx, got, want)
		}
	}
}

// The block option length follows the same minimal-uint rule as plain
// uint options, not a bit-length approximation.
func TestBlockLengthIsCanonical(t *testing.T) {
	tests := []struct {
		block *Block
		want  int
	}{
		{NewBlock(false, 0, 0), 0},
		{NewBlock(true, 0, 2), 1},
		{NewBlock(false, 15, 2), 1},
		{NewBlock(false, 16, 2), 2},
		{NewBlock(false, 4095, 7), 2},
		{NewBlock(false, 4096, 0), 3},
	}
	for _, tt := range tests {
		if got := tt.block.Length(); got != tt.want {
			t.Errorf("Length() of %+v = %d, want %d", tt.block, got, tt.want)
		}
		if got := len(tt.block.Encode()); got != tt.want {
			t.Errorf("len(Encode()) of %+v = %d, want %d", tt.block, got, tt.want)
		}
	}
}

func TestDecodeOptionValueFormats(t *testing.T) {
	v, err := decodeOptionValue(OptionContentFormat, []byte{0x32})
	if err != nil {
		t.Fatal(err)
	}
	if uv, ok := v.(UintValue); !ok || uv != 50 {
		t.Errorf("Content-Format decoded as %T %v, want UintValue(50)", v, v)
	}

	v, err = decodeOptionValue(OptionBlock2, []byte{0x1e})
	if err != nil {
		t.Fatal(err)
	}
	block, ok := v.(*Block)
	if !ok {
		t.Fatalf("Block2 decoded as %T, want *Block", v)
	}
	if block.BlockNumber != 1 || !block.MoreBlocks || block.SizeExponent != 6 {
		t.Errorf("Block2 decoded as %+v", block)
	}

	v, err = decodeOptionValue(OptionURIPath, []byte("sensors"))
	if err != nil {
		t.Fatal(err)
	}
	if ov, ok := v.(OpaqueValue); !ok || string(ov) != "sensors" {
		t.Errorf("Uri-Path decoded as %T %v, want OpaqueValue", v, v)
	}

	// Unregistered numbers fall back to opaque.
	v, err = decodeOptionValue(OptionCode(9999), []byte{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := v.(OpaqueValue); !ok {
		t.Errorf("unknown option decoded as %T, want OpaqueValue", v)
	}
}
