// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package bitpack

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriterPacksMostSignificantFirst(t *testing.T) {
	var writer Writer
	for _, bit := range []uint8{1, 0, 1, 1} {
		writer.WriteBit(bit)
	}

	packed, count := Pack(writer.Bits())
	if count != 4 {
		t.Fatalf("expected 4 bits, got %d", count)
	}
	if !bytes.Equal(packed, []byte{0xb0}) {
		t.Fatalf("expected packed 0xb0, got %x", packed)
	}
}

func TestPackZeroPadsFinalByte(t *testing.T) {
	bits, err := ParseString("0000")
	if err != nil {
		t.Fatal(err)
	}
	packed, count := Pack(bits)
	if count != 4 || len(packed) != 1 || packed[0] != 0 {
		t.Fatalf("expected one zero byte with 4 bits, got %x (%d bits)", packed, count)
	}
}

func TestPackExactByteBoundaries(t *testing.T) {
	tests := []struct {
		text      string
		wantBytes int
	}{
		{"", 0},
		{"1", 1},
		{"11111111", 1},
		{"111111111", 2},
		{"0101010101010101", 2},
	}
	for _, test := range tests {
		bits, err := ParseString(test.text)
		if err != nil {
			t.Fatal(err)
		}
		packed, count := Pack(bits)
		if len(packed) != test.wantBytes {
			t.Errorf("%q: expected %d bytes, got %d", test.text, test.wantBytes, len(packed))
		}
		if count != uint64(len(test.text)) {
			t.Errorf("%q: expected count %d, got %d", test.text, len(test.text), count)
		}
	}
}

func TestUnpackRoundTrip(t *testing.T) {
	for _, text := range []string{"", "0", "1", "10110", "11110000", "101100111000111100001"} {
		bits, err := ParseString(text)
		if err != nil {
			t.Fatal(err)
		}
		packed, count := Pack(bits)

		unpacked, err := Unpack(packed, count)
		if err != nil {
			t.Fatalf("%q: Unpack failed: %v", text, err)
		}
		if got := unpacked.String(); got != text {
			t.Errorf("round trip: expected %q, got %q", text, got)
		}
	}
}

func TestUnpackDiscardsPadBits(t *testing.T) {
	// 0xbf = 1011 1111: only the first 4 bits are meaningful.
	unpacked, err := Unpack([]byte{0xbf}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if unpacked.String() != "1011" {
		t.Errorf("expected 1011, got %s", unpacked.String())
	}
	if unpacked.Bytes()[0] != 0xb0 {
		t.Errorf("expected pad bits cleared (0xb0), got %#x", unpacked.Bytes()[0])
	}
}

func TestUnpackTruncated(t *testing.T) {
	_, err := Unpack([]byte{0xff}, 9)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestUnpackDoesNotAlias(t *testing.T) {
	source := []byte{0xff}
	unpacked, err := Unpack(source, 8)
	if err != nil {
		t.Fatal(err)
	}
	source[0] = 0
	if unpacked.At(0) != 1 {
		t.Error("unpacked bits changed when the source buffer was modified")
	}
}

func TestParseStringRejectsNonBinary(t *testing.T) {
	_, err := ParseString("0102")
	if !errors.Is(err, ErrInvalidDigit) {
		t.Fatalf("expected ErrInvalidDigit, got %v", err)
	}
}

func TestWriteBitsFixedWidth(t *testing.T) {
	var writer Writer
	writer.WriteBits(0x61, 8)
	if got := writer.Bits().String(); got != "01100001" {
		t.Errorf("expected 01100001, got %s", got)
	}
}

func TestAppendAlignedAndUnaligned(t *testing.T) {
	first, _ := ParseString("101")
	second, _ := ParseString("0110011")

	var aligned Writer
	aligned.Append(second)
	aligned.Append(first)
	if got := aligned.Bits().String(); got != "0110011101" {
		t.Errorf("aligned append: got %s", got)
	}

	var unaligned Writer
	unaligned.Append(first)
	unaligned.Append(second)
	if got := unaligned.Bits().String(); got != "1010110011" {
		t.Errorf("unaligned append: got %s", got)
	}
}

func TestReader(t *testing.T) {
	bits, _ := ParseString("1100001011")
	reader := NewReader(bits)

	if bit, ok := reader.ReadBit(); !ok || bit != 1 {
		t.Fatalf("first bit: got %d, %v", bit, ok)
	}
	value, ok := reader.ReadBits(8)
	if !ok || value != 0x85 {
		t.Fatalf("expected 0x85, got %#x (%v)", value, ok)
	}
	if reader.Remaining() != 1 {
		t.Fatalf("expected 1 remaining bit, got %d", reader.Remaining())
	}
	if _, ok := reader.ReadBits(2); ok {
		t.Fatal("expected short read to fail")
	}
	if _, ok := reader.ReadBit(); ok {
		t.Fatal("expected reader to be exhausted")
	}
}

func TestEqual(t *testing.T) {
	a, _ := ParseString("1010")
	b, _ := ParseString("1010")
	c, _ := ParseString("10100")
	if !a.Equal(b) {
		t.Error("expected equal sequences")
	}
	if a.Equal(c) {
		t.Error("sequences of different length must not be equal")
	}
}
