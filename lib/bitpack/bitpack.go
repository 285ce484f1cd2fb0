// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package bitpack

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTruncated is returned when a byte buffer holds fewer bytes than
// the declared bit count requires.
var ErrTruncated = errors.New("bitstream truncated")

// ErrInvalidDigit is returned by ParseString for any character other
// than '0' or '1'.
var ErrInvalidDigit = errors.New("invalid bit digit")

// Bits is an immutable bit sequence of exact length. Bits are stored
// most-significant first within each byte; the unused low-order bits
// of the final byte are always zero.
//
// The zero value is the empty sequence.
type Bits struct {
	data   []byte
	length uint64
}

// Len returns the number of meaningful bits.
func (b Bits) Len() uint64 {
	return b.length
}

// Bytes returns the packed representation: ceil(Len/8) bytes with the
// final byte zero-padded. The returned slice shares storage with b and
// must not be modified.
func (b Bits) Bytes() []byte {
	return b.data[:byteLength(b.length)]
}

// At returns bit i (0 or 1). Panics if i >= Len.
func (b Bits) At(i uint64) uint8 {
	if i >= b.length {
		panic(fmt.Sprintf("bitpack: index %d out of range for %d bits", i, b.length))
	}
	return (b.data[i/8] >> (7 - i%8)) & 1
}

// Equal reports whether b and other hold the same bit sequence.
func (b Bits) Equal(other Bits) bool {
	if b.length != other.length {
		return false
	}
	left, right := b.Bytes(), other.Bytes()
	for i := range left {
		if left[i] != right[i] {
			return false
		}
	}
	return true
}

// String renders the sequence as ASCII '0' and '1' characters.
func (b Bits) String() string {
	var builder strings.Builder
	builder.Grow(int(b.length))
	for i := uint64(0); i < b.length; i++ {
		builder.WriteByte('0' + b.At(i))
	}
	return builder.String()
}

// ParseString converts a string of ASCII '0' and '1' characters into
// Bits. Any other character yields an error wrapping ErrInvalidDigit.
func ParseString(text string) (Bits, error) {
	var writer Writer
	for index := 0; index < len(text); index++ {
		switch text[index] {
		case '0':
			writer.WriteBit(0)
		case '1':
			writer.WriteBit(1)
		default:
			return Bits{}, fmt.Errorf("%w %q at position %d", ErrInvalidDigit, text[index], index)
		}
	}
	return writer.Bits(), nil
}

// Pack returns the byte-aligned storage for bits together with the
// exact bit count needed to undo the padding.
func Pack(bits Bits) ([]byte, uint64) {
	return bits.Bytes(), bits.length
}

// Unpack reconstructs exactly count bits from data. data must hold at
// least ceil(count/8) bytes; any bytes beyond that are ignored, as are
// the pad bits of the final byte. The result does not alias data.
func Unpack(data []byte, count uint64) (Bits, error) {
	needed := byteLength(count)
	if uint64(len(data)) < needed {
		return Bits{}, fmt.Errorf("%w: %d bits need %d bytes, have %d", ErrTruncated, count, needed, len(data))
	}
	packed := make([]byte, needed)
	copy(packed, data)
	if remainder := count % 8; remainder != 0 {
		packed[needed-1] &= 0xff << (8 - remainder)
	}
	return Bits{data: packed, length: count}, nil
}

// PackedSize returns the number of bytes needed to hold count bits.
func PackedSize(count uint64) uint64 {
	return byteLength(count)
}

func byteLength(count uint64) uint64 {
	return (count + 7) / 8
}

// Writer accumulates bits. The zero value is ready to use.
type Writer struct {
	data   []byte
	length uint64
}

// WriteBit appends a single bit. Any non-zero value is written as 1.
func (w *Writer) WriteBit(bit uint8) {
	offset := w.length % 8
	if offset == 0 {
		w.data = append(w.data, 0)
	}
	if bit != 0 {
		w.data[len(w.data)-1] |= 0x80 >> offset
	}
	w.length++
}

// WriteBits appends the low width bits of value, most significant
// first.
func (w *Writer) WriteBits(value uint64, width int) {
	for shift := width - 1; shift >= 0; shift-- {
		w.WriteBit(uint8(value>>uint(shift)) & 1)
	}
}

// Append appends every bit of bits.
func (w *Writer) Append(bits Bits) {
	if w.length%8 == 0 {
		// Pad bits of bits are zero, so whole bytes can be copied.
		w.data = append(w.data, bits.Bytes()...)
		w.length += bits.length
		return
	}
	for i := uint64(0); i < bits.length; i++ {
		w.WriteBit(bits.At(i))
	}
}

// Len returns the number of bits written so far.
func (w *Writer) Len() uint64 {
	return w.length
}

// Bits returns the bits written so far. The result shares storage with
// the writer; further writes must not be made once the result is in
// use elsewhere.
func (w *Writer) Bits() Bits {
	return Bits{data: w.data, length: w.length}
}

// Reader reads bits sequentially from a Bits value.
type Reader struct {
	bits     Bits
	position uint64
}

// NewReader returns a reader positioned at the first bit.
func NewReader(bits Bits) *Reader {
	return &Reader{bits: bits}
}

// ReadBit returns the next bit. ok is false once every bit has been
// consumed.
func (r *Reader) ReadBit() (bit uint8, ok bool) {
	if r.position >= r.bits.length {
		return 0, false
	}
	bit = r.bits.At(r.position)
	r.position++
	return bit, true
}

// ReadBits reads width bits as an unsigned value, most significant
// first. ok is false if fewer than width bits remain; in that case the
// reader is left positioned at the end.
func (r *Reader) ReadBits(width int) (value uint64, ok bool) {
	for range width {
		bit, more := r.ReadBit()
		if !more {
			return 0, false
		}
		value = value<<1 | uint64(bit)
	}
	return value, true
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() uint64 {
	return r.bits.length - r.position
}
