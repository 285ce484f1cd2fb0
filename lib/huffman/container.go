// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/encryptify/encryptify/lib/bitpack"
)

// maxDecodeReserve caps the output capacity reserved up front from
// the declared bit count, which comes from untrusted input.
const maxDecodeReserve = 1 << 20

// Container is a compressed buffer: the serialized tree, the exact
// payload bit count, and the packed payload. The zero value is the
// empty container, which decodes to zero bytes without a tree.
type Container struct {
	TreeBits bitpack.Bits
	BitCount uint64
	Payload  []byte
}

// Empty reports whether c is the empty-container marker.
func (c *Container) Empty() bool {
	return c.BitCount == 0
}

// Compress encodes data. Empty input yields the empty container
// without building a tree.
func Compress(data []byte) (*Container, error) {
	if len(data) == 0 {
		return &Container{}, nil
	}

	tree, err := BuildTree(CountFrequencies(data))
	if err != nil {
		return nil, err
	}
	table := BuildCodeTable(tree)

	var payload bitpack.Writer
	for _, symbol := range data {
		code, _ := table.Code(symbol)
		payload.Append(code)
	}

	packed, count := bitpack.Pack(payload.Bits())
	return &Container{
		TreeBits: EncodeTree(tree),
		BitCount: count,
		Payload:  packed,
	}, nil
}

// Decompress decodes a container produced by Compress. The payload is
// walked bit by bit from the root; each leaf emits its symbol and
// resets the walk. A bit that leads to an absent child, or a payload
// that ends partway through a code, wraps ErrTreeCorruption.
func Decompress(container *Container) ([]byte, error) {
	if container == nil {
		return nil, fmt.Errorf("%w: nil container", ErrMalformed)
	}
	if container.Empty() {
		return []byte{}, nil
	}

	tree, err := DecodeTree(container.TreeBits)
	if err != nil {
		return nil, err
	}

	payload, err := bitpack.Unpack(container.Payload, container.BitCount)
	if err != nil {
		return nil, fmt.Errorf("unpacking payload: %w", err)
	}

	output := make([]byte, 0, min(container.BitCount, maxDecodeReserve))
	reader := bitpack.NewReader(payload)
	current := tree.root
	for {
		bit, ok := reader.ReadBit()
		if !ok {
			break
		}
		next := tree.child(current, bit)
		if next == noChild {
			return nil, fmt.Errorf("%w: payload bit %d follows an absent branch",
				ErrTreeCorruption, container.BitCount-reader.Remaining()-1)
		}
		if tree.nodes[next].leaf {
			output = append(output, tree.nodes[next].symbol)
			current = tree.root
			continue
		}
		current = next
	}
	if current != tree.root {
		return nil, fmt.Errorf("%w: payload ends inside a code", ErrTreeCorruption)
	}
	return output, nil
}

// MarshalBinary encodes the container in its stored form:
//
//	<tree bits as ASCII '0'/'1'> '\n' <bit count, decimal> '\n' <packed payload>
//
// The empty container encodes as zero bytes.
func (c *Container) MarshalBinary() ([]byte, error) {
	if c.Empty() {
		return []byte{}, nil
	}
	if uint64(len(c.Payload)) != bitpack.PackedSize(c.BitCount) {
		return nil, fmt.Errorf("%w: payload is %d bytes, %d bits need %d",
			ErrMalformed, len(c.Payload), c.BitCount, bitpack.PackedSize(c.BitCount))
	}

	tree := c.TreeBits.String()
	count := strconv.FormatUint(c.BitCount, 10)

	encoded := make([]byte, 0, len(tree)+len(count)+2+len(c.Payload))
	encoded = append(encoded, tree...)
	encoded = append(encoded, '\n')
	encoded = append(encoded, count...)
	encoded = append(encoded, '\n')
	encoded = append(encoded, c.Payload...)
	return encoded, nil
}

// ParseContainer decodes the stored form written by MarshalBinary.
// Zero bytes, or any header declaring a bit count of zero, yield the
// empty container. The returned container's Payload aliases data.
func ParseContainer(data []byte) (*Container, error) {
	if len(data) == 0 {
		return &Container{}, nil
	}

	treeEnd := bytes.IndexByte(data, '\n')
	if treeEnd < 0 {
		return nil, fmt.Errorf("%w: missing tree line terminator", ErrMalformed)
	}
	treeText := data[:treeEnd]
	rest := data[treeEnd+1:]

	countEnd := bytes.IndexByte(rest, '\n')
	if countEnd < 0 {
		return nil, fmt.Errorf("%w: missing bit count line terminator", ErrMalformed)
	}
	count, err := strconv.ParseUint(string(rest[:countEnd]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bit count %q: %v", ErrMalformed, rest[:countEnd], err)
	}
	payload := rest[countEnd+1:]

	if count == 0 {
		return &Container{}, nil
	}

	treeBits, err := bitpack.ParseString(string(treeText))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTreeCorruption, err)
	}

	needed := bitpack.PackedSize(count)
	switch {
	case uint64(len(payload)) < needed:
		return nil, fmt.Errorf("%w: %d bits need %d payload bytes, have %d",
			ErrTruncated, count, needed, len(payload))
	case uint64(len(payload)) > needed:
		return nil, fmt.Errorf("%w: %d bytes follow the %d-byte payload",
			ErrMalformed, uint64(len(payload))-needed, needed)
	}

	return &Container{TreeBits: treeBits, BitCount: count, Payload: payload}, nil
}

// CompressBytes compresses data and returns the stored container form.
func CompressBytes(data []byte) ([]byte, error) {
	container, err := Compress(data)
	if err != nil {
		return nil, err
	}
	return container.MarshalBinary()
}

// DecompressBytes parses a stored container and decompresses it.
func DecompressBytes(encoded []byte) ([]byte, error) {
	container, err := ParseContainer(encoded)
	if err != nil {
		return nil, err
	}
	return Decompress(container)
}
