// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import (
	"errors"

	"github.com/encryptify/encryptify/lib/bitpack"
)

var (
	// ErrTreeCorruption reports a serialized tree that cannot be
	// decoded, or a payload whose bits lead off the tree.
	ErrTreeCorruption = errors.New("huffman: tree corruption")

	// ErrMalformed reports a container whose framing (line structure,
	// bit count, payload length) is invalid.
	ErrMalformed = errors.New("huffman: malformed container")

	// ErrNoSymbols is returned by BuildTree for an empty frequency
	// table. Compress never triggers it: empty input takes the
	// empty-container path instead.
	ErrNoSymbols = errors.New("huffman: no symbols to build a tree from")

	// ErrTruncated reports a payload shorter than its declared bit
	// count. It is the same value as bitpack.ErrTruncated.
	ErrTruncated = bitpack.ErrTruncated
)
