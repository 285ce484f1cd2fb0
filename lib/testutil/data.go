// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"math/rand/v2"
	"strings"
)

// RandomBytes returns size pseudo-random bytes. The same seed always
// yields the same bytes.
func RandomBytes(seed uint64, size int) []byte {
	var key [32]byte
	for index := range 8 {
		key[index] = byte(seed >> (8 * index))
	}
	source := rand.NewChaCha8(key)
	data := make([]byte, size)
	source.Read(data)
	return data
}

const prose = "It was a bright cold day in April, and the clocks were striking thirteen. "

// Text returns size bytes of repeated English prose: a small alphabet
// with a skewed distribution, so it compresses well.
func Text(size int) []byte {
	repeated := strings.Repeat(prose, size/len(prose)+1)
	return []byte(repeated[:size])
}
