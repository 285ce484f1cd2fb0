// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

// Frequencies counts occurrences of each byte value. Symbols with a
// zero count are absent.
type Frequencies [256]uint64

// CountFrequencies counts every byte of data. An empty buffer yields
// a table with no symbols present.
func CountFrequencies(data []byte) Frequencies {
	var frequencies Frequencies
	for _, symbol := range data {
		frequencies[symbol]++
	}
	return frequencies
}

// Symbols returns the present symbols in ascending byte order.
func (f *Frequencies) Symbols() []byte {
	symbols := make([]byte, 0, f.Len())
	for symbol, count := range f {
		if count > 0 {
			symbols = append(symbols, byte(symbol))
		}
	}
	return symbols
}

// Len returns the number of distinct symbols present.
func (f *Frequencies) Len() int {
	present := 0
	for _, count := range f {
		if count > 0 {
			present++
		}
	}
	return present
}
