// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import "github.com/encryptify/encryptify/lib/bitpack"

// CodeTable maps each symbol present in a tree to its prefix code.
type CodeTable struct {
	codes   [256]bitpack.Bits
	present [256]bool
}

// BuildCodeTable derives codes by walking the tree: a left edge
// appends 0, a right edge appends 1. A leaf reached by an empty path
// gets the code "0".
func BuildCodeTable(tree *Tree) *CodeTable {
	table := &CodeTable{}
	path := make([]uint8, 0, 32)
	tree.assignCodes(tree.root, path, table)
	return table
}

func (t *Tree) assignCodes(index int32, path []uint8, table *CodeTable) {
	current := &t.nodes[index]
	if current.leaf {
		var writer bitpack.Writer
		if len(path) == 0 {
			writer.WriteBit(0)
		}
		for _, bit := range path {
			writer.WriteBit(bit)
		}
		table.codes[current.symbol] = writer.Bits()
		table.present[current.symbol] = true
		return
	}
	if current.left != noChild {
		t.assignCodes(current.left, append(path, 0), table)
	}
	if current.right != noChild {
		t.assignCodes(current.right, append(path, 1), table)
	}
}

// Code returns the code for symbol and whether the symbol is present.
func (c *CodeTable) Code(symbol byte) (bitpack.Bits, bool) {
	return c.codes[symbol], c.present[symbol]
}

// Len returns the number of symbols with a code.
func (c *CodeTable) Len() int {
	count := 0
	for _, present := range c.present {
		if present {
			count++
		}
	}
	return count
}

// Strings returns the table as symbol to "0101" text. Intended for
// tests and diagnostics.
func (c *CodeTable) Strings() map[byte]string {
	result := make(map[byte]string, c.Len())
	for symbol, present := range c.present {
		if present {
			result[byte(symbol)] = c.codes[symbol].String()
		}
	}
	return result
}
