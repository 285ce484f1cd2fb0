// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import (
	"fmt"

	"github.com/encryptify/encryptify/lib/bitpack"
)

// maxTreeDepth bounds decoder recursion. A full binary tree over 256
// distinct symbols is at most 255 levels deep.
const maxTreeDepth = 256

// EncodeTree serializes a tree in preorder. An internal node emits 0
// followed by its left and right subtrees; a leaf emits 1 followed by
// its symbol as 8 bits, most significant first. An absent child (the
// right side of a single-symbol root) emits nothing.
func EncodeTree(tree *Tree) bitpack.Bits {
	var writer bitpack.Writer
	tree.encodeNode(tree.root, &writer)
	return writer.Bits()
}

func (t *Tree) encodeNode(index int32, writer *bitpack.Writer) {
	current := t.nodes[index]
	if current.leaf {
		writer.WriteBit(1)
		writer.WriteBits(uint64(current.symbol), 8)
		return
	}
	writer.WriteBit(0)
	if current.left != noChild {
		t.encodeNode(current.left, writer)
	}
	if current.right != noChild {
		t.encodeNode(current.right, writer)
	}
}

// DecodeTree reconstructs a tree from the bit sequence produced by
// EncodeTree. The sequence must describe exactly one tree with an
// internal root and distinct leaf symbols. The only node permitted to
// lack a child is a root whose left child is a leaf and whose encoding
// ends there: that is the single-symbol form.
//
// Every failure wraps ErrTreeCorruption.
func DecodeTree(bits bitpack.Bits) (*Tree, error) {
	decoder := treeDecoder{
		reader: bitpack.NewReader(bits),
		tree:   &Tree{},
	}

	root, err := decoder.decodeNode(0)
	if err != nil {
		return nil, err
	}
	if decoder.tree.nodes[root].leaf {
		return nil, fmt.Errorf("%w: root is a leaf", ErrTreeCorruption)
	}
	if remaining := decoder.reader.Remaining(); remaining > 0 {
		return nil, fmt.Errorf("%w: %d bits follow the complete tree", ErrTreeCorruption, remaining)
	}

	decoder.tree.root = root
	return decoder.tree, nil
}

type treeDecoder struct {
	reader *bitpack.Reader
	tree   *Tree
	seen   [256]bool
}

func (d *treeDecoder) decodeNode(depth int) (int32, error) {
	if depth > maxTreeDepth {
		return noChild, fmt.Errorf("%w: tree deeper than %d levels", ErrTreeCorruption, maxTreeDepth)
	}

	bit, ok := d.reader.ReadBit()
	if !ok {
		return noChild, fmt.Errorf("%w: tree bits end inside a node", ErrTreeCorruption)
	}

	if bit == 1 {
		value, ok := d.reader.ReadBits(8)
		if !ok {
			return noChild, fmt.Errorf("%w: tree bits end inside a leaf symbol", ErrTreeCorruption)
		}
		symbol := byte(value)
		if d.seen[symbol] {
			return noChild, fmt.Errorf("%w: symbol %#02x appears in more than one leaf", ErrTreeCorruption, symbol)
		}
		d.seen[symbol] = true
		return d.tree.addLeaf(symbol, 0), nil
	}

	index := d.tree.addInternal(0, noChild, noChild)

	left, err := d.decodeNode(depth + 1)
	if err != nil {
		return noChild, err
	}
	d.tree.nodes[index].left = left

	if depth == 0 && d.reader.Remaining() == 0 && d.tree.nodes[left].leaf {
		return index, nil
	}

	right, err := d.decodeNode(depth + 1)
	if err != nil {
		return noChild, err
	}
	d.tree.nodes[index].right = right
	return index, nil
}
