// Copyright 2026 The Encryptify Authors
// SPDX-License-Identifier: Apache-2.0

package huffman

import (
	"container/heap"
	"fmt"
)

// noChild marks an absent child slot in the node arena.
const noChild int32 = -1

// node is one entry in a Tree's arena. Leaves carry a symbol;
// internal nodes carry child indices. Weights of decoded trees are
// zero because the serialization does not record them.
type node struct {
	weight uint64
	left   int32
	right  int32
	symbol byte
	leaf   bool
}

// Tree is a prefix-code tree stored as an arena of nodes addressed by
// index. A Tree exclusively owns its arena.
//
// A tree always has an internal root. When only one symbol is present
// the root wraps that leaf as its left child and has no right child,
// which gives the symbol the non-empty code "0".
type Tree struct {
	nodes []node
	root  int32
}

func (t *Tree) addLeaf(symbol byte, weight uint64) int32 {
	t.nodes = append(t.nodes, node{weight: weight, left: noChild, right: noChild, symbol: symbol, leaf: true})
	return int32(len(t.nodes) - 1)
}

func (t *Tree) addInternal(weight uint64, left, right int32) int32 {
	t.nodes = append(t.nodes, node{weight: weight, left: left, right: right})
	return int32(len(t.nodes) - 1)
}

// child returns the left child for bit 0 and the right child for bit
// 1, or noChild.
func (t *Tree) child(index int32, bit uint8) int32 {
	if bit == 0 {
		return t.nodes[index].left
	}
	return t.nodes[index].right
}

// Weight returns the root weight: the total number of symbols the tree
// was built from. Zero for decoded trees.
func (t *Tree) Weight() uint64 {
	return t.nodes[t.root].weight
}

// LeafCount returns the number of distinct symbols in the tree.
func (t *Tree) LeafCount() int {
	leaves := 0
	for index := range t.nodes {
		if t.nodes[index].leaf {
			leaves++
		}
	}
	return leaves
}

// BuildTree builds a Huffman tree by repeatedly merging the two
// lowest-weight nodes. The first node taken from the queue becomes the
// left child of the merged node.
//
// Ties are broken by a sequence number so the result never depends on
// heap internals: leaves are numbered in ascending symbol order, then
// merged nodes continue the numbering in the order they are created.
// Among nodes of equal weight, the lower sequence number is taken
// first.
func BuildTree(frequencies Frequencies) (*Tree, error) {
	symbols := frequencies.Symbols()
	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}

	tree := &Tree{nodes: make([]node, 0, 2*len(symbols))}

	if len(symbols) == 1 {
		symbol := symbols[0]
		leaf := tree.addLeaf(symbol, frequencies[symbol])
		tree.root = tree.addInternal(frequencies[symbol], leaf, noChild)
		return tree, nil
	}

	queue := make(nodeQueue, 0, len(symbols))
	sequence := 0
	for _, symbol := range symbols {
		index := tree.addLeaf(symbol, frequencies[symbol])
		queue = append(queue, queuedNode{index: index, weight: frequencies[symbol], sequence: sequence})
		sequence++
	}
	heap.Init(&queue)

	for queue.Len() > 1 {
		left := heap.Pop(&queue).(queuedNode)
		right := heap.Pop(&queue).(queuedNode)
		weight := left.weight + right.weight
		if weight < left.weight {
			return nil, fmt.Errorf("huffman: symbol weights overflow")
		}
		merged := tree.addInternal(weight, left.index, right.index)
		heap.Push(&queue, queuedNode{index: merged, weight: weight, sequence: sequence})
		sequence++
	}

	tree.root = queue[0].index
	return tree, nil
}

// queuedNode is a priority queue entry referencing an arena node.
type queuedNode struct {
	index    int32
	weight   uint64
	sequence int
}

// nodeQueue is a min-heap ordered by (weight, sequence).
type nodeQueue []queuedNode

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].weight != q[j].weight {
		return q[i].weight < q[j].weight
	}
	return q[i].sequence < q[j].sequence
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(queuedNode)) }

func (q *nodeQueue) Pop() any {
	old := *q
	last := old[len(old)-1]
	*q = old[:len(old)-1]
	return last
}
