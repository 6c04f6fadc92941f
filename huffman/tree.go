// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"container/heap"
	"fmt"
	"strings"
)

const noChild = -1

// node is one entry in a Tree's arena.  Leaves have both children set to noChild.
type node struct {
	freq        uint64
	sym         symbol
	left, right int
}

func (n *node) leaf() bool {
	return n.left == noChild && n.right == noChild
}

// Tree is a Huffman tree built from byte frequencies.  Nodes are stored in a single arena and refer to their
// children by index; the root is the last node allocated.  A Tree built from empty input has no root.
type Tree struct {
	nodes []node
	root  int
}

// BuildTree constructs the Huffman tree for freqs.  One leaf is created per byte value with a non-zero count,
// in ascending byte order; then the two lowest nodes are repeatedly extracted and replaced by an internal node
// whose left child is the first extracted and whose right child is the second.
func BuildTree(freqs *Frequencies) *Tree {
	distinct := freqs.Distinct()
	tree := &Tree{
		nodes: make([]node, 0, 2*distinct),
		root:  noChild,
	}
	if distinct == 0 {
		return tree
	}

	queue := &mergeQueue{items: make([]int, 0, distinct)}
	for i, count := range freqs {
		if count == 0 {
			continue
		}
		queue.items = append(queue.items, tree.alloc(node{count, symbol(i), noChild, noChild}))
	}
	queue.arena = tree.nodes
	heap.Init(queue)

	for queue.Len() > 1 {
		left := queue.pop()
		right := queue.pop()
		ln, rn := &tree.nodes[left], &tree.nodes[right]
		merged := node{
			freq:  ln.freq + rn.freq,
			sym:   maxSymbol(ln.sym, rn.sym),
			left:  left,
			right: right,
		}
		index := tree.alloc(merged)
		// alloc may have grown the arena; the queue must compare against the current backing array.
		queue.arena = tree.nodes
		queue.push(index)
	}

	tree.root = queue.pop()
	return tree
}

func maxSymbol(a, b symbol) symbol {
	if a > b {
		return a
	}
	return b
}

func (tree *Tree) alloc(n node) int {
	tree.nodes = append(tree.nodes, n)
	return len(tree.nodes) - 1
}

// Empty reports whether the tree has no leaves.
func (tree *Tree) Empty() bool {
	return tree.root == noChild
}

// Codes walks the tree depth first, left before right, and returns the resulting code table together with the
// weighted path length (the sum over all leaves of frequency times depth).  A tree holding a single leaf
// assigns that symbol the one-bit code 0.
func (tree *Tree) Codes() (table *CodeTable, wpl uint64) {
	table = &CodeTable{}
	if tree.Empty() {
		return
	}

	root := &tree.nodes[tree.root]
	if root.leaf() {
		table.set(byte(root.sym), fallbackCode())
		table.Count = root.freq
		return table, root.freq
	}

	var walk func(index int, prefix BitString)
	walk = func(index int, prefix BitString) {
		n := &tree.nodes[index]
		if n.leaf() {
			table.set(byte(n.sym), prefix)
			wpl += n.freq * uint64(prefix.BitLength)
			return
		}
		walk(n.left, prefix.Append(false))
		walk(n.right, prefix.Append(true))
	}
	walk(tree.root, BitString{})
	table.Count = root.freq
	return
}

func fallbackCode() BitString {
	return BitString{[]byte{0}, 1}
}

func (tree *Tree) String() string {
	if tree.Empty() {
		return "TREE{}"
	}

	var sb strings.Builder
	var show func(index int, depth int)
	show = func(index int, depth int) {
		n := &tree.nodes[index]
		sb.WriteString(strings.Repeat("  ", depth))
		if n.leaf() {
			fmt.Fprintf(&sb, "@%02x %d\n", uint8(n.sym), n.freq)
			return
		}
		fmt.Fprintf(&sb, "+ %d\n", n.freq)
		show(n.left, depth+1)
		show(n.right, depth+1)
	}
	show(tree.root, 1)
	return "TREE{\n" + sb.String() + "}"
}
