// Package huffman builds canonical Huffman codes over small byte alphabets (residue
// codes bucketed per consensus character) and provides bit-level encode/decode over
// those codes. compress/flate keeps its Huffman tables private, so this package
// hand-rolls its own: unexported tree/node types behind a small exported
// Build/Canonical/NewTable/Encode/Decode surface.
package huffman

import (
	"container/heap"
	"sort"

	"github.com/JLSteenwyk/ecomp/errs"
	"github.com/JLSteenwyk/ecomp/internal/bitio"
)

// SymbolLength is one symbol's canonical code length, as serialized in the residue
// model header.
type SymbolLength struct {
	Symbol byte
	Length uint8
}

// Code is one symbol's fully assigned canonical code: Bits holds the Length
// least-significant bits of the code, written/read MSB-first.
type Code struct {
	Symbol byte
	Length uint8
	Bits   uint32
}

type treeNode struct {
	freq      int
	minSymbol byte
	symbol    byte
	isLeaf    bool
	left      *treeNode
	right     *treeNode
}

type nodeHeap []*treeNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}

	return h[i].minSymbol < h[j].minSymbol
}
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(*treeNode)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]

	return item
}

// Build computes per-symbol canonical code lengths from a frequency table. freq must
// have at least one entry. A single-symbol bucket gets the length-1 code: a Huffman
// tree with one leaf needs one bit to round-trip "this symbol" framing, since a lone
// leaf is otherwise the tree root at depth zero.
//
// Symbol order of iteration is made deterministic by sorting the alphabet ascending
// before building the priority queue, and by breaking frequency ties in the queue by
// each subtree's minimum symbol — so Build(freq) is byte-identical across runs and
// platforms for the same freq, independent of Go's randomized map iteration order.
func Build(freq map[byte]int) []SymbolLength {
	if len(freq) == 0 {
		return nil
	}

	symbols := make([]byte, 0, len(freq))
	for s := range freq {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	if len(symbols) == 1 {
		return []SymbolLength{{Symbol: symbols[0], Length: 1}}
	}

	q := make(nodeHeap, 0, len(symbols))
	for _, s := range symbols {
		q = append(q, &treeNode{freq: freq[s], symbol: s, minSymbol: s, isLeaf: true})
	}
	heap.Init(&q)

	for q.Len() > 1 {
		a := heap.Pop(&q).(*treeNode)
		b := heap.Pop(&q).(*treeNode)
		minSym := a.minSymbol
		if b.minSymbol < minSym {
			minSym = b.minSymbol
		}
		heap.Push(&q, &treeNode{freq: a.freq + b.freq, left: a, right: b, minSymbol: minSym})
	}

	root := heap.Pop(&q).(*treeNode)

	lengths := make([]SymbolLength, 0, len(symbols))
	var walk func(n *treeNode, depth int)
	walk = func(n *treeNode, depth int) {
		if n.isLeaf {
			lengths = append(lengths, SymbolLength{Symbol: n.symbol, Length: uint8(depth)})

			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(root, 0)

	return lengths
}

// Canonical assigns actual code values to a set of per-symbol lengths, following the
// canonical rule: symbols sorted by (length ascending, symbol ascending); the first
// gets code 0, each subsequent code increments, left-shifting whenever the next
// symbol's length is longer.
func Canonical(lengths []SymbolLength) []Code {
	sorted := append([]SymbolLength(nil), lengths...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Length != sorted[j].Length {
			return sorted[i].Length < sorted[j].Length
		}

		return sorted[i].Symbol < sorted[j].Symbol
	})

	codes := make([]Code, len(sorted))
	var code uint32
	for i, sl := range sorted {
		codes[i] = Code{Symbol: sl.Symbol, Length: sl.Length, Bits: code}
		code++
		if i+1 < len(sorted) && sorted[i+1].Length > sl.Length {
			code <<= sorted[i+1].Length - sl.Length
		}
	}

	return codes
}

// decodeNode is one node of the binary decode trie built from a Table's codes.
type decodeNode struct {
	isLeaf bool
	symbol byte
	zero   *decodeNode
	one    *decodeNode
}

// Table is a ready-to-use canonical Huffman code table: an encode lookup by symbol and
// a decode trie walked bit by bit.
type Table struct {
	codes map[byte]Code
	root  *decodeNode
}

// NewTable builds a Table from a fully assigned code list (as produced by Canonical).
func NewTable(codes []Code) *Table {
	t := &Table{codes: make(map[byte]Code, len(codes)), root: &decodeNode{}}
	for _, c := range codes {
		t.codes[c.Symbol] = c
		t.insert(c)
	}

	return t
}

func (t *Table) insert(c Code) {
	n := t.root
	for i := int(c.Length) - 1; i >= 0; i-- {
		bit := (c.Bits >> uint(i)) & 1
		if bit == 0 {
			if n.zero == nil {
				n.zero = &decodeNode{}
			}
			n = n.zero
		} else {
			if n.one == nil {
				n.one = &decodeNode{}
			}
			n = n.one
		}
	}
	n.isLeaf = true
	n.symbol = c.Symbol
}

// Encode writes symbol's canonical code to w. It reports false if symbol has no code
// in this table.
func (t *Table) Encode(w *bitio.Writer, symbol byte) bool {
	c, ok := t.codes[symbol]
	if !ok {
		return false
	}
	w.WriteBits(uint64(c.Bits), int(c.Length))

	return true
}

// Decode reads one symbol from r by walking the decode trie bit by bit. It returns a
// FormatError if the bit stream does not correspond to any code in this table.
func (t *Table) Decode(r *bitio.Reader) (byte, error) {
	n := t.root
	for {
		if n.isLeaf {
			return n.symbol, nil
		}
		if n.zero == nil && n.one == nil {
			return 0, errs.Format(errs.ErrUnknownMode)
		}

		bit, err := r.ReadBits(1)
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			if n.zero == nil {
				return 0, errs.Format(errs.ErrUnknownMode)
			}
			n = n.zero
		} else {
			if n.one == nil {
				return 0, errs.Format(errs.ErrUnknownMode)
			}
			n = n.one
		}
	}
}
