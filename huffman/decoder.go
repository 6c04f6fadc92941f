// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// Decoder reverses Pack for the code table it was built from.  Decode reads exactly as many bits from packed
// as are needed to produce the table's Count symbols; padding beyond that is never interpreted.
type Decoder interface {
	Decode(packed []byte) ([]byte, error)
}

// Strategy selects a decode automaton.
type Strategy int

const (
	StrategyTrie Strategy = iota
	StrategyMap
	StrategyCrossCheck
)

func (s Strategy) String() string {
	switch s {
	case StrategyTrie:
		return "trie"
	case StrategyMap:
		return "map"
	case StrategyCrossCheck:
		return "both"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy converts a name as printed by Strategy.String back into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range []Strategy{StrategyTrie, StrategyMap, StrategyCrossCheck} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("huffman: unknown decode strategy %q", name)
}

// NewDecoder builds a decoder of the given strategy from table.  The table is validated first.
func NewDecoder(table *CodeTable, strategy Strategy) (Decoder, error) {
	log.Debugf("building %v decoder for %d codes, %d symbols", strategy, table.Len(), table.Count)
	switch strategy {
	case StrategyTrie:
		return NewTrieDecoder(table)
	case StrategyMap:
		return NewMapDecoder(table)
	case StrategyCrossCheck:
		return NewCrossCheckDecoder(table)
	default:
		return nil, fmt.Errorf("huffman: unknown decode strategy %v", strategy)
	}
}

// bitSource reads a packed stream one bit at a time and keeps track of the position for error reports.
type bitSource struct {
	br  *bitio.Reader
	pos int
}

func newBitSource(packed []byte) *bitSource {
	return &bitSource{br: bitio.NewReader(bytes.NewReader(packed))}
}

func (src *bitSource) next() (bool, error) {
	bit, err := src.br.ReadBool()
	if err != nil {
		return false, err
	}
	src.pos++
	return bit, nil
}

func (src *bitSource) fail(err error, decoded int) error {
	if errors.Is(err, io.EOF) {
		err = ErrTruncated
	}
	return &DecodeError{Err: err, BitPos: src.pos, Decoded: decoded}
}

const trieRoot = 0

// trieNode is one entry in a TrieDecoder's arena.  Index 0 is always the root, so a zero child index means
// the child is absent.
type trieNode struct {
	child [2]int
	sym   symbol
	leaf  bool
}

// TrieDecoder walks a binary trie mirroring the code tree, one bit per edge.
type TrieDecoder struct {
	table *CodeTable
	nodes []trieNode
}

func newTrie(table *CodeTable) ([]trieNode, error) {
	nodes := make([]trieNode, 1, 2*totalSymbols)

	for i := range table.Codes {
		code := table.Codes[i]
		if code.BitLength == 0 {
			continue
		}

		cur := trieRoot
		for k := 0; k < code.BitLength; k++ {
			if nodes[cur].leaf {
				return nil, fmt.Errorf("%w: code for 0x%02X extends another code", ErrCodeTableInconsistent, i)
			}
			bit := 0
			if code.Bit(k) {
				bit = 1
			}
			next := nodes[cur].child[bit]
			if next == trieRoot {
				nodes = append(nodes, trieNode{})
				next = len(nodes) - 1
				nodes[cur].child[bit] = next
			}
			cur = next
		}

		n := &nodes[cur]
		if n.leaf || n.child[0] != trieRoot || n.child[1] != trieRoot {
			return nil, fmt.Errorf("%w: code for 0x%02X is a prefix of another code", ErrCodeTableInconsistent, i)
		}
		n.leaf = true
		n.sym = symbol(i)
	}

	return nodes, nil
}

// NewTrieDecoder builds the trie for table, or returns ErrCodeTableInconsistent if the codes are not
// prefix-free.
func NewTrieDecoder(table *CodeTable) (*TrieDecoder, error) {
	for i := range table.Codes {
		if err := table.Codes[i].Check(); err != nil {
			return nil, fmt.Errorf("symbol 0x%02X: %w", i, err)
		}
	}
	nodes, err := newTrie(table)
	if err != nil {
		return nil, err
	}
	return &TrieDecoder{table: table, nodes: nodes}, nil
}

// Decode implements Decoder.
func (dec *TrieDecoder) Decode(packed []byte) ([]byte, error) {
	count := dec.table.Count
	if count == 0 && len(packed) == 0 {
		return []byte{}, nil
	}
	if err := dec.table.checkPayload(len(packed)); err != nil {
		return nil, err
	}

	out := make([]byte, 0, count)
	src := newBitSource(packed)
	cur := trieRoot
	for uint64(len(out)) < count {
		bit, err := src.next()
		if err != nil {
			return nil, src.fail(err, len(out))
		}

		var selector int
		if bit {
			selector = 1
		}
		cur = dec.nodes[cur].child[selector]
		if cur == trieRoot {
			return nil, src.fail(ErrDeadEnd, len(out))
		}

		if n := &dec.nodes[cur]; n.leaf {
			out = append(out, byte(n.sym))
			cur = trieRoot
		}
	}
	return out, nil
}

// MapDecoder matches a growing candidate bit string against a map of complete codewords.
type MapDecoder struct {
	table  *CodeTable
	codes  map[string]symbol
	maxLen int
}

// NewMapDecoder builds the codeword map for table.  The table is checked for consistency in the same way as
// for NewTrieDecoder, so both decoders accept exactly the same tables.
func NewMapDecoder(table *CodeTable) (*MapDecoder, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	codes := make(map[string]symbol, table.Len())
	for _, b := range table.Symbols() {
		codes[table.Codes[b].key()] = symbol(b)
	}
	_, maxLen := table.lengthRange()
	return &MapDecoder{table: table, codes: codes, maxLen: maxLen}, nil
}

// Decode implements Decoder.
func (dec *MapDecoder) Decode(packed []byte) ([]byte, error) {
	count := dec.table.Count
	if count == 0 && len(packed) == 0 {
		return []byte{}, nil
	}
	if err := dec.table.checkPayload(len(packed)); err != nil {
		return nil, err
	}

	out := make([]byte, 0, count)
	src := newBitSource(packed)
	candidate := make([]byte, 0, dec.maxLen)
	for uint64(len(out)) < count {
		bit, err := src.next()
		if err != nil {
			return nil, src.fail(err, len(out))
		}

		if bit {
			candidate = append(candidate, '1')
		} else {
			candidate = append(candidate, '0')
		}
		if sym, ok := dec.codes[string(candidate)]; ok {
			out = append(out, byte(sym))
			candidate = candidate[:0]
		} else if len(candidate) >= dec.maxLen {
			return nil, src.fail(ErrDeadEnd, len(out))
		}
	}
	return out, nil
}

// CrossCheckDecoder runs both the trie and the map decoder and insists that they agree.
type CrossCheckDecoder struct {
	trie *TrieDecoder
	dict *MapDecoder
}

// NewCrossCheckDecoder builds both automata for table.
func NewCrossCheckDecoder(table *CodeTable) (*CrossCheckDecoder, error) {
	trie, err := NewTrieDecoder(table)
	if err != nil {
		return nil, err
	}
	dict, err := NewMapDecoder(table)
	if err != nil {
		return nil, err
	}
	return &CrossCheckDecoder{trie, dict}, nil
}

// Decode implements Decoder.  If either decoder fails, the trie decoder's error takes precedence.
func (dec *CrossCheckDecoder) Decode(packed []byte) ([]byte, error) {
	fromTrie, trieErr := dec.trie.Decode(packed)
	fromMap, mapErr := dec.dict.Decode(packed)
	switch {
	case trieErr != nil:
		return nil, trieErr
	case mapErr != nil:
		return nil, mapErr
	case !bytes.Equal(fromTrie, fromMap):
		return nil, ErrDecodersDisagree
	}
	return fromTrie, nil
}

// Decode reverses Encode: it decodes packed with table using the given strategy.
func Decode(table *CodeTable, packed []byte, strategy Strategy) ([]byte, error) {
	if table.Count == 0 && len(packed) == 0 {
		return []byte{}, nil
	}
	dec, err := NewDecoder(table, strategy)
	if err != nil {
		return nil, err
	}
	return dec.Decode(packed)
}
