// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman_test

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/ArcherSore/HUST-CSE-ProgramDesign-2025Spring/huffman"
)

type treeNode struct {
	symbol      int
	left, right *treeNode
}

const (
	randSeed   = 0x5a025ca11825a5e7
	iterations = 50
)

var strategies = []huffman.Strategy{
	huffman.StrategyTrie,
	huffman.StrategyMap,
	huffman.StrategyCrossCheck,
}

// randomHuffmanTree joins random pairs of nodes over a random subset of at least two symbols.
func randomHuffmanTree(rng *rand.Rand) *treeNode {
	var nodes []*treeNode
	for i := 0; i < 256; i++ {
		if rng.Intn(3) == 0 {
			nodes = append(nodes, &treeNode{i, nil, nil})
		}
	}
	if len(nodes) < 2 {
		nodes = []*treeNode{{0, nil, nil}, {255, nil, nil}}
	}

	var swap int
	for len(nodes) >= 2 {
		swap = rng.Intn(len(nodes))
		nodes[0], nodes[swap] = nodes[swap], nodes[0]
		swap = 1 + rng.Intn(len(nodes)-1)
		nodes[1], nodes[swap] = nodes[swap], nodes[1]
		nodes[1] = &treeNode{-1, nodes[0], nodes[1]}
		nodes = nodes[1:]
	}

	return nodes[0]
}

func (node treeNode) writeToCodeTable(table *huffman.CodeTable, prefix huffman.BitString) {
	if node.symbol >= 0 {
		table.Codes[node.symbol] = prefix
	} else {
		node.left.writeToCodeTable(table, prefix.Append(false))
		node.right.writeToCodeTable(table, prefix.Append(true))
	}
}

func randomCodeTable(rng *rand.Rand) *huffman.CodeTable {
	table := &huffman.CodeTable{}
	randomHuffmanTree(rng).writeToCodeTable(table, huffman.BitString{})
	return table
}

// randomData draws bytes from the symbols present in table.
func randomData(rng *rand.Rand, table *huffman.CodeTable, n int) []byte {
	symbols := table.Symbols()
	data := make([]byte, n)
	for i := range data {
		data[i] = symbols[rng.Intn(len(symbols))]
	}
	return data
}

func randomInput(rng *rand.Rand) []byte {
	n := rng.Intn(2000)
	alphabet := 1 + rng.Intn(256)
	data := make([]byte, n)
	for i := range data {
		// Squaring skews the distribution so that code lengths vary.
		r := rng.Float64()
		data[i] = byte(int(r * r * float64(alphabet)))
	}
	return data
}

func showBinaryOctets(b []byte) string {
	parts := make([]string, len(b))
	for i, x := range b {
		parts[i] = fmt.Sprintf("%08b", x)
	}
	return strings.Join(parts, " ")
}

func codeOf(t *testing.T, table *huffman.CodeTable, b byte) huffman.BitString {
	t.Helper()
	code, ok := table.Code(b)
	if !ok {
		t.Fatalf("no code for 0x%02X in %v", b, table)
	}
	return code
}

func TestTwoSymbolInput(t *testing.T) {
	table, packed, err := huffman.Encode([]byte("AAAAB"))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if table.Len() != 2 || table.Count != 5 {
		t.Fatalf("expected 2 codes over 5 symbols, got %d over %d", table.Len(), table.Count)
	}
	// B is extracted first and becomes the left child.
	if got := codeOf(t, table, 'B'); !got.Equal(huffman.ParseBits("0")) {
		t.Errorf("code for B: got %v", got)
	}
	if got := codeOf(t, table, 'A'); !got.Equal(huffman.ParseBits("1")) {
		t.Errorf("code for A: got %v", got)
	}
	if !bytes.Equal(packed, []byte{0xF0}) {
		t.Errorf("packed: got %s, want 11110000", showBinaryOctets(packed))
	}

	for _, s := range strategies {
		out, err := huffman.Decode(table, packed, s)
		if err != nil || string(out) != "AAAAB" {
			t.Errorf("%v decode: got %q, %v", s, out, err)
		}
	}
}

func TestSingleSymbolInput(t *testing.T) {
	data := bytes.Repeat([]byte{0x41}, 1000)
	table, packed, err := huffman.Encode(data)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if syms := table.Symbols(); len(syms) != 1 || syms[0] != 0x41 {
		t.Fatalf("expected only 0x41 in table, got % x", syms)
	}
	if got := codeOf(t, table, 0x41); !got.Equal(huffman.ParseBits("0")) {
		t.Errorf("fallback code: got %v", got)
	}
	if len(packed) != 125 {
		t.Errorf("packed length: got %d, want 125", len(packed))
	}
	if !bytes.Equal(packed, make([]byte, 125)) {
		t.Errorf("packed stream should be all zero bits")
	}

	for _, s := range strategies {
		out, err := huffman.Decode(table, packed, s)
		if err != nil || !bytes.Equal(out, data) {
			t.Errorf("%v decode failed: %d bytes, %v", s, len(out), err)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	table, packed, err := huffman.Encode(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if table.Len() != 0 || table.Count != 0 {
		t.Errorf("expected empty table, got %v", table)
	}
	if len(packed) != 0 {
		t.Errorf("expected empty packed stream, got %d octets", len(packed))
	}

	for _, s := range strategies {
		out, err := huffman.Decode(table, packed, s)
		if err != nil || len(out) != 0 {
			t.Errorf("%v decode: got %q, %v", s, out, err)
		}
	}
}

func TestThreeEqualSymbols(t *testing.T) {
	freqs := huffman.CountFrequencies([]byte("abc"))
	table, wpl := huffman.BuildTree(&freqs).Codes()

	// a and b merge first (ties by byte value); c then sorts below the merged pair.
	want := map[byte]string{'c': "0", 'a': "10", 'b': "11"}
	for b, bits := range want {
		if got := codeOf(t, table, b); !got.Equal(huffman.ParseBits(bits)) {
			t.Errorf("code for %c: got %v, want %s", b, got, bits)
		}
	}
	if wpl != 5 {
		t.Errorf("wpl: got %d, want 5", wpl)
	}
}

func TestMergedNodeTiesWithLeaf(t *testing.T) {
	cases := []struct {
		input string
		want  map[byte]string
	}{
		// The (a,b) node carries byte b, which sorts below c at the same frequency.
		{"aabbcccc", map[byte]string{'a': "00", 'b': "01", 'c': "1"}},
		// The (b,c) node carries byte c, so the leaf a sorts first.
		{"aaaabbcc", map[byte]string{'a': "0", 'b': "10", 'c': "11"}},
	}

	for _, c := range cases {
		freqs := huffman.CountFrequencies([]byte(c.input))
		table, _ := huffman.BuildTree(&freqs).Codes()
		for b, bits := range c.want {
			if got := codeOf(t, table, b); !got.Equal(huffman.ParseBits(bits)) {
				t.Errorf("%s: code for %c: got %v, want %s", c.input, b, got, bits)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(randSeed))

	for iteration := 0; iteration < iterations; iteration++ {
		dataIn := randomInput(rng)
		table, packed, err := huffman.Encode(dataIn)
		if err != nil {
			t.Fatalf("#%d encode: %v", iteration, err)
		}

		for _, s := range strategies {
			dataOut, err := huffman.Decode(table, packed, s)
			if err != nil {
				t.Fatalf("#%d %v decode: %v", iteration, s, err)
			}
			if !bytes.Equal(dataOut, dataIn) {
				t.Fatalf("#%d %v failed to loop around %d -> %d -> %d bytes of data",
					iteration, s, len(dataIn), len(packed), len(dataOut))
			}
		}
	}
}

func TestPackedLengthAndWPL(t *testing.T) {
	rng := rand.New(rand.NewSource(randSeed))

	for iteration := 0; iteration < iterations; iteration++ {
		dataIn := randomInput(rng)
		freqs := huffman.CountFrequencies(dataIn)
		if freqs.Total() != uint64(len(dataIn)) {
			t.Fatalf("#%d frequency total %d != %d", iteration, freqs.Total(), len(dataIn))
		}

		table, wpl := huffman.BuildTree(&freqs).Codes()
		enc := huffman.NewEncoder(table)
		packed, err := enc.Pack(dataIn)
		if err != nil {
			t.Fatalf("#%d pack: %v", iteration, err)
		}

		bits := enc.PackedBits(dataIn)
		if bits != wpl {
			t.Errorf("#%d packed bits %d != wpl %d", iteration, bits, wpl)
		}
		if uint64(len(packed)) != (bits+7)/8 {
			t.Errorf("#%d packed %d octets for %d bits", iteration, len(packed), bits)
		}
	}
}

func TestPrefixFree(t *testing.T) {
	rng := rand.New(rand.NewSource(randSeed))

	for iteration := 0; iteration < iterations; iteration++ {
		freqs := huffman.CountFrequencies(randomInput(rng))
		table, _ := huffman.BuildTree(&freqs).Codes()

		symbols := table.Symbols()
		for _, a := range symbols {
			for _, b := range symbols {
				if a != b && table.Codes[a].HasPrefix(table.Codes[b]) {
					t.Fatalf("#%d code %v for 0x%02X has prefix %v for 0x%02X",
						iteration, table.Codes[a], a, table.Codes[b], b)
				}
			}
		}
		if err := table.Validate(); err != nil {
			t.Fatalf("#%d generated table rejected: %v", iteration, err)
		}
	}
}

func TestDecoderEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(randSeed))

	for iteration := 0; iteration < iterations; iteration++ {
		table := randomCodeTable(rng)
		dataIn := randomData(rng, table, rng.Intn(500))
		table.Count = uint64(len(dataIn))

		packed, err := huffman.NewEncoder(table).Pack(dataIn)
		if err != nil {
			t.Fatalf("#%d pack: %v", iteration, err)
		}
		t.Logf("huffed: %s", showBinaryOctets(packed[:min(len(packed), 4)]))

		trie, err := huffman.NewTrieDecoder(table)
		if err != nil {
			t.Fatalf("#%d valid coding got: %v", iteration, err)
		}
		dict, err := huffman.NewMapDecoder(table)
		if err != nil {
			t.Fatalf("#%d valid coding got: %v", iteration, err)
		}

		fromTrie, err := trie.Decode(packed)
		if err != nil {
			t.Fatalf("#%d trie: %v", iteration, err)
		}
		fromMap, err := dict.Decode(packed)
		if err != nil {
			t.Fatalf("#%d map: %v", iteration, err)
		}
		if !bytes.Equal(fromTrie, fromMap) || !bytes.Equal(fromTrie, dataIn) {
			t.Fatalf("#%d decoders disagree on %d symbols", iteration, len(dataIn))
		}
	}
}

func TestInconsistentTables(t *testing.T) {
	cases := []map[byte]string{
		{'A': "0", 'B': "01"},
		{'A': "01", 'B': "0"},
		{'A': "10", 'B': "10"},
	}

	for i, codes := range cases {
		table := &huffman.CodeTable{Count: 1}
		for b, bits := range codes {
			table.Codes[b] = huffman.ParseBits(bits)
		}
		for _, s := range strategies {
			_, err := huffman.NewDecoder(table, s)
			if !errors.Is(err, huffman.ErrCodeTableInconsistent) {
				t.Errorf("case %d %v: expected ErrCodeTableInconsistent, got %v", i, s, err)
			}
		}
	}
}

func TestDecodeWalkErrors(t *testing.T) {
	deadEnd := &huffman.CodeTable{Count: 3}
	deadEnd.Codes['A'] = huffman.ParseBits("0")

	truncated := &huffman.CodeTable{Count: 5}
	truncated.Codes['A'] = huffman.ParseBits("0")
	truncated.Codes['B'] = huffman.ParseBits("10")
	truncated.Codes['C'] = huffman.ParseBits("11")

	huge := &huffman.CodeTable{Count: 1 << 63}
	for i, bits := range []string{"00", "01", "10", "11"} {
		huge.Codes['A'+i] = huffman.ParseBits(bits)
	}

	cases := []struct {
		name   string
		table  *huffman.CodeTable
		packed []byte
		want   error
	}{
		{"dead end", deadEnd, []byte{0xE0}, huffman.ErrDeadEnd},
		{"truncated", truncated, []byte{0xFF}, huffman.ErrTruncated},
		{"oversized payload", truncated, []byte{0, 0, 0}, huffman.ErrPayloadSize},
		{"payload for zero symbols", &huffman.CodeTable{}, []byte{0}, huffman.ErrPayloadSize},
		{"symbols without codes", &huffman.CodeTable{Count: 2}, []byte{0}, huffman.ErrPayloadSize},
		{"count overflowing bit total", huge, nil, huffman.ErrPayloadSize},
		{"count beyond payload bits", huge, []byte{0, 0}, huffman.ErrPayloadSize},
	}

	for _, c := range cases {
		for _, s := range strategies {
			_, err := huffman.Decode(c.table, c.packed, s)
			if !errors.Is(err, c.want) {
				t.Errorf("%s %v: expected %v, got %v", c.name, s, c.want, err)
			}
		}
	}

	_, err := huffman.Decode(deadEnd, []byte{0xE0}, huffman.StrategyTrie)
	var de *huffman.DecodeError
	if !errors.As(err, &de) || de.BitPos != 1 || de.Decoded != 0 {
		t.Errorf("expected DecodeError at bit 1, got %#v", err)
	}
}

func TestPackUncodedSymbol(t *testing.T) {
	table := &huffman.CodeTable{}
	table.Codes['A'] = huffman.ParseBits("0")
	_, err := huffman.NewEncoder(table).Pack([]byte("AB"))
	if !errors.Is(err, huffman.ErrSymbolNotCoded) {
		t.Errorf("expected ErrSymbolNotCoded, got %v", err)
	}
}

func TestIndependentInvocations(t *testing.T) {
	rng := rand.New(rand.NewSource(randSeed))
	inputs := make([][]byte, 16)
	for i := range inputs {
		inputs[i] = randomInput(rng)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(inputs))
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			table, packed, err := huffman.Encode(inputs[i])
			if err != nil {
				errs[i] = err
				return
			}
			out, err := huffman.Decode(table, packed, huffman.StrategyCrossCheck)
			if err == nil && !bytes.Equal(out, inputs[i]) {
				err = fmt.Errorf("round trip mismatch")
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("input %d: %v", i, err)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range strategies {
		got, err := huffman.ParseStrategy(s.String())
		if err != nil || got != s {
			t.Errorf("ParseStrategy(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := huffman.ParseStrategy("bogus"); err == nil {
		t.Errorf("expected error for unknown strategy")
	}
}
