// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"fmt"
	"math"
	"strings"
)

// CodeTable maps byte values to Huffman codewords.  Codes[S] is the codeword for symbol S, or an empty
// BitString if S does not occur.  Count is the number of symbols in the payload the table was derived from,
// and is the stop condition for decoding.
//
// A CodeTable produced by Tree.Codes is prefix-free by construction.  One loaded from storage should be
// checked with Validate (the decoders do so) before use.
type CodeTable struct {
	Codes [totalSymbols]BitString
	Count uint64
}

func (table *CodeTable) set(b byte, code BitString) {
	table.Codes[b] = code
}

// Code returns the codeword for b and whether b is present in the table.
func (table *CodeTable) Code(b byte) (BitString, bool) {
	code := table.Codes[b]
	return code, code.BitLength > 0
}

// Symbols returns the present byte values in ascending order.
func (table *CodeTable) Symbols() []byte {
	var out []byte
	for i := range table.Codes {
		if table.Codes[i].BitLength > 0 {
			out = append(out, byte(i))
		}
	}
	return out
}

// Len returns the number of present symbols.
func (table *CodeTable) Len() (n int) {
	for i := range table.Codes {
		if table.Codes[i].BitLength > 0 {
			n++
		}
	}
	return
}

// lengthRange returns the shortest and longest code lengths, both zero for an empty table.
func (table *CodeTable) lengthRange() (shortest, longest int) {
	for i := range table.Codes {
		n := table.Codes[i].BitLength
		if n == 0 {
			continue
		}
		if shortest == 0 || n < shortest {
			shortest = n
		}
		if n > longest {
			longest = n
		}
	}
	return
}

// Validate checks that every present codeword satisfies the BitString invariants and that the set of
// codewords is prefix-free.
func (table *CodeTable) Validate() error {
	for i := range table.Codes {
		if err := table.Codes[i].Check(); err != nil {
			return fmt.Errorf("symbol 0x%02X: %w", i, err)
		}
	}
	_, err := newTrie(table)
	return err
}

// checkPayload returns ErrPayloadSize if a packed stream of packedLen octets cannot hold exactly Count
// symbols under this table.
func (table *CodeTable) checkPayload(packedLen int) error {
	if table.Count == 0 {
		if packedLen != 0 {
			return fmt.Errorf("%w: %d octets for 0 symbols", ErrPayloadSize, packedLen)
		}
		return nil
	}

	minLen, maxLen := table.lengthRange()
	if maxLen == 0 {
		return fmt.Errorf("%w: %d symbols with an empty code table", ErrPayloadSize, table.Count)
	}

	// Every code is at least one bit long, which bounds Count before any product is formed.
	if table.Count > uint64(packedLen)*8 || table.Count > math.MaxUint64/uint64(maxLen) {
		return fmt.Errorf("%w: %d octets cannot hold %d symbols", ErrPayloadSize, packedLen, table.Count)
	}

	lowOctets := (table.Count*uint64(minLen) + 7) / 8
	highOctets := (table.Count*uint64(maxLen) + 7) / 8
	if uint64(packedLen) < lowOctets || uint64(packedLen) > highOctets {
		return fmt.Errorf("%w: %d octets for %d symbols (expected %d..%d)",
			ErrPayloadSize, packedLen, table.Count, lowOctets, highOctets)
	}
	return nil
}

func (table *CodeTable) String() string {
	var parts []string
	for _, b := range table.Symbols() {
		parts = append(parts, fmt.Sprintf("\t%02x: %v\n", b, table.Codes[b]))
	}
	return fmt.Sprintf("CODES(%d){\n", table.Count) + strings.Join(parts, "") + "}"
}
