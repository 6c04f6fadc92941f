// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// Encoder packs byte sequences using a fixed code table.
type Encoder struct {
	table *CodeTable
}

// NewEncoder constructs an encoder for the given table.
func NewEncoder(table *CodeTable) *Encoder {
	return &Encoder{table: table}
}

// Pack appends the codeword of each byte of src, in order, to a bit stream written most significant bit first,
// and returns the stream as octets.  A trailing partial octet is padded with zero bits in its low-order
// positions, so the result has ceil(totalBits/8) octets.  Every byte of src must have a code in the table.
func (enc *Encoder) Pack(src []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(src) / 2)
	bw := bitio.NewWriter(&out)

	for i, b := range src {
		code, ok := enc.table.Code(b)
		if !ok {
			return nil, fmt.Errorf("%w: 0x%02X at offset %d", ErrSymbolNotCoded, b, i)
		}
		for offset := 0; offset < code.BitLength; offset += 8 {
			packed, n := code.extract(offset, 8)
			if err := bw.WriteBits(uint64(packed), uint8(n)); err != nil {
				return nil, err
			}
		}
	}

	if err := bw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// PackedBits returns the number of meaningful bits Pack would produce for src, excluding padding.
func (enc *Encoder) PackedBits(src []byte) (bits uint64) {
	for _, b := range src {
		bits += uint64(enc.table.Codes[b].BitLength)
	}
	return
}

// Encode counts the frequencies in src, builds its Huffman tree and code table, and packs src with it.
func Encode(src []byte) (*CodeTable, []byte, error) {
	freqs := CountFrequencies(src)
	table, wpl := BuildTree(&freqs).Codes()
	packed, err := NewEncoder(table).Pack(src)
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("packed %d symbols into %d octets, wpl %d", len(src), len(packed), wpl)
	return table, packed, nil
}
