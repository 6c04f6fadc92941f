// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package pipeline

import (
	"fmt"
	"strings"

	"github.com/ArcherSore/HUST-CSE-ProgramDesign-2025Spring/huffman"
	"github.com/ArcherSore/HUST-CSE-ProgramDesign-2025Spring/integrity"
)

// TailLength is the number of trailing packed octets kept in a Report.
const TailLength = 16

const reportRule = "********************************"

// Report summarizes a compression.  Original covers the content before framing; PayloadSize is the length of
// the framed and obfuscated payload that was coded.
type Report struct {
	Frequencies []huffman.SymbolCount
	WPL         uint64
	Original    integrity.Digest
	PayloadSize int
	Packed      integrity.Digest
	Tail        []byte
}

// FormatFrequencies renders one line per symbol: the symbol in hex, a tab, and its count.
func FormatFrequencies(freqs []huffman.SymbolCount) string {
	var b strings.Builder
	for _, sc := range freqs {
		fmt.Fprintf(&b, "0x%02X\t%d\n", sc.Symbol, sc.Count)
	}
	return b.String()
}

// FormatTail renders data as space-separated 0xHH octets.
func FormatTail(data []byte) string {
	parts := make([]string, len(data))
	for i, octet := range data {
		parts[i] = fmt.Sprintf("0x%02X", octet)
	}
	return strings.Join(parts, " ")
}

func (r *Report) String() string {
	var b strings.Builder
	b.WriteString("*****Sorted Frequency List*****\n")
	b.WriteString("Byte  Freq\n")
	b.WriteString(FormatFrequencies(r.Frequencies))
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Huffman Tree WPL: %d\n", r.WPL)
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Original Data Hash: %s\n", integrity.FormatHash(r.Original.Hash))
	fmt.Fprintf(&b, "Original Data Size: %d bytes\n", r.Original.Size)
	fmt.Fprintf(&b, "Payload Size: %d bytes\n", r.PayloadSize)
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Compressed Data Hash: %s\n", integrity.FormatHash(r.Packed.Hash))
	fmt.Fprintf(&b, "Compressed Data Size: %d bytes\n", r.Packed.Size)
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Last %d Bytes of Compressed Data:\n", TailLength)
	b.WriteString(FormatTail(r.Tail) + "\n")
	b.WriteString(reportRule + "\n")
	return b.String()
}
