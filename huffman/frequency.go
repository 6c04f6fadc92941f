// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"sort"
)

// Frequencies holds the occurrence count of every byte value in some input.
type Frequencies [totalSymbols]uint64

// SymbolCount pairs a byte value with its occurrence count.
type SymbolCount struct {
	Symbol byte
	Count  uint64
}

// CountFrequencies tallies each byte value in data.  Empty input yields all-zero counts.
func CountFrequencies(data []byte) (freqs Frequencies) {
	for _, b := range data {
		freqs[b]++
	}
	return
}

// Total returns the sum of all counts, which equals the length of the counted input.
func (freqs *Frequencies) Total() (total uint64) {
	for _, n := range freqs {
		total += n
	}
	return
}

// Distinct returns the number of byte values with a non-zero count.
func (freqs *Frequencies) Distinct() (n int) {
	for _, count := range freqs {
		if count > 0 {
			n++
		}
	}
	return
}

// Sorted lists the present byte values in merge order: ascending count, ties by ascending byte value.
func (freqs *Frequencies) Sorted() []SymbolCount {
	out := make([]SymbolCount, 0, totalSymbols)
	for i, count := range freqs {
		if count > 0 {
			out = append(out, SymbolCount{byte(i), count})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count < out[j].Count
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}
