// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package huffman implements a byte-oriented Huffman codec for 256-symbol alphabets: frequency analysis, tree
construction, code table generation, bit packing, and two interchangeable decoders (a trie walk and an
incremental map lookup) that agree bit for bit.

Codes are held as BitStrings, packed most significant bit first, which is also the layout used when a code
table is persisted by package codetable.
*/
package huffman

import (
	"errors"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("hfm/huffman")

type symbol uint8

const totalSymbols = 256

// BitString represents a packed bit string.  Within each octet, bits are addressed most significant first.
//
// Invariants:
//   - 0 <= BitLength <= len(Packed)*8
//   - if BitLength%8 != 0, the low (8 - BitLength%8) bits of Packed[BitLength/8] are zero
type BitString struct {
	Packed    []uint8
	BitLength int
}

var (
	ErrBitStringShort   = errors.New("huffman: bit string with insufficient octets to represent it")
	ErrBitStringNegLen  = errors.New("huffman: bit string with negative length")
	ErrBitStringPadding = errors.New("huffman: bit string with extraneous nonzero bits in representation")
)

// ParseBits builds a BitString from a string of '0' and '1' characters.  Any other character is treated as
// a one bit; callers are expected to pass literal codes.
func ParseBits(s string) BitString {
	var bs BitString
	for i := 0; i < len(s); i++ {
		bs = bs.Append(s[i] != '0')
	}
	return bs
}

// Append returns a new BitString with one extra bit at the end.  bs itself is not modified, so a prefix may
// be shared between several extensions.
func (bs BitString) Append(bit bool) BitString {
	packed := make([]byte, (bs.BitLength+8)/8)
	copy(packed, bs.Packed)
	if bit {
		packed[bs.BitLength/8] |= 1 << uint(7-bs.BitLength%8)
	}
	return BitString{packed, bs.BitLength + 1}
}

// Bit returns the bit at offset i, which must be in [0, BitLength).
func (bs BitString) Bit(i int) bool {
	if i < 0 || i >= bs.BitLength {
		panic("huffman: bit index out of range")
	}
	return (bs.Packed[i/8]>>uint(7-i%8))&1 == 1
}

// Equal reports whether bs and other hold the same bits.
func (bs BitString) Equal(other BitString) bool {
	return bs.BitLength == other.BitLength && bs.HasPrefix(other)
}

// HasPrefix reports whether prefix is a prefix of bs.
func (bs BitString) HasPrefix(prefix BitString) bool {
	if prefix.BitLength > bs.BitLength {
		return false
	}
	for i := 0; i < prefix.BitLength; i++ {
		if bs.Bit(i) != prefix.Bit(i) {
			return false
		}
	}
	return true
}

// extract extracts req bits starting from offset, where 0 <= req <= 8 and 0 <= offset.  offset may point
// outside the BitString.
func (bs BitString) extract(offset int, req int) (packed uint8, n int) {
	avail := bs.BitLength - offset
	switch {
	case offset < 0:
		panic("huffman: extract from invalid negative offset")
	case req < 0:
		panic("huffman: extract invalid negative number of bits")
	case 8 < req:
		panic("huffman: extract too many bits")
	case req == 0 || avail <= 0:
		return
	case req < avail:
		n = req
	default:
		n = avail
	}

	// The result is right-aligned: the n extracted bits occupy the low bits of packed.
	for i := 0; i < n; i++ {
		packed <<= 1
		if bs.Bit(offset + i) {
			packed |= 1
		}
	}
	return
}

// Check returns an error if any of the invariants are invalid for bs.
func (bs BitString) Check() error {
	switch {
	case !(0 <= bs.BitLength):
		return ErrBitStringNegLen
	case !(bs.BitLength <= len(bs.Packed)*8):
		return ErrBitStringShort
	}

	if bs.BitLength%8 != 0 {
		// Conversion safety: 0 < bs.BitLength%8 <= 7.
		shift := uint(8 - bs.BitLength%8)
		lowBits := bs.Packed[bs.BitLength/8] & (uint8(1)<<shift - 1)
		if lowBits != 0 {
			return ErrBitStringPadding
		}
	}
	return nil
}

// key renders the bits as a string of '0' and '1' characters, for use as a map key.
func (bs BitString) key() string {
	out := make([]byte, bs.BitLength)
	for i := range out {
		if bs.Bit(i) {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

func (bs BitString) String() string {
	return "#*" + bs.key()
}
