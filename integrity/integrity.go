// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package integrity computes the 64-bit FNV-1a content hash shown for plaintext and packed streams.  The hash
is for human comparison only; it is not collision resistant and nothing rejects data on its basis.
*/
package integrity

import (
	"fmt"
	"hash/fnv"
	"strconv"
)

// Digest pairs a content hash with the length of the hashed data.
type Digest struct {
	Hash uint64
	Size int
}

// ContentHash returns the FNV-1a hash of data: starting from the offset basis, each byte is XORed into the
// accumulator, which is then multiplied by the FNV prime.
func ContentHash(data []byte) uint64 {
	h := fnv.New64a()
	// Writes to a hash.Hash never fail.
	_, _ = h.Write(data)
	return h.Sum64()
}

// Sum returns the Digest of data.
func Sum(data []byte) Digest {
	return Digest{ContentHash(data), len(data)}
}

// FormatHash renders h as 0x followed by lower case hex digits without leading zeros.
func FormatHash(h uint64) string {
	return "0x" + strconv.FormatUint(h, 16)
}

func (d Digest) String() string {
	return fmt.Sprintf("%s (%d bytes)", FormatHash(d.Hash), d.Size)
}
