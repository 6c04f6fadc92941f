// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package huffman

import (
	"errors"
	"fmt"
)

var (
	ErrCodeTableInconsistent = errors.New("huffman: inconsistent code table")
	ErrCodeEmpty             = errors.New("huffman: empty code specified")
	ErrSymbolNotCoded        = errors.New("huffman: symbol has no code in table")
	ErrPayloadSize           = errors.New("huffman: symbol count inconsistent with payload size")

	ErrDeadEnd          = errors.New("huffman: bit sequence matches no code")
	ErrTruncated        = errors.New("huffman: packed stream ended before symbol count was reached")
	ErrDecodersDisagree = errors.New("huffman: trie and map decoders disagree")
)

// DecodeError describes where in a packed stream decoding failed.  Err is ErrDeadEnd or ErrTruncated.
type DecodeError struct {
	Err     error
	BitPos  int
	Decoded int
}

func (de *DecodeError) Error() string {
	return fmt.Sprintf("%v (at bit %d, after %d symbols)", de.Err, de.BitPos, de.Decoded)
}

func (de *DecodeError) Unwrap() error {
	return de.Err
}
