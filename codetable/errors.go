// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package codetable

import (
	"errors"
	"fmt"
)

// ErrFormat is matched by every *FormatError.
var ErrFormat = errors.New("codetable: malformed code table")

// FormatErrorHow describes whether the field referenced in a FormatError is missing, unexpected (present but
// without a place in the format), or invalid (present when expected but with an uninterpretable value).
type FormatErrorHow int

const (
	FormatErrorUnknown FormatErrorHow = iota
	FormatMissing
	FormatUnexpected
	FormatInvalid
)

// FormatError describes a problem with one field of a persisted code table.  Line is 1-based.  Specific may
// be empty when the whole line is at fault.  Err, if not nil, is the underlying cause.
type FormatError struct {
	How      FormatErrorHow
	Line     int
	Kind     string
	Specific string
	Err      error
}

func (fe *FormatError) Error() string {
	var str string
	switch fe.How {
	case FormatErrorUnknown:
		str = "??? "
	case FormatMissing:
		str = "missing "
	case FormatUnexpected:
		str = "unexpected "
	case FormatInvalid:
		str = "invalid "
	}

	str = fmt.Sprintf("codetable: line %d: %s%s", fe.Line, str, fe.Kind)
	if fe.Specific != "" {
		str += " '" + fe.Specific + "'"
	}
	if fe.Err != nil {
		str += ": " + fe.Err.Error()
	}
	return str
}

func (fe *FormatError) Unwrap() error {
	return fe.Err
}

// Is makes every FormatError match ErrFormat.
func (fe *FormatError) Is(target error) bool {
	return target == ErrFormat
}
