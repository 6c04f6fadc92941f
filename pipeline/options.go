// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package pipeline

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ArcherSore/HUST-CSE-ProgramDesign-2025Spring/huffman"
	"github.com/ArcherSore/HUST-CSE-ProgramDesign-2025Spring/obfuscate"
)

// Options configures one compression or decompression.  Decompress must be given the same Sender, Receiver,
// Obfuscate, and Key as the Compress call that produced its input.  Strategy is only used by Decompress.
type Options struct {
	Sender   string
	Receiver string

	// Obfuscate enables the obfuscation stage.  Key selects its mode; see obfuscate.New.  A Key without
	// Obfuscate is rejected with ErrKeyWithoutObfuscation.
	Obfuscate bool
	Key       []byte

	Strategy huffman.Strategy
}

// ErrTagMismatch is matched by every *ValidationError.
var ErrTagMismatch = errors.New("pipeline: tag mismatch")

// ValidationError reports that a decoded payload did not begin with the expected tag.  Found holds the
// payload's leading line, truncated, for diagnosis.
type ValidationError struct {
	Tag      string
	Expected string
	Found    string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("pipeline: %s tag mismatch: expected %q, found %q", ve.Tag, ve.Expected, ve.Found)
}

func (ve *ValidationError) Unwrap() error {
	return ErrTagMismatch
}

// ErrKeyWithoutObfuscation reports Options that carry a Key while Obfuscate is unset.
var ErrKeyWithoutObfuscation = errors.New("pipeline: key given without obfuscation")

const maxFoundLen = 64

func (opts *Options) check() error {
	if len(opts.Key) > 0 && !opts.Obfuscate {
		return ErrKeyWithoutObfuscation
	}
	return nil
}

func (opts *Options) cipher() obfuscate.Cipher {
	return obfuscate.New(opts.Key)
}

func (opts *Options) headerLen() int {
	n := 0
	for _, tag := range []string{opts.Sender, opts.Receiver} {
		if tag != "" {
			n += len(tag) + 1
		}
	}
	return n
}

// Frame returns content preceded by the non-empty tags of opts, each terminated by a newline.
func (opts *Options) Frame(content []byte) []byte {
	out := make([]byte, 0, opts.headerLen()+len(content))
	for _, tag := range []string{opts.Sender, opts.Receiver} {
		if tag != "" {
			out = append(out, tag...)
			out = append(out, '\n')
		}
	}
	return append(out, content...)
}

// Unframe checks that payload begins with the tags Frame would have written and returns the rest.  The first
// tag that does not match yields a *ValidationError.
func (opts *Options) Unframe(payload []byte) ([]byte, error) {
	rest := payload
	var err error
	if rest, err = stripTag(rest, "sender", opts.Sender); err != nil {
		return nil, err
	}
	if rest, err = stripTag(rest, "receiver", opts.Receiver); err != nil {
		return nil, err
	}
	return rest, nil
}

func stripTag(payload []byte, name, tag string) ([]byte, error) {
	if tag == "" {
		return payload, nil
	}
	if bytes.HasPrefix(payload, []byte(tag)) && len(payload) > len(tag) && payload[len(tag)] == '\n' {
		return payload[len(tag)+1:], nil
	}

	found := payload
	if i := bytes.IndexByte(found, '\n'); i >= 0 {
		found = found[:i]
	}
	if len(found) > maxFoundLen {
		found = found[:maxFoundLen]
	}
	return nil, &ValidationError{Tag: name, Expected: tag, Found: string(found)}
}
