// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package pipeline

import (
	"fmt"

	"github.com/ArcherSore/HUST-CSE-ProgramDesign-2025Spring/huffman"
	"github.com/ArcherSore/HUST-CSE-ProgramDesign-2025Spring/integrity"
)

// Result is the output of Compress.  Table.Count is the length of the framed payload, not of the content.
type Result struct {
	Table  *huffman.CodeTable
	Packed []byte
	Report *Report
}

// Compress frames, optionally obfuscates, and Huffman codes content.
func Compress(content []byte, opts Options) (*Result, error) {
	if err := opts.check(); err != nil {
		return nil, err
	}
	payload := opts.Frame(content)
	if opts.Obfuscate {
		cipher := opts.cipher()
		payload = cipher.Encrypt(payload)
		log.Debugf("obfuscated %d bytes with %v", len(payload), cipher)
	}

	freqs := huffman.CountFrequencies(payload)
	tree := huffman.BuildTree(&freqs)
	table, wpl := tree.Codes()
	log.Debugf("built code table for %d distinct symbols, wpl %d", table.Len(), wpl)

	packed, err := huffman.NewEncoder(table).Pack(payload)
	if err != nil {
		return nil, fmt.Errorf("packing payload: %w", err)
	}

	report := &Report{
		Frequencies: freqs.Sorted(),
		WPL:         wpl,
		Original:    integrity.Sum(content),
		PayloadSize: len(payload),
		Packed:      integrity.Sum(packed),
		Tail:        tail(packed, TailLength),
	}
	log.Debugf("compressed %v to %v", report.Original, report.Packed)

	return &Result{Table: table, Packed: packed, Report: report}, nil
}

// Decompress reverses Compress.  Tag validation happens after decoding; on a mismatch no content is returned.
func Decompress(table *huffman.CodeTable, packed []byte, opts Options) ([]byte, error) {
	if err := opts.check(); err != nil {
		return nil, err
	}
	payload, err := huffman.Decode(table, packed, opts.Strategy)
	if err != nil {
		return nil, err
	}
	log.Debugf("decoded %d symbols with %v decoder", len(payload), opts.Strategy)

	if opts.Obfuscate {
		payload = opts.cipher().Decrypt(payload)
	}

	content, err := opts.Unframe(payload)
	if err != nil {
		log.Debugf("rejecting payload: %v", err)
		return nil, err
	}
	log.Debugf("decompressed %v", integrity.Sum(content))
	return content, nil
}

func tail(data []byte, n int) []byte {
	if len(data) > n {
		data = data[len(data)-n:]
	}
	return append([]byte(nil), data...)
}
