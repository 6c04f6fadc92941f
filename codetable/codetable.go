// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package codetable reads and writes the text form of a Huffman code table.

The first line holds the decimal number of symbols in the payload the table was built from.  Each following
line describes one present symbol, in ascending byte order:

	0xBB 0xLL 0xC0 0xC1 ...

where BB is the symbol, LL the code length in bits, and C0, C1, ... the code packed eight bits per octet,
most significant bit first, with the last octet zero-padded.  All hex digits are written in upper case.
*/
package codetable

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/op/go-logging"

	"github.com/ArcherSore/HUST-CSE-ProgramDesign-2025Spring/huffman"
)

var log = logging.MustGetLogger("hfm/codetable")

var errNotAscending = errors.New("symbols must be listed once each in ascending order")

// FormatHexByte renders b as 0x followed by two upper case hex digits.
func FormatHexByte(b byte) string {
	return fmt.Sprintf("0x%02X", b)
}

// FormatLine renders the table line for one symbol.
func FormatLine(b byte, code huffman.BitString) string {
	parts := []string{FormatHexByte(b), fmt.Sprintf("0x%02X", code.BitLength)}
	octets := (code.BitLength + 7) / 8
	for _, octet := range code.Packed[:octets] {
		parts = append(parts, FormatHexByte(octet))
	}
	return strings.Join(parts, " ")
}

// Write writes table to w in text form.
func Write(w io.Writer, table *huffman.CodeTable) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d\n", table.Count); err != nil {
		return err
	}
	for _, b := range table.Symbols() {
		if _, err := fmt.Fprintln(bw, FormatLine(b, table.Codes[b])); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Marshal returns the text form of table.
func Marshal(table *huffman.CodeTable) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer do not fail.
	_ = Write(&buf, table)
	return buf.Bytes()
}

// Unmarshal parses the text form in data.
func Unmarshal(data []byte) (*huffman.CodeTable, error) {
	return Read(bytes.NewReader(data))
}

// Read parses a code table from r.  Blank lines are skipped.  Any deviation from the format yields a
// *FormatError; the returned table is also checked to be prefix-free.
func Read(r io.Reader) (*huffman.CodeTable, error) {
	scanner := bufio.NewScanner(r)
	// A 255-bit code needs 32 octets, so the longest valid line is well under the default buffer size.
	lineNo := 0
	nextLine := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				return line, true
			}
		}
		return "", false
	}

	table := &huffman.CodeTable{}
	countLine, ok := nextLine()
	if !ok {
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		return nil, &FormatError{How: FormatMissing, Line: lineNo + 1, Kind: "symbol count"}
	}
	count, err := strconv.ParseUint(countLine, 10, 64)
	if err != nil {
		return nil, &FormatError{How: FormatInvalid, Line: lineNo, Kind: "symbol count", Specific: countLine,
			Err: err}
	}
	table.Count = count
	countLineNo := lineNo

	last, longest := -1, 0
	for {
		line, ok := nextLine()
		if !ok {
			break
		}
		b, code, err := parseLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		if int(b) <= last {
			return nil, &FormatError{How: FormatUnexpected, Line: lineNo, Kind: "symbol",
				Specific: FormatHexByte(b), Err: errNotAscending}
		}
		last = int(b)
		table.Codes[b] = code
		if code.BitLength > longest {
			longest = code.BitLength
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	switch {
	case table.Count > 0 && last < 0:
		return nil, &FormatError{How: FormatMissing, Line: lineNo + 1, Kind: "symbol lines",
			Err: huffman.ErrPayloadSize}
	case table.Count == 0 && last >= 0:
		return nil, &FormatError{How: FormatInvalid, Line: countLineNo, Kind: "symbol count",
			Specific: countLine, Err: huffman.ErrPayloadSize}
	case longest > 0 && table.Count > math.MaxUint64/uint64(longest):
		// The payload would need more bits than a uint64 can count.
		return nil, &FormatError{How: FormatInvalid, Line: countLineNo, Kind: "symbol count",
			Specific: countLine, Err: huffman.ErrPayloadSize}
	}

	if err := table.Validate(); err != nil {
		return nil, &FormatError{How: FormatInvalid, Line: lineNo, Kind: "code set", Err: err}
	}
	log.Debugf("read %d codes for %d symbols, longest %d bits", table.Len(), table.Count, longest)
	return table, nil
}

func parseHexField(field string, lineNo int, kind string, bitSize int) (uint64, error) {
	if !strings.HasPrefix(field, "0x") || len(field) == 2 {
		return 0, &FormatError{How: FormatInvalid, Line: lineNo, Kind: kind, Specific: field}
	}
	v, err := strconv.ParseUint(field[2:], 16, bitSize)
	if err != nil {
		return 0, &FormatError{How: FormatInvalid, Line: lineNo, Kind: kind, Specific: field, Err: err}
	}
	return v, nil
}

func parseLine(line string, lineNo int) (byte, huffman.BitString, error) {
	var code huffman.BitString
	fields := strings.Fields(line)
	switch len(fields) {
	case 0:
		return 0, code, &FormatError{How: FormatMissing, Line: lineNo, Kind: "symbol"}
	case 1:
		return 0, code, &FormatError{How: FormatMissing, Line: lineNo, Kind: "code length"}
	}

	sym, err := parseHexField(fields[0], lineNo, "symbol", 8)
	if err != nil {
		return 0, code, err
	}
	length, err := parseHexField(fields[1], lineNo, "code length", 8)
	if err != nil {
		return 0, code, err
	}
	if length == 0 {
		return 0, code, &FormatError{How: FormatInvalid, Line: lineNo, Kind: "code length",
			Specific: fields[1], Err: huffman.ErrCodeEmpty}
	}

	octets := fields[2:]
	want := (int(length) + 7) / 8
	switch {
	case len(octets) < want:
		return 0, code, &FormatError{How: FormatMissing, Line: lineNo, Kind: "code octet",
			Specific: strconv.Itoa(len(octets))}
	case len(octets) > want:
		return 0, code, &FormatError{How: FormatUnexpected, Line: lineNo, Kind: "code octet",
			Specific: octets[want]}
	}

	code.Packed = make([]byte, want)
	for i, field := range octets {
		v, err := parseHexField(field, lineNo, "code octet", 8)
		if err != nil {
			return 0, code, err
		}
		code.Packed[i] = byte(v)
	}
	code.BitLength = int(length)
	if err := code.Check(); err != nil {
		return 0, code, &FormatError{How: FormatInvalid, Line: lineNo, Kind: "code octet",
			Specific: octets[len(octets)-1], Err: err}
	}

	return byte(sym), code, nil
}
