// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../../LICENSE.md.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/op/go-logging"

	"github.com/ArcherSore/HUST-CSE-ProgramDesign-2025Spring/codetable"
	"github.com/ArcherSore/HUST-CSE-ProgramDesign-2025Spring/huffman"
	"github.com/ArcherSore/HUST-CSE-ProgramDesign-2025Spring/integrity"
	"github.com/ArcherSore/HUST-CSE-ProgramDesign-2025Spring/pipeline"
)

var log = logging.MustGetLogger("hfmtool")

const progName = "hfmtool"
const usageMessageRaw = `
Usage: hfmtool [OPTIONS] SUBCOMMAND...

Options:
  -v
	Log every codec stage to standard error, whatever
	the level given by -log.
  -log LEVEL
	Log at LEVEL (CRITICAL, ERROR, WARNING, NOTICE, INFO,
	DEBUG).  Defaults to $HFM_LOG, or NOTICE.

Subcommands:
  compress [FLAGS] INPUT
	Huffman code INPUT.  Write the packed stream to INPUT.hfm
	and the code table to INPUT.code, and print a report.
	-o FILE           write the packed stream to FILE
	-table FILE       write the code table to FILE
	-sender TAG       prepend the sender tag TAG
	-receiver TAG     prepend the receiver tag TAG
	-encrypt          obfuscate the payload before coding
	-key KEY          obfuscate with KEY instead of the fixed offset

  decompress [FLAGS] INPUT
	Decode INPUT, which must be the packed stream written by
	compress.  If INPUT ends in .hfm, the table defaults to
	the same name ending in .code instead and the output to
	the same name ending in .out; otherwise -table and -o
	must be given.  The tag and obfuscation flags must match
	those given to compress.
	-o FILE, -table FILE, -sender TAG, -receiver TAG, -key KEY
	-decrypt          undo the obfuscation applied by -encrypt
	-decoder NAME     decode using NAME: trie, map, or both

  inspect TABLE
	Check the code table TABLE and print its codes.
`

const (
	exitUsage      = 64
	exitDataFormat = 65
	exitValidation = 66
)

type nullWriter struct{}

func (n *nullWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

var ourFlags *flag.FlagSet

func usageMessage() string {
	return strings.TrimLeft(usageMessageRaw, "\n")
}

func usageErrorf(detailFmt string, detailArgs ...interface{}) {
	detail := fmt.Sprintf(detailFmt, detailArgs...)
	fmt.Fprintf(os.Stderr, "%s: %s\n%s", progName, detail, usageMessage())
	os.Exit(exitUsage)
}

// exitStatus picks the process exit status for a failed command.
func exitStatus(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrTagMismatch), errors.Is(err, huffman.ErrDecodersDisagree):
		return exitValidation
	case errors.Is(err, codetable.ErrFormat),
		errors.Is(err, huffman.ErrPayloadSize),
		errors.Is(err, huffman.ErrDeadEnd),
		errors.Is(err, huffman.ErrTruncated),
		errors.Is(err, huffman.ErrCodeTableInconsistent),
		errors.Is(err, huffman.ErrCodeEmpty):
		return exitDataFormat
	default:
		return 1
	}
}

func exitError(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", progName, err.Error())
	os.Exit(exitStatus(err))
}

var argI int = 0

func nextArg(expected string) string {
	if !(argI < ourFlags.NArg()) {
		usageErrorf("not enough arguments; expected %s", expected)
	}
	arg := ourFlags.Arg(argI)
	argI++
	return arg
}

func remainingArgs() []string {
	slice := ourFlags.Args()[argI:]
	argI = ourFlags.NArg()
	return slice
}

func endOfArgs() {
	if argI < ourFlags.NArg() {
		usageErrorf("too many arguments at %d (\"%s\")", argI, ourFlags.Arg(argI))
	}
}

// parseSubFlags parses the arguments after the subcommand name into subFlags, which then replaces ourFlags.
func parseSubFlags(subFlags *flag.FlagSet) {
	subFlags.Usage = func() {}
	subFlags.SetOutput(&nullWriter{})

	argErr := subFlags.Parse(remainingArgs())
	if argErr == flag.ErrHelp {
		io.WriteString(os.Stdout, usageMessage())
		os.Exit(0)
	} else if argErr != nil {
		usageErrorf("%s", argErr.Error())
	}

	ourFlags = subFlags
	argI = 0
}

type tagFlags struct {
	sender, receiver string
	key              string
	keySet           bool
}

func (tf *tagFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&tf.sender, "sender", "", "")
	fs.StringVar(&tf.receiver, "receiver", "", "")
	fs.Func("key", "", func(s string) error {
		tf.key, tf.keySet = s, true
		return nil
	})
}

func (tf *tagFlags) options(obfuscate bool) pipeline.Options {
	if tf.keySet && !obfuscate {
		usageErrorf("-key requires obfuscation to be enabled")
	}
	return pipeline.Options{
		Sender:    tf.sender,
		Receiver:  tf.receiver,
		Obfuscate: obfuscate,
		Key:       []byte(tf.key),
	}
}

func compressToFiles(inputPath, outputPath, tablePath string, opts pipeline.Options) error {
	content, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	log.Infof("read %d bytes from %s", len(content), inputPath)

	res, err := pipeline.Compress(content, opts)
	if err != nil {
		return err
	}

	if err = writeFileAtomic(tablePath, func(w io.Writer) error {
		return codetable.Write(w, res.Table)
	}); err != nil {
		return err
	}
	if err = writeFileAtomic(outputPath, func(w io.Writer) error {
		_, err := w.Write(res.Packed)
		return err
	}); err != nil {
		return err
	}
	log.Infof("wrote %s and %s", outputPath, tablePath)

	io.WriteString(os.Stdout, res.Report.String())
	return nil
}

func compressFromArgs() (func() error, error) {
	subFlags := flag.NewFlagSet(progName, flag.ContinueOnError)
	outputPathPtr := subFlags.String("o", "", "")
	tablePathPtr := subFlags.String("table", "", "")
	encryptPtr := subFlags.Bool("encrypt", false, "")
	var tags tagFlags
	tags.register(subFlags)
	parseSubFlags(subFlags)

	inputPath := nextArg("INPUT")
	endOfArgs()

	if *outputPathPtr == "" {
		*outputPathPtr = inputPath + ".hfm"
	}
	if *tablePathPtr == "" {
		*tablePathPtr = inputPath + ".code"
	}
	opts := tags.options(*encryptPtr)

	return func() error {
		return compressToFiles(inputPath, *outputPathPtr, *tablePathPtr, opts)
	}, nil
}

func decompressToFile(inputPath, outputPath, tablePath string, opts pipeline.Options) error {
	begin := time.Now()

	tableFile, err := os.Open(tablePath)
	if err != nil {
		return err
	}
	table, err := codetable.Read(tableFile)
	_ = tableFile.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", tablePath, err)
	}

	packed, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	log.Infof("decoding %d octets from %s into %d symbols", len(packed), inputPath, table.Count)

	content, err := pipeline.Decompress(table, packed, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", inputPath, err)
	}

	if err = writeFileAtomic(outputPath, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	}); err != nil {
		return err
	}
	elapsed := time.Since(begin)
	log.Infof("wrote %s", outputPath)

	fmt.Fprintf(os.Stdout, "Decompressed data hash: %s\n", integrity.FormatHash(integrity.ContentHash(content)))
	fmt.Fprintf(os.Stdout, "Decompressed data size: %d\n", len(content))
	fmt.Fprintf(os.Stdout, "Decompression completed in %dms\n", elapsed.Milliseconds())
	return nil
}

func decompressFromArgs() (func() error, error) {
	subFlags := flag.NewFlagSet(progName, flag.ContinueOnError)
	outputPathPtr := subFlags.String("o", "", "")
	tablePathPtr := subFlags.String("table", "", "")
	decryptPtr := subFlags.Bool("decrypt", false, "")
	decoderPtr := subFlags.String("decoder", huffman.StrategyCrossCheck.String(), "")
	var tags tagFlags
	tags.register(subFlags)
	parseSubFlags(subFlags)

	inputPath := nextArg("INPUT")
	endOfArgs()

	if base := strings.TrimSuffix(inputPath, ".hfm"); base != inputPath {
		if *tablePathPtr == "" {
			*tablePathPtr = base + ".code"
		}
		if *outputPathPtr == "" {
			*outputPathPtr = base + ".out"
		}
	}
	if *tablePathPtr == "" {
		usageErrorf("code table must be specified")
	}
	if *outputPathPtr == "" {
		usageErrorf("output file must be specified")
	}

	strategy, err := huffman.ParseStrategy(*decoderPtr)
	if err != nil {
		usageErrorf("%s", err.Error())
	}
	opts := tags.options(*decryptPtr)
	opts.Strategy = strategy

	return func() error {
		return decompressToFile(inputPath, *outputPathPtr, *tablePathPtr, opts)
	}, nil
}

func inspectTable(tablePath string) error {
	tableFile, err := os.Open(tablePath)
	if err != nil {
		return err
	}
	defer tableFile.Close()

	table, err := codetable.Read(tableFile)
	if err != nil {
		return fmt.Errorf("%s: %w", tablePath, err)
	}

	fmt.Fprintf(os.Stdout, "Symbols in payload: %d\n", table.Count)
	fmt.Fprintf(os.Stdout, "Distinct symbols: %d\n", table.Len())
	for _, b := range table.Symbols() {
		code := table.Codes[b]
		fmt.Fprintf(os.Stdout, "%s\t%d\t%v\n", codetable.FormatHexByte(b), code.BitLength, code)
	}
	return nil
}

func inspectFromArgs() (func() error, error) {
	parseSubFlags(flag.NewFlagSet(progName, flag.ContinueOnError))
	tablePath := nextArg("TABLE")
	endOfArgs()

	return func() error {
		return inspectTable(tablePath)
	}, nil
}

// writeFileAtomic writes path through a temporary file in the same directory, so that a failure leaves any
// previous file at path untouched.
func writeFileAtomic(path string, fill func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// newLeveledBackend logs to out at level.  With verbose, the codec modules log at DEBUG regardless.
func newLeveledBackend(out io.Writer, level logging.Level, verbose bool) logging.LeveledBackend {
	backend := logging.NewLogBackend(out, progName+": ", 0)
	formatSpec := "%{color:bold}%{level:6s}%{color:reset} %{module:-14s} | %{message}"
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	if verbose {
		for _, module := range pipeline.LogModules {
			leveled.SetLevel(logging.DEBUG, module)
		}
	}
	return leveled
}

func startLogging(level logging.Level, verbose bool) {
	logging.SetBackend(newLeveledBackend(os.Stderr, level, verbose))
}

func main() {
	var err error
	ourFlags = flag.NewFlagSet(progName, flag.ContinueOnError)
	ourFlags.Usage = func() {}
	ourFlags.SetOutput(&nullWriter{})

	var verbose bool
	levelName := os.Getenv("HFM_LOG")
	ourFlags.BoolVar(&verbose, "v", false, "")
	ourFlags.StringVar(&levelName, "log", levelName, "")

	argErr := ourFlags.Parse(os.Args[1:])
	if argErr == flag.ErrHelp {
		io.WriteString(os.Stdout, usageMessage())
		os.Exit(0)
	} else if argErr != nil {
		usageErrorf("%s", argErr.Error())
	}

	level := logging.NOTICE
	if levelName != "" {
		if level, err = logging.LogLevel(levelName); err != nil {
			usageErrorf("unknown log level \"%s\"", levelName)
		}
	}
	startLogging(level, verbose)

	var requestedCommand func() error
	subcommandArg := nextArg("SUBCOMMAND")
	switch subcommandArg {
	default:
		usageErrorf("unrecognized subcommand \"%s\"", subcommandArg)
	case "compress":
		requestedCommand, err = compressFromArgs()
	case "decompress":
		requestedCommand, err = decompressFromArgs()
	case "inspect":
		requestedCommand, err = inspectFromArgs()
	}

	if err != nil {
		exitError(err)
	}

	err = requestedCommand()
	if err != nil {
		exitError(err)
	}
}
