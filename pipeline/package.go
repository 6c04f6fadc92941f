// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

/*
Package pipeline chains the stages of a compression run: tag framing, obfuscation, Huffman coding, and
integrity hashing, and reverses them on decompression.

Compress prepends each non-empty tag followed by a newline to the content (sender first), optionally
obfuscates the framed payload, and Huffman codes the result.  The code table and packed stream it returns are
all Decompress needs besides the same Options: Decompress decodes, undoes the obfuscation, and requires both
tags to match exactly before returning the content that follows them.

Every call is independent of every other; the package keeps no state between calls.
*/
package pipeline

import (
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("hfm/pipeline")

// LogModules lists the logging modules of the codec packages, all of which log at DEBUG only.
var LogModules = []string{
	"hfm/huffman",
	"hfm/codetable",
	"hfm/pipeline",
}
