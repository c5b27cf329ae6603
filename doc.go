// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package flashjson implements a streaming JSON tokenizer built for
// severely constrained environments: it performs no heap allocation, it
// never panics on malformed input, and every outcome is reported through a
// Result code rather than an error value.
//
// # Token representation
//
// A parse fills a caller-supplied array of tokens describing the shape of
// a document: each token records its Type, the byte span (or, for Object
// and Array, the child count) it covers, and the index of its enclosing
// container. Two token widths are available. Token16 packs a token into 8
// bytes using signed 16-bit offsets, suitable for documents under 32KiB
// with fewer than 4096 nested containers. TokenW[T] trades that
// compactness for headroom, parameterized over a wider index type such as
// int32 or int64.
//
//	var tokens [256]flashjson.Token16
//	p := flashjson.NewParser16()
//	res, n := p.Parse(input, tokens[:])
//	if res != flashjson.OK {
//	    log.Fatalf("parse failed: %v at byte %d", res, p.Pos())
//	}
//	for _, tok := range tokens[:n] {
//	    log.Printf("%v at %d..%d", tok.Kind(), tok.Start(), tok.End())
//	}
//
// # Three parsing modes, one engine
//
// Parse fills a token array in one pass. ParseOne instead extracts a single
// token per call, letting a caller walk an arbitrarily large document
// without ever holding more than one token in memory; it tracks the open
// containers on a fixed-depth stack of its own, so the caller keeps no
// stack (see its doc comment). PartialParse
// resumes a Parse that ran out of input, compacting the token array and
// the input buffer so a document can be streamed in from a source like a
// socket without first buffering it whole.
//
// All three share the same lexical and syntactic state machine and the
// same Result vocabulary, so a caller can freely start with Parse and fall
// back to PartialParse the moment it reports Starving.
//
// # Strings
//
// Tokens do not carry decoded string content; String and Key tokens name a
// still-quoted, still-escaped span of the input. Call Unescape to decode
// one in place.
package flashjson
