// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package flashjson

// GetCurrentContainerCount scans forward from the position of an
// Object or Array token that has just been reported by ParseOne (i.e. the
// SaveSuper result was returned for it) and counts its immediate children,
// without disturbing the parser's own position or state.
//
// This lets a ParseOne-driven caller size a single fixed array for a
// container's members instead of growing a dynamic structure as it parses,
// at the cost of scanning that container's bytes twice. It is an O(n)
// operation bounded by the size of the container, so it should be reserved
// for containers known to be small; counting the root object of a large
// document this way is as expensive as parsing the document itself.
//
// GetCurrentContainerCount only examines tok if it names an Object or
// Array; for any other Type it returns 0.
func GetCurrentContainerCount[Tok any, PT tokenSink[Tok]](in []byte, tok PT) int {
	switch tok.Kind() {
	case Object, Array:
	default:
		return 0
	}

	var scratch Tok
	scratchPT := PT(&scratch)

	scan := Parser[Tok, PT]{
		pos:   tok.Start() + 1,
		state: stateValueOrCloseOf(tok.Kind()),
	}
	// The scan starts already inside the container being counted, so its
	// own container stack must record that one level of nesting up front;
	// otherwise finishOneValue and closeOneContainer read oneDepth == 0 as
	// "back at the document root" after the container's first child and
	// report Finished far too early.
	scan.oneKind[0] = tok.Kind() == Object
	scan.oneDepth = 1

	count := 0
	depth := 0
	for {
		r := scan.ParseOne(in, scratchPT)
		switch r {
		case OneTokenFound:
			if depth == 0 {
				count++
			}
		case SaveSuper:
			if depth == 0 {
				count++
			}
			depth++
		case RestoreSuper:
			depth--
		case Finished:
			return count
		default:
			if r < 0 {
				return count
			}
		}
	}
}

// stateValueOrCloseOf reports the grammar state to resume scanning in
// immediately after a container's opening delimiter, depending on whether
// it is an object (expect a key or close) or an array (expect a value or
// close).
func stateValueOrCloseOf(k Type) GrammarState {
	if k == Object {
		return stateExpectKey
	}
	return stateExpectValue
}
