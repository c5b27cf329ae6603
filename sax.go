// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package flashjson

import "fmt"

// A Handler receives events from Run corresponding to the structure of a
// document, in the order they occur in the input. If a method reports an
// error, Run stops and returns that error; Run itself never panics, even
// on malformed input.
//
// A Tok argument names a token by value, not by reference, so it remains
// valid for as long as the caller likes.
type Handler[Tok any] interface {
	// BeginObject reports the opening brace of a new object.
	BeginObject(tok Tok) error

	// EndObject reports the close of the most recently opened object.
	EndObject() error

	// BeginArray reports the opening bracket of a new array.
	BeginArray(tok Tok) error

	// EndArray reports the close of the most recently opened array.
	EndArray() error

	// BeginMember reports an object member's key. The key's text is still
	// quoted; call Unescape to decode it.
	BeginMember(key Tok) error

	// EndMember reports the end of the current object member, once its
	// value is complete.
	EndMember() error

	// Value reports a scalar value: a String, Number, True, False, or
	// Null token.
	Value(tok Tok) error

	// EndOfInput reports that the document is complete.
	EndOfInput()
}

// SyntaxError is returned by Run when the input is not well-formed JSON.
type SyntaxError struct {
	Pos      int
	Location LineCol
	Message  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("at %d:%d (byte %d): %s", e.Location.Line, e.Location.Column, e.Pos, e.Message)
}

func newSyntaxError(in []byte, pos int, msg string) *SyntaxError {
	return &SyntaxError{Pos: pos, Location: locationAt(in, pos), Message: msg}
}

// saxFrame tracks, for one level of Run's own container stack, whether the
// open container is an object and whether it is waiting for a value to
// pair with a key it has already reported via BeginMember.
type saxFrame struct {
	isObject      bool
	pendingMember bool
}

// Run drives ParseOne over in, delivering Begin/End/Value events to h for
// each token in document order. It keeps its own bounded container stack,
// mirroring the one ParseOne keeps internally, so it knows when a value
// completes an object member and can emit the matching EndMember call.
// Like ParseOne itself, a document nested more than maxOneTokenDepth
// levels deep is reported as a SyntaxError rather than growing the stack
// without bound.
//
// Run returns *SyntaxError for malformed input, or whatever error a
// Handler method reports, unmodified.
func Run[Tok any, PT tokenSink[Tok]](in []byte, h Handler[Tok]) error {
	var p Parser[Tok, PT]
	p.Reset()

	var frames [maxOneTokenDepth]saxFrame
	depth := 0

	for {
		var tok Tok
		r := p.ParseOne(in, PT(&tok))

		switch {
		case r < 0:
			return newSyntaxError(in, p.Pos(), r.String())

		case r == SaveSuper:
			if depth >= maxOneTokenDepth {
				return newSyntaxError(in, p.Pos(), "maximum nesting depth exceeded")
			}
			isObject := PT(&tok).Kind() == Object
			if isObject {
				if err := h.BeginObject(tok); err != nil {
					return err
				}
			} else {
				if err := h.BeginArray(tok); err != nil {
					return err
				}
			}
			frames[depth] = saxFrame{isObject: isObject}
			depth++

		case r == RestoreSuper || (r == Finished && PT(&tok).Kind() == Invalid):
			depth--
			f := frames[depth]
			var err error
			if f.isObject {
				err = h.EndObject()
			} else {
				err = h.EndArray()
			}
			if err != nil {
				return err
			}
			if depth > 0 && frames[depth-1].pendingMember {
				frames[depth-1].pendingMember = false
				if err := h.EndMember(); err != nil {
					return err
				}
			}
			if r == Finished {
				h.EndOfInput()
				return nil
			}

		default: // OneTokenFound or a scalar Finished: tok names a Key or a scalar value
			if PT(&tok).Kind() == Key {
				if err := h.BeginMember(tok); err != nil {
					return err
				}
				frames[depth-1].pendingMember = true
			} else {
				if err := h.Value(tok); err != nil {
					return err
				}
				if depth > 0 && frames[depth-1].pendingMember {
					frames[depth-1].pendingMember = false
					if err := h.EndMember(); err != nil {
						return err
					}
				}
			}
			if r == Finished {
				h.EndOfInput()
				return nil
			}
		}
	}
}
