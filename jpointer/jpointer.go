// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jpointer resolves a sequence of object keys and array indices
// against a token array produced by a flashjson.Parser, in the style of
// RFC 6901 JSON Pointer, without ever materializing a tree of values.
//
// A path is a sequence of steps, each either a string (an object member
// key) or an int (an array element index). Lookup walks the flat,
// parent-linked token array directly, the same way a query such as
// tq.Path walks a fully decoded ast.Value tree, but it allocates nothing
// beyond the path arguments the caller already supplied.
package jpointer

import "github.com/creachadair/flashjson"

// Step is one element of a path passed to Lookup: either a string object
// key or an int array index.
type Step any

// TokenReader is the minimal view of a token a caller must supply so
// Lookup can work for either the narrow or wide profile, or a caller's own
// richer token type embedding one of them.
type TokenReader interface {
	Kind() flashjson.Type
	Parent() int
	Start() int
	End() int
	ElementCount() int
}

// Lookup resolves path against tokens, which must be the complete,
// contiguous result of a single Parse call (the first token is the
// document root). It returns the index of the token named by path, or -1
// if no such value exists — path names a key absent from an object, an
// index out of range of an array, or indexes into a scalar.
//
// Lookup needs the raw input bytes alongside tokens because an object
// member's key text is only available by slicing the original buffer at
// the key token's span; it does not decode escapes, so keys containing
// escape sequences must be given exactly as they appear in the source,
// quotation marks excluded.
func Lookup[Tok any, PT interface {
	*Tok
	TokenReader
}](in []byte, tokens []Tok, path ...Step) int {
	if len(tokens) == 0 {
		return -1
	}
	cur := 0
	for _, step := range path {
		next, ok := descend[Tok, PT](in, tokens, cur, step)
		if !ok {
			return -1
		}
		cur = next
	}
	return cur
}

// descend resolves a single path step from the token at index cur.
func descend[Tok any, PT interface {
	*Tok
	TokenReader
}](in []byte, tokens []Tok, cur int, step Step) (int, bool) {
	tok := PT(&tokens[cur])
	switch key := step.(type) {
	case string:
		if tok.Kind() != flashjson.Object {
			return 0, false
		}
		return findMember[Tok, PT](in, tokens, cur, key)
	case int:
		if tok.Kind() != flashjson.Array {
			return 0, false
		}
		return findElement[Tok, PT](tokens, cur, key)
	default:
		return 0, false
	}
}

// findMember scans the immediate children of the object token at objIdx
// for a Key token whose raw (still-quoted) text equals `"key"`, and
// returns the index of that key's paired value token, which always
// immediately follows the key in allocation order.
func findMember[Tok any, PT interface {
	*Tok
	TokenReader
}](in []byte, tokens []Tok, objIdx int, key string) (int, bool) {
	for i := objIdx + 1; i < len(tokens); i++ {
		tok := PT(&tokens[i])
		if tok.Parent() < objIdx {
			break // past the end of this object's subtree
		}
		if tok.Parent() != objIdx || tok.Kind() != flashjson.Key {
			continue
		}
		if keyMatches[Tok](in, tok, key) {
			return i + 1, i+1 < len(tokens) // the value follows its key
		}
	}
	return 0, false
}

// keyMatches reports whether the raw quoted text of a Key token spells the
// given plain key, without unescaping either side.
func keyMatches[Tok any](in []byte, tok interface{ Start() int; End() int }, key string) bool {
	raw := in[tok.Start()+1 : tok.End()-1] // strip quotes
	return string(raw) == key
}

// findElement scans the immediate children of the array token at arrIdx
// and returns the index of the idx-th one (0-based), or the one
// len(children)+idx-th from the end if idx is negative.
func findElement[Tok any, PT interface {
	*Tok
	TokenReader
}](tokens []Tok, arrIdx int, idx int) (int, bool) {
	n := 0
	for i := arrIdx + 1; i < len(tokens); i++ {
		tok := PT(&tokens[i])
		if tok.Parent() < arrIdx {
			break
		}
		if tok.Parent() == arrIdx {
			n++
		}
	}
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, false
	}
	for i := arrIdx + 1; ; i++ {
		if PT(&tokens[i]).Parent() == arrIdx {
			if idx == 0 {
				return i, true
			}
			idx--
		}
	}
}
