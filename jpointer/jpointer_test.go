// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jpointer_test

import (
	"testing"

	"github.com/creachadair/flashjson"
	"github.com/creachadair/flashjson/jpointer"
)

func parse(t *testing.T, input string) ([]flashjson.Token16, []byte) {
	t.Helper()
	var tokens [64]flashjson.Token16
	p := flashjson.NewParser16()
	in := []byte(input)
	res, n := p.Parse(in, tokens[:])
	if res != flashjson.OK {
		t.Fatalf("Parse(%q) = %v, want OK", input, res)
	}
	return tokens[:n], in
}

func TestLookupObjectMember(t *testing.T) {
	tokens, in := parse(t, `{"a": 1, "b": 2}`)
	idx := jpointer.Lookup(in, tokens, "b")
	if idx < 0 {
		t.Fatalf("Lookup(b) = %d, want a valid index", idx)
	}
	if tokens[idx].Kind() != flashjson.Number {
		t.Errorf("Lookup(b) kind = %v, want Number", tokens[idx].Kind())
	}
	if got := string(in[tokens[idx].Start():tokens[idx].End()]); got != "2" {
		t.Errorf("Lookup(b) text = %q, want %q", got, "2")
	}
}

func TestLookupArrayElement(t *testing.T) {
	tokens, in := parse(t, `[10, 20, 30]`)
	idx := jpointer.Lookup(in, tokens, 1)
	if idx < 0 {
		t.Fatalf("Lookup(1) = %d, want a valid index", idx)
	}
	if got := string(in[tokens[idx].Start():tokens[idx].End()]); got != "20" {
		t.Errorf("Lookup(1) text = %q, want %q", got, "20")
	}
}

func TestLookupNegativeArrayIndex(t *testing.T) {
	tokens, in := parse(t, `[10, 20, 30]`)
	idx := jpointer.Lookup(in, tokens, -1)
	if idx < 0 {
		t.Fatalf("Lookup(-1) = %d, want a valid index", idx)
	}
	if got := string(in[tokens[idx].Start():tokens[idx].End()]); got != "30" {
		t.Errorf("Lookup(-1) text = %q, want %q", got, "30")
	}
}

func TestLookupNestedPath(t *testing.T) {
	tokens, in := parse(t, `{"a": {"b": [1, {"c": true}]}}`)
	idx := jpointer.Lookup(in, tokens, "a", "b", 1, "c")
	if idx < 0 {
		t.Fatalf("Lookup(a,b,1,c) = %d, want a valid index", idx)
	}
	if tokens[idx].Kind() != flashjson.True {
		t.Errorf("Lookup(a,b,1,c) kind = %v, want True", tokens[idx].Kind())
	}
}

func TestLookupMissingKey(t *testing.T) {
	tokens, in := parse(t, `{"a": 1}`)
	if idx := jpointer.Lookup(in, tokens, "z"); idx != -1 {
		t.Errorf("Lookup(z) = %d, want -1", idx)
	}
}

func TestLookupIndexOutOfRange(t *testing.T) {
	tokens, in := parse(t, `[1, 2]`)
	if idx := jpointer.Lookup(in, tokens, 5); idx != -1 {
		t.Errorf("Lookup(5) = %d, want -1", idx)
	}
	if idx := jpointer.Lookup(in, tokens, -5); idx != -1 {
		t.Errorf("Lookup(-5) = %d, want -1", idx)
	}
}

func TestLookupKeyIntoScalar(t *testing.T) {
	tokens, in := parse(t, `{"a": 1}`)
	if idx := jpointer.Lookup(in, tokens, "a", "b"); idx != -1 {
		t.Errorf("Lookup(a,b) = %d, want -1 (a is a scalar)", idx)
	}
}

func TestLookupIndexIntoObject(t *testing.T) {
	tokens, in := parse(t, `{"a": 1}`)
	if idx := jpointer.Lookup(in, tokens, 0); idx != -1 {
		t.Errorf("Lookup(0) = %d, want -1 (root is an object)", idx)
	}
}

func TestLookupEmptyPath(t *testing.T) {
	tokens, in := parse(t, `42 `) // trailing delimiter: a bare run of digits at EOF is Starving
	idx := jpointer.Lookup(in, tokens)
	if idx != 0 {
		t.Errorf("Lookup() = %d, want 0 (the root itself)", idx)
	}
}
