// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package flashjson

import "fmt"

// A Cursor navigates a document using ParseOne, one value at a time,
// without ever materializing a token array or a tree. It is the streaming
// counterpart of a conventional AST cursor: Down resolves a path of object
// keys and array indices by skipping past the values it does not need and
// stopping on the one it does, so the cost of reaching a path is
// proportional to how far into the document it lies, not to the size of
// the whole document.
//
// A Cursor owns its own Parser and its own fixed-depth container stack
// (see maxOneTokenDepth); it does not share state with any other parsing
// mode over the same input.
type Cursor[Tok any, PT tokenSink[Tok]] struct {
	p   Parser[Tok, PT]
	in  []byte
	cur Tok
	err error
}

// NewCursor constructs a Cursor over in, positioned before the document's
// root value.
func NewCursor[Tok any, PT tokenSink[Tok]](in []byte) *Cursor[Tok, PT] {
	c := &Cursor[Tok, PT]{in: in}
	c.p.Reset()
	return c
}

// Err returns the error, if any, recorded by the most recent call to Down.
func (c *Cursor[Tok, PT]) Err() error { return c.err }

// Token returns the token most recently reached by Down.
func (c *Cursor[Tok, PT]) Token() Tok { return c.cur }

// Down advances the cursor to the value located by path, a sequence of
// string object-member keys and int array-element indices, relative to
// the cursor's current position. The first call to Down implicitly reads
// the document's root value before resolving the first path element
// against it, exactly as if the root were itself reached by an empty
// initial step.
//
// If the path cannot be resolved — a key is absent, an index is out of
// range, or a step tries to index into a scalar — Down stops and records
// an error, retrievable with Err; the cursor's position is left at the
// last value it successfully reached.
func (c *Cursor[Tok, PT]) Down(path ...any) *Cursor[Tok, PT] {
	c.err = nil
	if err := c.enterRoot(); err != nil {
		c.err = err
		return c
	}
	for _, step := range path {
		if err := c.descend(step); err != nil {
			c.err = err
			return c
		}
	}
	return c
}

// enterRoot reads the document's root value into c.cur if that has not
// already happened.
func (c *Cursor[Tok, PT]) enterRoot() error {
	if c.p.state != stateExpectValue || c.p.oneDepth != 0 || PT(&c.cur).Kind() != Invalid {
		return nil
	}
	return c.readOne()
}

func (c *Cursor[Tok, PT]) readOne() error {
	tok := PT(&c.cur)
	r := c.p.ParseOne(c.in, tok)
	if r < 0 {
		return c.parseErr(r)
	}
	return nil
}

// descend resolves one path element relative to c.cur, leaving c.cur at
// the reached value.
func (c *Cursor[Tok, PT]) descend(step any) error {
	cur := PT(&c.cur)
	switch key := step.(type) {
	case string:
		if cur.Kind() != Object {
			return fmt.Errorf("cannot traverse %v with key %q", cur.Kind(), key)
		}
		return c.findMember(key)
	case int:
		if cur.Kind() != Array {
			return fmt.Errorf("cannot traverse %v with index %d", cur.Kind(), key)
		}
		return c.findElement(key)
	default:
		return fmt.Errorf("invalid path element %T", step)
	}
}

// findMember enters the object currently under the cursor (via SaveSuper)
// and reads key/value pairs until it finds one whose key matches, leaving
// c.cur at the matching value. Unwanted values are skipped whole via
// skipValue rather than decoded.
func (c *Cursor[Tok, PT]) findMember(key string) error {
	for {
		keyTok := PT(&c.cur)
		r := c.p.ParseOne(c.in, keyTok)
		if r < 0 {
			return c.parseErr(r)
		}
		if r == RestoreSuper || r == Finished {
			return fmt.Errorf("key %q not found", key)
		}
		match := keyTok.Kind() == Key && c.keyEquals(keyTok, key)

		var val Tok
		if err := c.readValue(PT(&val)); err != nil {
			return err
		}
		if match {
			c.cur = val
			return nil
		}
		if err := c.skipValue(PT(&val)); err != nil {
			return err
		}
	}
}

// findElement enters the array currently under the cursor and skips
// forward idx elements (supporting negative indices by first counting the
// array with GetCurrentContainerCount), leaving c.cur at the idx-th
// element.
func (c *Cursor[Tok, PT]) findElement(idx int) error {
	if idx < 0 {
		arr := PT(&c.cur)
		n := GetCurrentContainerCount[Tok, PT](c.in, arr)
		idx += n
		if idx < 0 {
			return fmt.Errorf("array index out of range")
		}
	}
	for i := 0; ; i++ {
		var val Tok
		r := c.p.ParseOne(c.in, PT(&val))
		if r == RestoreSuper || r == Finished {
			return fmt.Errorf("array index %d out of range", idx)
		}
		if r < 0 {
			return c.parseErr(r)
		}
		if i == idx {
			c.cur = val
			return nil
		}
		if err := c.skipValue(PT(&val)); err != nil {
			return err
		}
	}
}

// readValue reads the next value's first token into dst: a scalar whole,
// or only the opening token of a container. For a container, the container's
// contents must be consumed by the caller (via skipValue or further
// navigation) before the next sibling can be read. The object or array
// currently under the cursor has already had its SaveSuper transition
// consumed by whichever call produced c.cur, so ParseOne is already
// positioned to read the container's first member or element.
func (c *Cursor[Tok, PT]) readValue(dst PT) error {
	r := c.p.ParseOne(c.in, dst)
	if r < 0 {
		return c.parseErr(r)
	}
	return nil
}

// skipValue discards the value just read into tok: nothing further is
// needed for a scalar, but for a container every member or element up to
// its matching close must be drained from the parser.
func (c *Cursor[Tok, PT]) skipValue(tok PT) error {
	switch tok.Kind() {
	case Object, Array:
	default:
		return nil
	}
	depth := 1
	var scratch Tok
	for depth > 0 {
		r := c.p.ParseOne(c.in, PT(&scratch))
		switch r {
		case SaveSuper:
			depth++
		case RestoreSuper:
			depth--
		case Finished:
			return nil
		default:
			if r < 0 {
				return c.parseErr(r)
			}
		}
	}
	return nil
}

// keyEquals reports whether the raw (still-quoted) text of a Key token
// spells the given plain key.
func (c *Cursor[Tok, PT]) keyEquals(tok PT, key string) bool {
	raw := c.in[tok.Start()+1 : tok.End()-1]
	return string(raw) == key
}

// parseErr wraps a negative Result from the underlying ParseOne call with
// the line and column it occurred at.
func (c *Cursor[Tok, PT]) parseErr(r Result) error {
	lc := locationAt(c.in, c.p.Pos())
	return fmt.Errorf("%s at %d:%d (byte %d)", r, lc.Line, lc.Column, c.p.Pos())
}
