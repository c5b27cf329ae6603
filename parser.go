// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package flashjson

// A tokenSink is the minimal interface the core scanning routines need in
// order to allocate and fill in-place token records, regardless of which
// concrete width profile (Token16 or TokenW[T]) is in use.
//
// The core never keeps a tokenSink value around between calls; it is built
// fresh (as a thin wrapper over the caller's slice) on every entry point, so
// there is nothing here for the compiler to box or allocate.
type tokenSink[Tok any] interface {
	*Tok
	ID() int
	Kind() Type
	Parent() int
	Start() int
	End() int
	ElementCount() int
	ChangeType(Type)
	init(id int, k Type, parent, start int)
	setEnd(int)
	setElementCount(int)
}

// maxOneTokenDepth bounds the container nesting depth ParseOne can track on
// its own account. The bulk Parse and PartialParse modes have no such limit
// — they consult the token array itself for a container's kind — but
// ParseOne deliberately keeps no token array, so it must remember object-vs-
// array for each currently-open container in a fixed-size field instead of
// an unbounded stack, to preserve the no-heap-allocation guarantee.
const maxOneTokenDepth = 64

// Parser implements the shared lexical and syntactic engine described by
// this package: a single deterministic state machine drives bulk Parse,
// single-step ParseOne, and resumable PartialParse alike. A Parser performs
// no heap allocation and never panics on malformed input; every entry point
// reports its outcome as a Result.
//
// The zero value is not ready for use; call Reset before the first call to
// any parsing method, or use NewParser.
type Parser[Tok any, PT tokenSink[Tok]] struct {
	pos    int // current byte offset into the input
	next   int // index of the next token slot to allocate
	super  int // index of the innermost open container token, or -1
	lastID int

	state GrammarState

	// pendingKeyTok and pendingKeyOwner track an object member key that has
	// been read but whose value has not yet completed, which PartialParse
	// must keep alive across compaction even though the token holds no
	// structural link to the value it introduces.
	pendingKeyTok   int
	pendingKeyOwner int

	// oneKind and oneDepth support ParseOne's container-kind tracking; see
	// maxOneTokenDepth.
	oneKind  [maxOneTokenDepth]bool
	oneDepth int
}

// NewParser returns a Parser ready to begin parsing from the start of a
// fresh input. Most callers want the narrow-profile NewParser16 or the
// wide-profile NewParserW instead, which fix PT so the token type need not
// be spelled out at every call site.
func NewParser[Tok any, PT tokenSink[Tok]]() *Parser[Tok, PT] {
	p := new(Parser[Tok, PT])
	p.Reset()
	return p
}

// NewParser16 returns a Parser using the packed, 8-byte Token16 profile.
func NewParser16() *Parser[Token16, *Token16] { return NewParser[Token16, *Token16]() }

// NewParserW returns a Parser using the wide TokenW[T] profile with the
// given index type, e.g. NewParserW[int32]() for documents too large for
// Token16's 16-bit offsets.
func NewParserW[T Index]() *Parser[TokenW[T], *TokenW[T]] {
	return NewParser[TokenW[T], *TokenW[T]]()
}

// Reset restores p to pristine conditions, as if newly constructed. Callers
// must call Reset between unrelated documents; it does not touch any token
// array or input buffer.
func (p *Parser[Tok, PT]) Reset() {
	p.pos = 0
	p.next = 0
	p.super = -1
	p.lastID = 0
	p.state = stateExpectValue
	p.pendingKeyTok = -1
	p.pendingKeyOwner = -1
	p.oneDepth = 0
}

// Pos reports the current byte offset of the parser into the input last
// given to Parse, ParseOne, or PartialParse. After a failed parse, Pos
// identifies the offset at which the error was detected.
func (p *Parser[Tok, PT]) Pos() int { return p.pos }

// State reports the parser's current grammar state. Resumable callers that
// drive PartialParse across refills do not need this value directly — it is
// carried internally — but it is exposed for diagnostics.
func (p *Parser[Tok, PT]) State() GrammarState { return p.state }

// Parse scans in and fills tokens with the sequence of tokens describing
// its structure, starting at the parser's current position. On success it
// returns OK together with the number of tokens used. On failure it
// returns NotEnoughTokens if tokens was too small to hold the document,
// InvalidInput if in is not well-formed JSON, or Starving if in ended before
// a complete document was seen (the caller may retry with more data via
// PartialParse).
//
// Parse tolerates a small amount of trailing garbage after the first
// complete value, and it does not verify that the document contains only a
// single root value followed by nothing else: "{}{}" parses the first
// object and returns without error, exactly as the original design intends.
func (p *Parser[Tok, PT]) Parse(in []byte, tokens []Tok) (Result, int) {
	for {
		res, done := p.step(in, tokens)
		if res != OK {
			return res, p.next
		}
		if done {
			return OK, p.next
		}
	}
}

// step executes one lexical+syntactic transition of the bulk parser. It
// returns a nonzero Result on error, or done == true once the root value has
// been fully consumed.
func (p *Parser[Tok, PT]) step(in []byte, tokens []Tok) (res Result, done bool) {
	if p.state == stateDone {
		return 0, true
	}

	p.skipSpace(in)
	if p.pos >= len(in) {
		return Starving, false
	}
	ch := in[p.pos]

	switch p.state {
	case stateExpectKey:
		if ch == '}' {
			return p.closeContainer(tokens, Object)
		}
		if ch != '"' {
			return InvalidInput, false
		}
		tid, r := p.allocToken(tokens, Key, p.super, p.pos)
		if r != 0 {
			return r, false
		}
		end, r := p.scanString(in, p.pos)
		if r != 0 {
			return r, false
		}
		PT(&tokens[tid]).setEnd(end)
		p.pos = end
		p.state = stateExpectColon
		p.pendingKeyTok = tid
		p.pendingKeyOwner = p.super
		return 0, false

	case stateExpectColon:
		if ch != ':' {
			return InvalidInput, false
		}
		p.pos++
		p.state = stateExpectValue
		return 0, false

	case stateExpectComma:
		switch ch {
		case ',':
			p.pos++
			p.state = p.stateAfterComma(tokens)
			return 0, false
		case '}':
			return p.closeContainer(tokens, Object)
		case ']':
			return p.closeContainer(tokens, Array)
		}
		return InvalidInput, false

	case stateExpectValue:
		// A ']' whose previous non-space byte is its own '[' closes an
		// empty array; anywhere else a value is required here.
		if ch == ']' {
			j := p.pos - 1
			for j >= 0 && isSpace(in[j]) {
				j--
			}
			if j >= 0 && in[j] == '[' {
				return p.closeContainer(tokens, Array)
			}
		}
		return p.parseValue(in, tokens, ch)
	}
	return InvalidInput, false
}

// stateAfterComma reports the grammar state to resume in once a comma has
// been consumed, which depends on whether the enclosing container is an
// object (expect another key) or an array (expect another value).
func (p *Parser[Tok, PT]) stateAfterComma(tokens []Tok) GrammarState {
	if p.super >= 0 && PT(&tokens[p.super]).Kind() == Object {
		return stateExpectKey
	}
	return stateExpectValue
}

// parseValue consumes a single JSON value of any type at the parser's
// current position, given the already-peeked lookahead byte ch.
func (p *Parser[Tok, PT]) parseValue(in []byte, tokens []Tok, ch byte) (Result, bool) {
	switch {
	case ch == '{':
		tid, r := p.allocToken(tokens, Object, p.super, p.pos)
		if r != 0 {
			return r, false
		}
		p.pos++
		p.super = tid
		p.state = stateExpectKey
		return p.afterOpen(in)

	case ch == '[':
		tid, r := p.allocToken(tokens, Array, p.super, p.pos)
		if r != 0 {
			return r, false
		}
		p.pos++
		p.super = tid
		p.state = stateExpectValue
		return p.afterOpen(in)

	case ch == '"':
		tid, r := p.allocToken(tokens, String, p.super, p.pos)
		if r != 0 {
			return r, false
		}
		end, r := p.scanString(in, p.pos)
		if r != 0 {
			return r, false
		}
		PT(&tokens[tid]).setEnd(end)
		p.pos = end
		return p.afterValue(tokens)

	case ch == '-' || isDigit(ch):
		tid, r := p.allocToken(tokens, Number, p.super, p.pos)
		if r != 0 {
			return r, false
		}
		end, r := p.scanNumber(in, p.pos)
		if r != 0 {
			return r, false
		}
		PT(&tokens[tid]).setEnd(end)
		p.pos = end
		return p.afterValue(tokens)

	case ch == 't':
		return p.parseLiteral(in, tokens, "true", True)
	case ch == 'f':
		return p.parseLiteral(in, tokens, "false", False)
	case ch == 'n':
		return p.parseLiteral(in, tokens, "null", Null)
	}
	return InvalidInput, false
}

// afterOpen checks the byte that follows a just-opened container: a close
// delimiter of the other kind ("{]" or "[}") is rejected at once. An empty
// "{}" or "[]" is closed by the next step, matching the grammar's
// zero-or-more production for members and elements.
func (p *Parser[Tok, PT]) afterOpen(in []byte) (Result, bool) {
	p.skipSpace(in)
	if p.pos >= len(in) {
		return Starving, false
	}
	switch in[p.pos] {
	case '}':
		if p.state != stateExpectKey {
			return InvalidInput, false
		}
	case ']':
		if p.state != stateExpectValue {
			return InvalidInput, false
		}
	}
	return 0, false
}

// closeContainer finishes the innermost open container, verifying that its
// closing delimiter matches the kind opened, recording its element count,
// and restoring the parser's notion of the enclosing super container.
func (p *Parser[Tok, PT]) closeContainer(tokens []Tok, want Type) (Result, bool) {
	if p.super < 0 || PT(&tokens[p.super]).Kind() != want {
		return InvalidInput, false
	}
	tp := PT(&tokens[p.super])
	count := 0
	for i := p.super + 1; i < p.next; i++ {
		if PT(&tokens[i]).Parent() == p.super {
			count++
		}
	}
	tp.setElementCount(count)
	p.pos++
	p.super = tp.Parent()
	return p.afterValue(tokens)
}

// afterValue transitions out of a just-completed value (scalar or
// container), moving to ExpectComma within a container or to Done at the
// root.
func (p *Parser[Tok, PT]) afterValue(tokens []Tok) (Result, bool) {
	if p.pendingKeyTok >= 0 && p.super == p.pendingKeyOwner {
		p.pendingKeyTok = -1
	}
	if p.super < 0 {
		p.state = stateDone
		return 0, true
	}
	p.state = stateExpectComma
	return 0, false
}

// parseLiteral matches one of the fixed keywords true/false/null at the
// parser's current position.
func (p *Parser[Tok, PT]) parseLiteral(in []byte, tokens []Tok, word string, kind Type) (Result, bool) {
	if p.pos+len(word) > len(in) {
		return Starving, false
	}
	if string(in[p.pos:p.pos+len(word)]) != word {
		return InvalidInput, false
	}
	tid, r := p.allocToken(tokens, kind, p.super, p.pos)
	if r != 0 {
		return r, false
	}
	p.pos += len(word)
	PT(&tokens[tid]).setEnd(p.pos)
	return p.afterValue(tokens)
}

// allocToken reserves the next token slot, reporting NotEnoughTokens if the
// caller's array is exhausted. Container tokens are further tagged with an
// identifier counting up from 0 in allocation order. Token16 keeps only the
// low 12 bits of it, so narrow ids wrap at 4096; TokenW keeps the full
// value.
func (p *Parser[Tok, PT]) allocToken(tokens []Tok, k Type, parent, start int) (int, Result) {
	if p.next >= len(tokens) {
		return 0, NotEnoughTokens
	}
	id := 0
	if k == Object || k == Array {
		id = p.lastID
		p.lastID++
	}
	PT(&tokens[p.next]).init(id, k, parent, start)
	tid := p.next
	p.next++
	return tid, 0
}

// skipSpace advances p.pos past any run of JSON whitespace.
func (p *Parser[Tok, PT]) skipSpace(in []byte) {
	for p.pos < len(in) && isSpace(in[p.pos]) {
		p.pos++
	}
}

// scanString returns the offset one past the closing quote of the string
// literal beginning at start (which must index the opening quote). It does
// not decode or validate escapes; a backslash unconditionally consumes the
// next byte, including the 'u' of a \uXXXX escape and each of its four hex
// digits in turn, scanned as ordinary characters rather than checked. See
// Unescape for escape decoding.
func (p *Parser[Tok, PT]) scanString(in []byte, start int) (int, Result) {
	i := start + 1
	for {
		if i >= len(in) {
			return 0, Starving
		}
		ch := in[i]
		if ch == '"' {
			return i + 1, 0
		}
		if ch == '\\' {
			i++
			if i >= len(in) {
				return 0, Starving
			}
			i++
			continue
		}
		if ch < 0x20 {
			return 0, InvalidInput
		}
		i++
	}
}

// scanNumber returns the offset one past the end of the number literal
// beginning at start. The scan is deliberately lenient: it consumes a
// contiguous run of bytes drawn from the set {0-9, +, -, ., e, E, x, X,
// a-f, A-F}, stopping at the first byte outside that set (whitespace, a
// comma, a closing bracket or brace, or anything else). It does not check
// that the run forms a well-formed JSON number — "123.E232-23++34.24...2424"
// is accepted whole as a single Number token — leaving semantic validation
// to whatever downstream code actually needs the numeric value.
func (p *Parser[Tok, PT]) scanNumber(in []byte, start int) (int, Result) {
	i := start
	for i < len(in) && isNumberChar(in[i]) {
		i++
	}
	if i >= len(in) {
		return 0, Starving
	}
	return i, 0
}

func isNumberChar(ch byte) bool {
	switch {
	case ch >= '0' && ch <= '9':
		return true
	case ch >= 'a' && ch <= 'f', ch >= 'A' && ch <= 'F':
		return true
	}
	switch ch {
	case '+', '-', '.', 'x', 'X':
		return true
	}
	return false
}

func isSpace(ch byte) bool { return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' }
func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
