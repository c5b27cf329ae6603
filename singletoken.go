// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package flashjson

// ParseOne extracts a single token from in without requiring the caller to
// preallocate a token array at all: each call fills only tok and reports
// what the caller must do next via the returned Result.
//
// ParseOne does not fill in a token's ID (always 0) or a container's
// element count, and its Parent field holds the container nesting depth at
// which the token was read rather than a token index: the caller does not
// know how many children a container has until
// it has seen them all, and counting them up front is exactly the cost this
// mode exists to avoid. Use GetCurrentContainerCount if a count is needed
// for a specific container, and jpointer or cursor if a navigable view over
// the nesting is required.
//
// The caller drives a loop of the shape:
//
//	for {
//	    res := p.ParseOne(in, &tok)
//	    switch res {
//	    case flashjson.SaveSuper, flashjson.RestoreSuper:
//	        // structural event; p tracks the container stack internally.
//	    case flashjson.OneTokenFound:
//	        // tok is ready to use.
//	    }
//	    if res == flashjson.Finished || res < 0 {
//	        break
//	    }
//	}
func (p *Parser[Tok, PT]) ParseOne(in []byte, tok PT) Result {
	if p.state == stateDone {
		return Finished
	}

	p.skipSpace(in)
	if p.pos >= len(in) {
		return Starving
	}
	ch := in[p.pos]

	switch p.state {
	case stateExpectKey:
		if ch == '}' {
			return p.closeOneContainer()
		}
		if ch != '"' {
			return InvalidInput
		}
		start := p.pos
		end, r := p.scanString(in, start)
		if r != OK {
			return r
		}
		tok.init(0, Key, p.oneDepth, start)
		tok.setEnd(end)
		p.pos = end
		p.state = stateExpectColon
		return OneTokenFound

	case stateExpectColon:
		if ch != ':' {
			return InvalidInput
		}
		p.pos++
		p.state = stateExpectValue
		return p.ParseOne(in, tok)

	case stateExpectComma:
		switch ch {
		case ',':
			p.pos++
			p.state = p.oneStateAfterComma()
			return p.ParseOne(in, tok)
		case '}':
			return p.closeOneContainer()
		case ']':
			return p.closeOneContainer()
		}
		return InvalidInput

	case stateExpectValue:
		// As in step: a ']' right after its own '[' closes an empty array.
		if ch == ']' {
			j := p.pos - 1
			for j >= 0 && isSpace(in[j]) {
				j--
			}
			if j >= 0 && in[j] == '[' {
				return p.closeOneContainer()
			}
		}
		return p.parseOneValue(in, tok, ch)
	}
	return InvalidInput
}

// oneStateAfterComma is the ParseOne analogue of stateAfterComma: instead of
// consulting a token array for the enclosing container's Kind, it consults
// the small fixed-depth stack ParseOne maintains on its own (see
// maxOneTokenDepth).
func (p *Parser[Tok, PT]) oneStateAfterComma() GrammarState {
	if p.oneDepth > 0 && p.oneKind[p.oneDepth-1] {
		return stateExpectKey
	}
	return stateExpectValue
}

// parseOneValue is the ParseOne counterpart to parseValue.
func (p *Parser[Tok, PT]) parseOneValue(in []byte, tok PT, ch byte) Result {
	switch {
	case ch == '{':
		tok.init(0, Object, p.oneDepth, p.pos)
		p.pos++
		if r := p.pushOneContainer(true); r != OK {
			return r
		}
		p.state = stateExpectKey
		return SaveSuper

	case ch == '[':
		tok.init(0, Array, p.oneDepth, p.pos)
		p.pos++
		if r := p.pushOneContainer(false); r != OK {
			return r
		}
		p.state = stateExpectValue
		return SaveSuper

	case ch == '"':
		start := p.pos
		end, r := p.scanString(in, start)
		if r != OK {
			return r
		}
		tok.init(0, String, p.oneDepth, start)
		tok.setEnd(end)
		p.pos = end
		return p.finishOneValue()

	case ch == '-' || isDigit(ch):
		start := p.pos
		end, r := p.scanNumber(in, start)
		if r != OK {
			return r
		}
		tok.init(0, Number, p.oneDepth, start)
		tok.setEnd(end)
		p.pos = end
		return p.finishOneValue()

	case ch == 't':
		return p.oneLiteral(in, tok, "true", True)
	case ch == 'f':
		return p.oneLiteral(in, tok, "false", False)
	case ch == 'n':
		return p.oneLiteral(in, tok, "null", Null)
	}
	return InvalidInput
}

func (p *Parser[Tok, PT]) oneLiteral(in []byte, tok PT, word string, kind Type) Result {
	if p.pos+len(word) > len(in) {
		return Starving
	}
	if string(in[p.pos:p.pos+len(word)]) != word {
		return InvalidInput
	}
	tok.init(0, kind, p.oneDepth, p.pos)
	p.pos += len(word)
	tok.setEnd(p.pos)
	return p.finishOneValue()
}

// finishOneValue transitions out of a just-reported scalar value.
func (p *Parser[Tok, PT]) finishOneValue() Result {
	if p.oneDepth == 0 {
		p.state = stateDone
		return Finished
	}
	p.state = stateExpectComma
	return OneTokenFound
}

// pushOneContainer records entry into a new object or array in the
// fixed-depth stack ParseOne uses in place of a token array lookup.
func (p *Parser[Tok, PT]) pushOneContainer(isObject bool) Result {
	if p.oneDepth >= maxOneTokenDepth {
		return NotEnoughTokens
	}
	p.oneKind[p.oneDepth] = isObject
	p.oneDepth++
	return OK
}

// closeOneContainer pops the innermost container from ParseOne's stack and
// reports the result code appropriate to whether that was the last open
// container: RestoreSuper to resume a still-open ancestor, or Finished if
// the document's root value was itself this container.
func (p *Parser[Tok, PT]) closeOneContainer() Result {
	if p.oneDepth == 0 {
		return InvalidInput
	}
	p.pos++
	p.oneDepth--
	if p.oneDepth == 0 {
		p.state = stateDone
		return Finished
	}
	p.state = stateExpectComma
	return RestoreSuper
}
