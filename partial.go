// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package flashjson

// PartialParse resumes a bulk Parse that previously reported Starving,
// allowing a caller to feed a JSON document in pieces — for example as it
// arrives from a socket — without ever holding the whole document in memory
// at once.
//
// The caller is expected to drive a loop of the shape:
//
//	res, used := p.Parse(buf[:n], tokens)
//	for res == flashjson.Starving || res == flashjson.NeedRefill {
//	    n += readMore(buf[n:])
//	    var keep int
//	    res, used, keep = p.PartialParse(buf[:n], tokens)
//	    if res == flashjson.NeedRefill {
//	        n -= keep // the kept bytes are already at buf[:n-keep]
//	    }
//	}
//
// When the input runs out, PartialParse rewrites tokens in place: every
// token is dropped except the chain of still-open container tokens and, if
// parsing stopped between a key and its value, that key's token. This
// mirrors the layout the original design produces: "you are ensured to
// always have a key before a value in an object." It also moves the bytes
// of in that are still needed down to offset 0 itself, and returns as keep
// how many bytes that move discarded from the front: the retained input now
// ends at len(in)-keep, and new input must be appended starting there.
//
// PartialParse never returns NotEnoughTokens for the tokens already
// retained from a previous call — those are guaranteed to fit, since they
// already fit before — but it can still return NotEnoughTokens if there is
// no room left for tokens discovered during this call.
func (p *Parser[Tok, PT]) PartialParse(in []byte, tokens []Tok) (res Result, used int, keep int) {
	for {
		r, done := p.step(in, tokens)
		if r == Starving {
			keep := p.compact(in, tokens)
			return NeedRefill, p.next, keep
		}
		if r != OK {
			return r, p.next, 0
		}
		if done {
			return OK, p.next, 0
		}
	}
}

// compact discards every token in tokens[:p.next] that is not part of the
// still-open container chain (or the single pending key, if parsing
// stopped between a key and its value), relocates the survivors to the
// front of the array, and shifts the corresponding bytes of in down to
// offset 0. Every survivor except the innermost one has its start marked
// InvalidPos, since only the innermost survivor's opening delimiter is
// still present in the buffer after the cut. It returns the number of
// leading bytes the shift discarded.
func (p *Parser[Tok, PT]) compact(in []byte, tokens []Tok) int {
	live := p.liveChain(tokens)
	if len(live) == 0 {
		// Nothing has been opened yet (e.g. still scanning leading
		// whitespace, or mid-scan on a root-level scalar): there is no
		// container state to preserve, only the unconsumed input tail. Any
		// token allocated for a scalar that starved mid-scan (e.g. a number
		// whose digits ran out) was allocated before its span was known and
		// must be discarded along with it, so p.next resets to 0 as well;
		// re-entering the same scan after refill allocates it afresh.
		cut := p.pos
		copy(in, in[cut:])
		p.pos = 0
		p.next = 0
		return cut
	}

	// The innermost live token — the dangling Key if parsing stopped between
	// a key and its value, otherwise the current super itself — is always
	// last in root-first order. Its start is the only one still meaningful;
	// cutting there discards every byte already delivered to the caller.
	innermost := len(live) - 1
	cut := PT(&tokens[live[innermost]]).Start()
	for newIdx, oldIdx := range live {
		src := PT(&tokens[oldIdx])
		id, kind, parent := src.ID(), src.Kind(), p.relocateParent(src.Parent(), live)
		start := InvalidPos
		if newIdx == innermost {
			start = src.Start() - cut
		}
		dst := PT(&tokens[newIdx])
		dst.init(id, kind, parent, start)
		switch kind {
		case Object, Array:
			dst.setElementCount(src.ElementCount())
		default:
			dst.setEnd(src.End() - cut)
		}
	}

	copy(in, in[cut:])
	p.pos -= cut
	p.super = p.relocateParent(p.super, live)
	if p.pendingKeyTok >= 0 {
		p.pendingKeyTok = indexOf(live, p.pendingKeyTok)
	}
	p.next = len(live)
	return cut
}

// liveChain returns the indices, in ascending order, of the tokens that
// must survive compaction: the chain of currently-open container
// ancestors from the root down to p.super, followed by the pending key
// token (if any).
func (p *Parser[Tok, PT]) liveChain(tokens []Tok) []int {
	var chain []int
	for i := p.super; i >= 0; i = PT(&tokens[i]).Parent() {
		chain = append(chain, i)
	}
	// Reverse into root-first order.
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}
	if p.pendingKeyTok >= 0 {
		chain = append(chain, p.pendingKeyTok)
	}
	return chain
}

// relocateParent maps an old token index that names a container ancestor
// onto its new position in the compacted array, or -1 if it named no
// container (the document root).
func (p *Parser[Tok, PT]) relocateParent(old int, live []int) int {
	if old < 0 {
		return -1
	}
	return indexOf(live, old)
}

func indexOf(live []int, old int) int {
	for i, v := range live {
		if v == old {
			return i
		}
	}
	return -1
}
