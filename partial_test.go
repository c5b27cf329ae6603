// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package flashjson

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// tokenSummary is a comparable projection of a Token16 used to diff two
// token slices with cmp, since Token16 itself packs several fields into a
// single word that cmp would otherwise compare opaquely.
type tokenSummary struct {
	Kind   Type
	Parent int
}

func summarize(toks []Token16) []tokenSummary {
	out := make([]tokenSummary, len(toks))
	for i, tok := range toks {
		out[i] = tokenSummary{Kind: tok.Kind(), Parent: tok.Parent()}
	}
	return out
}

// feedIncrementally drives PartialParse by appending the input one byte at a
// time, compacting the buffer whenever NeedRefill is reported, in the same
// shape as the original design's incremental refill test harness.
func feedIncrementally(t *testing.T, full string) ([]Token16, Result) {
	t.Helper()
	var tokens [64]Token16
	buf := make([]byte, 0, len(full))
	p := NewParser16()

	for i := 0; i < len(full); i++ {
		buf = append(buf, full[i])
		res, used, keep := p.PartialParse(buf, tokens[:])
		switch res {
		case NeedRefill:
			buf = buf[:len(buf)-keep] // PartialParse already shifted the kept bytes down
			continue
		case OK:
			return tokens[:used], OK
		default:
			return nil, res
		}
	}
	t.Fatalf("input exhausted before parse completed")
	return nil, InvalidInput
}

func TestPartialParseIncrementalScalar(t *testing.T) {
	toks, res := feedIncrementally(t, `42`+" ")
	if res != OK {
		t.Fatalf("feedIncrementally = %v, want OK", res)
	}
	if len(toks) != 1 || toks[0].Kind() != Number {
		t.Fatalf("tokens = %v, want a single Number token", toks)
	}
}

func TestPartialParseIncrementalObject(t *testing.T) {
	const doc = `{"a": 1, "b": [2, 3], "c": {"d": true}}`
	toks, res := feedIncrementally(t, doc)
	if res != OK {
		t.Fatalf("feedIncrementally = %v, want OK", res)
	}

	var full [64]Token16
	fp := NewParser16()
	wantRes, wantN := fp.Parse([]byte(doc), full[:])
	if wantRes != OK {
		t.Fatalf("reference Parse = %v, want OK", wantRes)
	}
	if len(toks) != wantN {
		t.Fatalf("incremental token count = %d, want %d", len(toks), wantN)
	}
	if diff := cmp.Diff(summarize(full[:wantN]), summarize(toks)); diff != "" {
		t.Errorf("incremental parse diverged from a bulk Parse (-want +got):\n%s", diff)
	}
}

func TestPartialParsePendingKeySurvivesRefill(t *testing.T) {
	// Split right after the key, before its value, to exercise
	// pendingKeyTok retention across a compaction.
	var tokens [16]Token16
	p := NewParser16()

	buf := []byte(`{"long_key_name": `)
	res, _, keep := p.PartialParse(buf, tokens[:])
	if res != NeedRefill {
		t.Fatalf("PartialParse = %v, want NeedRefill", res)
	}
	buf = buf[:len(buf)-keep]
	// The object and its key token must both have survived compaction.
	if p.next != 2 {
		t.Fatalf("p.next = %d, want 2 (object + pending key)", p.next)
	}
	if tokens[0].Kind() != Object || tokens[1].Kind() != Key {
		t.Fatalf("tokens = [%v, %v], want [Object, Key]", tokens[0].Kind(), tokens[1].Kind())
	}
	if p.pendingKeyTok != 1 {
		t.Fatalf("pendingKeyTok = %d, want 1", p.pendingKeyTok)
	}

	buf = append(buf, []byte(`42}`)...)
	res, used, _ := p.PartialParse(buf, tokens[:])
	if res != OK {
		t.Fatalf("PartialParse = %v, want OK", res)
	}
	if used != 3 {
		t.Fatalf("used = %d, want 3 (object, key, value)", used)
	}
	if tokens[0].ElementCount() != 2 {
		t.Errorf("object ElementCount() = %d, want 2", tokens[0].ElementCount())
	}
}
