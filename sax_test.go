// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package flashjson

import (
	"errors"
	"testing"
)

// recorder is a Handler that appends a string for every event it
// receives, for comparison against an expected event trace.
type recorder struct {
	events []string
	done   bool
}

func (r *recorder) BeginObject(tok Token16) error {
	r.events = append(r.events, "begin object")
	return nil
}
func (r *recorder) EndObject() error {
	r.events = append(r.events, "end object")
	return nil
}
func (r *recorder) BeginArray(tok Token16) error {
	r.events = append(r.events, "begin array")
	return nil
}
func (r *recorder) EndArray() error {
	r.events = append(r.events, "end array")
	return nil
}
func (r *recorder) BeginMember(key Token16) error {
	r.events = append(r.events, "begin member")
	return nil
}
func (r *recorder) EndMember() error {
	r.events = append(r.events, "end member")
	return nil
}
func (r *recorder) Value(tok Token16) error {
	r.events = append(r.events, "value:"+tok.Kind().String())
	return nil
}
func (r *recorder) EndOfInput() {
	r.done = true
}

func TestRunScalar(t *testing.T) {
	rec := &recorder{}
	// Trailing delimiter: a bare run of digits at EOF is Starving.
	if err := Run[Token16, *Token16]([]byte(`42 `), rec); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
	want := []string{"value:number"}
	if len(rec.events) != len(want) || rec.events[0] != want[0] {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
	if !rec.done {
		t.Error("EndOfInput was not called")
	}
}

func TestRunNestedObject(t *testing.T) {
	rec := &recorder{}
	in := `{"a": [1, 2], "b": {"c": true}}`
	if err := Run[Token16, *Token16]([]byte(in), rec); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
	want := []string{
		"begin object",
		"begin member",
		"begin array",
		"value:number",
		"value:number",
		"end array",
		"end member",
		"begin member",
		"begin object",
		"begin member",
		"value:true",
		"end member",
		"end object",
		"end member",
		"end object",
	}
	if len(rec.events) != len(want) {
		t.Fatalf("event count = %d, want %d\ngot:  %v\nwant: %v", len(rec.events), len(want), rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, rec.events[i], want[i])
		}
	}
	if !rec.done {
		t.Error("EndOfInput was not called")
	}
}

func TestRunEmptyContainers(t *testing.T) {
	rec := &recorder{}
	if err := Run[Token16, *Token16]([]byte(`{"a": [], "b": {}}`), rec); err != nil {
		t.Fatalf("Run = %v, want nil", err)
	}
	want := []string{
		"begin object",
		"begin member",
		"begin array",
		"end array",
		"end member",
		"begin member",
		"begin object",
		"end object",
		"end member",
		"end object",
	}
	if len(rec.events) != len(want) {
		t.Fatalf("event count = %d, want %d\ngot:  %v\nwant: %v", len(rec.events), len(want), rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, rec.events[i], want[i])
		}
	}
}

func TestRunSyntaxError(t *testing.T) {
	rec := &recorder{}
	err := Run[Token16, *Token16]([]byte(`{"a": }`), rec)
	if err == nil {
		t.Fatal("Run = nil, want a syntax error")
	}
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("Run error = %v (%T), want *SyntaxError", err, err)
	}
}

// errHandler embeds recorder and fails on the first Value call, to verify
// that a Handler's error propagates out of Run unmodified.
type errHandler struct {
	recorder
	failErr error
}

func (h *errHandler) Value(tok Token16) error {
	return h.failErr
}

func TestRunHandlerErrorPropagates(t *testing.T) {
	want := errors.New("handler stopped early")
	h := &errHandler{failErr: want}
	err := Run[Token16, *Token16]([]byte(`[1, 2, 3]`), h)
	if !errors.Is(err, want) {
		t.Fatalf("Run error = %v, want %v", err, want)
	}
}

func TestRunNestingDepthLimit(t *testing.T) {
	input := ""
	for i := 0; i < maxOneTokenDepth+1; i++ {
		input += "["
	}
	for i := 0; i < maxOneTokenDepth+1; i++ {
		input += "]"
	}
	rec := &recorder{}
	err := Run[Token16, *Token16]([]byte(input), rec)
	if err == nil {
		t.Fatal("Run = nil, want a syntax error for excess nesting")
	}
}
