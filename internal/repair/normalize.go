// Package repair turns a completion response that should be a JSON array
// into validated JSON records, recovering from the near-JSON shapes language
// models tend to produce.
package repair

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Stage identifies which step of Normalize produced the records.
type Stage int

const (
	StageStrict Stage = iota + 1
	StageExtracted
	StageRepaired
)

func (s Stage) String() string {
	switch s {
	case StageStrict:
		return "strict"
	case StageExtracted:
		return "extracted"
	case StageRepaired:
		return "repaired"
	default:
		return "unknown"
	}
}

// Result is a successful normalization.
type Result struct {
	Records []json.RawMessage
	Stage   Stage
	// Fired lists the IDs of repair rules that changed the text. Only set
	// when Stage is StageRepaired.
	Fired []string
}

var errNotArray = errors.New("top-level value is not a JSON array")

// ParseError reports that no stage produced a JSON array. Diagnostic holds
// everything needed to reproduce the failure; persisting it is left to the
// caller.
type ParseError struct {
	Err        error
	Diagnostic *Diagnostic
}

func (e *ParseError) Error() string {
	var syn *json.SyntaxError
	if errors.As(e.Err, &syn) {
		return fmt.Sprintf("parse completion response: %v (offset %d)", e.Err, syn.Offset)
	}
	return fmt.Sprintf("parse completion response: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StripFence removes a surrounding markdown code fence (```json or ```).
func StripFence(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-len("```")]
	}
	return strings.TrimSpace(s)
}

// ExtractArray returns the span from the first '[' to the last ']'.
func ExtractArray(text string) (string, bool) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(text, ']')
	if end < start {
		return "", false
	}
	return text[start : end+1], true
}

// Normalize parses text as a JSON array, trying in order: the fence-stripped
// text as is, the extracted bracket span, and the rule-repaired candidate.
// The first stage that parses wins. On failure the returned error is a
// *ParseError.
func Normalize(text string) (*Result, error) {
	stripped := StripFence(text)

	records, err := parseArray(stripped)
	if err == nil {
		return &Result{Records: records, Stage: StageStrict}, nil
	}

	candidate := stripped
	span, found := ExtractArray(stripped)
	if found {
		if records, err := parseArray(span); err == nil {
			return &Result{Records: records, Stage: StageExtracted}, nil
		}
		candidate = span
	}

	repaired, fired := repair(candidate)
	records, err = parseArray(repaired)
	if err == nil {
		return &Result{Records: records, Stage: StageRepaired, Fired: fired}, nil
	}

	return nil, &ParseError{
		Err: err,
		Diagnostic: &Diagnostic{
			Original:     text,
			Stripped:     stripped,
			Extracted:    span,
			HasExtracted: found,
			Repaired:     repaired,
		},
	}
}

func parseArray(s string) ([]json.RawMessage, error) {
	var records []json.RawMessage
	if err := json.Unmarshal([]byte(s), &records); err != nil {
		return nil, err
	}
	// "null" decodes into a nil slice without error.
	if records == nil && !strings.HasPrefix(strings.TrimSpace(s), "[") {
		return nil, errNotArray
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records, nil
}
