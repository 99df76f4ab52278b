// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"strings"
)

// Kind is the classification of a non-header row.
type Kind int

const (
	Ignorable Kind = iota
	Measurement
	Calculation
)

func (k Kind) String() string {
	switch k {
	case Measurement:
		return "measurement"
	case Calculation:
		return "calculation"
	default:
		return "ignorable"
	}
}

// minDataWidth is the smallest row that can be mistaken for a data record.
// Shorter rows are label/value metadata or footnotes.
const minDataWidth = 3

// FieldRule tests one cleaned field value.
type FieldRule func(string) bool

// NonEmpty requires a value.
func NonEmpty(s string) bool { return s != "" }

// Empty requires a blank spacer column.
func Empty(s string) bool { return s == "" }

// HasPrefix requires a label starting with p.
func HasPrefix(p string) FieldRule {
	return func(s string) bool { return strings.HasPrefix(s, p) }
}

// Signature describes one row layout. A row matches when it has at least Width
// fields, any fields beyond Width are empty, and every rule holds for the field
// at its position. Checks run in order: labels, then field count, then kind.
type Signature struct {
	Name  string
	Kind  Kind
	Width int
	Rules map[int]FieldRule
	// Exact signatures describe label rows; a near miss is not reported.
	Exact bool
}

// labelsHold reports whether every rule holds. Rules pointing past the end of
// the row fail.
func (s Signature) labelsHold(fields []string) bool {
	for pos, rule := range s.Rules {
		if pos >= len(fields) || !rule(clean(fields[pos])) {
			return false
		}
	}
	return true
}

func (s Signature) widthFits(fields []string) bool {
	return len(fields) >= s.Width && allEmpty(fields[s.Width:])
}

// classify checks row against signatures in order. The first full match wins.
// A row whose labels fit a data signature but whose field count does not is
// reported as ErrUnrecognizedRecord. Anything else is Ignorable.
func classify(signatures []Signature, row RawRow) (Kind, error) {
	if row.Blank() {
		return Ignorable, nil
	}
	var partial *Signature
	for i := range signatures {
		sig := &signatures[i]
		if !sig.labelsHold(row.Fields) {
			continue
		}
		if sig.widthFits(row.Fields) {
			return sig.Kind, nil
		}
		if partial == nil && !sig.Exact && len(row.Fields) >= minDataWidth {
			partial = sig
		}
	}
	if partial != nil {
		return Ignorable, &LineError{
			Kind:   ErrUnrecognizedRecord,
			Line:   row.Line,
			Fields: row.Fields,
			Err:    &WidthError{Signature: partial.Name, Want: partial.Width, Got: len(row.Fields)},
		}
	}
	return Ignorable, nil
}

// WidthError explains a near miss: the row had the labels of a layout but the
// wrong number of populated fields.
type WidthError struct {
	Signature string
	Want, Got int
}

func (e *WidthError) Error() string {
	return fmt.Sprintf("looks like a %s row but has %d fields, want %d", e.Signature, e.Got, e.Want)
}
