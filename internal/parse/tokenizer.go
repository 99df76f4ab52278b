// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var errUnterminatedQuote = errors.New("quoted field runs to end of input")

// RawRow is one record of the export as read, before any interpretation.
type RawRow struct {
	// Line is the 1-based line number where the record starts.
	Line int
	// Fields holds the raw field text. A blank line has a single empty field.
	Fields []string
}

// Blank reports whether every field is empty after cleaning.
func (r RawRow) Blank() bool {
	return allEmpty(r.Fields)
}

// Tokenizer reads an export lazily, one RawRow per call to Next. Quoted fields
// may contain commas and newlines. Quotes inside a field are kept as text, as
// the exporter writes inch marks and stray quotes unescaped. Blank lines are
// returned as rows rather than dropped so that line numbers stay meaningful
// downstream.
type Tokenizer struct {
	rec *recorder
	br  *bufio.Reader
	cr  *csv.Reader

	next    int // line number the next row is expected to start on
	held    []string
	heldAt  int
	started bool
}

// NewTokenizer returns a Tokenizer reading comma-separated records from r.
func NewTokenizer(r io.Reader) *Tokenizer {
	rec := &recorder{r: r}
	br := bufio.NewReader(rec)
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return &Tokenizer{rec: rec, br: br, cr: cr, next: 1}
}

// Next returns the next row. It returns io.EOF after the last row and a
// *LineError wrapping ErrMalformedLine when a quoted field is never closed.
func (t *Tokenizer) Next() (RawRow, error) {
	if !t.started {
		t.started = true
		// Windows exports start with a byte order mark.
		if b, err := t.br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
			t.br.Discard(len(utf8BOM))
			t.rec.skip(len(utf8BOM))
		}
	}
	if t.held == nil {
		rec, err := t.cr.Read()
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return RawRow{}, &LineError{Kind: ErrMalformedLine, Line: pe.StartLine, Err: pe.Err}
			}
			return RawRow{}, err
		}
		at, _ := t.cr.FieldPos(0)
		// Lazy quoting reads an unclosed quote through to the end of input.
		if unterminated(t.rec.take(t.cr.InputOffset())) {
			return RawRow{}, &LineError{Kind: ErrMalformedLine, Line: at, Err: errUnterminatedQuote}
		}
		t.held, t.heldAt = rec, at
	}

	// encoding/csv skips empty lines; give them back as blank rows.
	if t.next < t.heldAt {
		row := RawRow{Line: t.next, Fields: []string{""}}
		t.next++
		return row, nil
	}

	rec, at := t.held, t.heldAt
	t.held = nil
	last, _ := t.cr.FieldPos(len(rec) - 1)
	t.next = last + strings.Count(rec[len(rec)-1], "\n") + 1
	return RawRow{Line: at, Fields: rec}, nil
}

// unterminated reports whether raw, the input text of one record, ends inside
// a quoted field. It follows encoding/csv's lazy quote rules: a field is quoted
// only when it starts with a quote, "" is an escaped quote, and a quote closes
// the field only when followed by a separator, a line break or the end.
func unterminated(raw []byte) bool {
	quoted, start := false, true
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case quoted:
			if c != '"' {
				continue
			}
			if i+1 < len(raw) && raw[i+1] == '"' {
				i++
				continue
			}
			if i+1 == len(raw) || raw[i+1] == ',' || raw[i+1] == '\n' || raw[i+1] == '\r' {
				quoted = false
			}
		case start && c == '"':
			quoted, start = true, false
		default:
			start = c == ',' || c == '\n'
		}
	}
	return quoted
}

// recorder keeps the bytes read from r until they are taken, so the raw text
// of each record can be inspected after encoding/csv has split it.
type recorder struct {
	r   io.Reader
	buf []byte
	off int64 // offset of buf[0], not counting a skipped byte order mark
}

func (r *recorder) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.buf = append(r.buf, p[:n]...)
	return n, err
}

// skip drops n leading bytes without advancing the offset.
func (r *recorder) skip(n int) {
	r.buf = r.buf[n:]
}

// take returns the bytes up to offset end and forgets them.
func (r *recorder) take(end int64) []byte {
	n := int(end - r.off)
	if n > len(r.buf) {
		n = len(r.buf)
	}
	b := r.buf[:n:n]
	r.buf = r.buf[n:]
	r.off += int64(n)
	return b
}

// clean trims whitespace and the stray quotes some exporter versions leave
// around values.
func clean(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
}
