// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"

	"github.com/pdiddy/vevolab-parser/pkg/types"
)

// headerRule recognizes one kind of section header: a label/value pair whose
// label starts with Label. Apply folds the value into the live context.
type headerRule struct {
	Label string
	Apply func(c *types.Context, value string)
}

// headerRules lists the section headers of a Vevo LAB export. A new series
// starts a fresh context; protocols belong to the series they appear under.
var headerRules = []headerRule{
	{
		Label: "Series Name",
		Apply: func(c *types.Context, v string) { *c = types.Context{SeriesID: v} },
	},
	{
		Label: "Protocol Name",
		Apply: func(c *types.Context, v string) { c.Protocol = v },
	},
}

// TaggedRow is a data row together with a copy of the context that was live
// when it was read.
type TaggedRow struct {
	RawRow
	Context types.Context
}

// Tracker follows the series and protocol headers of an export. Its zero value
// is in the no-context state.
type Tracker struct {
	ctx types.Context
}

// Observe consumes row if it is a section header and reports whether it was.
// Header rows never become data records.
func (t *Tracker) Observe(row RawRow) bool {
	rule, value, ok := matchHeader(row.Fields)
	if !ok {
		return false
	}
	rule.Apply(&t.ctx, value)
	return true
}

// Context returns the live context and whether it is complete.
func (t *Tracker) Context() (types.Context, bool) {
	return t.ctx, t.ctx.Complete()
}

// Tag stamps row with a snapshot of the live context. It fails with
// ErrMissingContext until both a series and a protocol header have been seen.
func (t *Tracker) Tag(row RawRow) (TaggedRow, error) {
	ctx, ok := t.Context()
	if !ok {
		return TaggedRow{}, &LineError{Kind: ErrMissingContext, Line: row.Line, Fields: row.Fields}
	}
	return TaggedRow{RawRow: row, Context: ctx}, nil
}

// matchHeader reports whether fields form a "<label>,<value>" header with a
// non-empty value. Trailing empty padding fields are allowed.
func matchHeader(fields []string) (headerRule, string, bool) {
	if len(fields) < 2 || !allEmpty(fields[2:]) {
		return headerRule{}, "", false
	}
	label, value := clean(fields[0]), clean(fields[1])
	if value == "" {
		return headerRule{}, "", false
	}
	for _, r := range headerRules {
		if strings.HasPrefix(label, r.Label) {
			return r, value, true
		}
	}
	return headerRule{}, "", false
}

func allEmpty(fields []string) bool {
	for _, f := range fields {
		if clean(f) != "" {
			return false
		}
	}
	return true
}
