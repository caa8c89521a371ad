package parser

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// fieldLabels are the recognized header labels in declaration order.
var fieldLabels = []string{
	"Number", "Sec", "Call#", "Pts", "Title",
	"Day", "Time", "Room", "Building", "Faculty",
}

// headerTokens must all be present on a line for it to count as the header.
var headerTokens = []string{"Number", "Call#", "Faculty"}

// ColumnSlice binds a named field to a half-open [Start, End) character
// range within a data line.
type ColumnSlice struct {
	Field string
	Start int
	End   int
}

// ColumnIndex maps field names to their character ranges on one listing
// page. It is derived once from the page's header line and reused for every
// data line, which tolerates ragged whitespace inside cells as long as the
// header alignment is stable.
type ColumnIndex struct {
	slices map[string]ColumnSlice
}

// MalformedPageError reports a page with no recognizable listing header.
// The caller skips the page and continues the batch.
type MalformedPageError struct {
	Page string
}

func (e *MalformedPageError) Error() string {
	return fmt.Sprintf("no listing header found on page %s", e.Page)
}

// IsHeaderLine reports whether line is the listing header. All required
// tokens must be present; a line carrying only some of them is not a header.
func IsHeaderLine(line string) bool {
	for _, tok := range headerTokens {
		if !strings.Contains(line, tok) {
			return false
		}
	}
	return true
}

// BuildColumnIndex derives the column slices from a header line. Each
// recognized label's slice starts at the label's offset and ends at the
// start of the next recognized label, or end-of-line for the last field.
// Offsets count runes, not bytes, so a multibyte character in one cell
// cannot shift the columns after it.
func BuildColumnIndex(header string) *ColumnIndex {
	found := make([]ColumnSlice, 0, len(fieldLabels))
	for _, label := range fieldLabels {
		if idx := strings.Index(header, label); idx >= 0 {
			start := utf8.RuneCountInString(header[:idx])
			found = append(found, ColumnSlice{Field: label, Start: start})
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Start < found[j].Start })

	slices := make(map[string]ColumnSlice, len(found))
	for i := range found {
		if i+1 < len(found) {
			found[i].End = found[i+1].Start
		} else {
			found[i].End = -1 // end-of-line
		}
		slices[found[i].Field] = found[i]
	}
	return &ColumnIndex{slices: slices}
}

// Slice extracts the named field's cell from a data line, trimmed. Lines
// shorter than the column range yield what is there; absent fields yield "".
func (ci *ColumnIndex) Slice(line, field string) string {
	cs, ok := ci.slices[field]
	if !ok {
		return ""
	}
	runes := []rune(line)
	start, end := cs.Start, cs.End
	if start >= len(runes) {
		return ""
	}
	if end < 0 || end > len(runes) {
		end = len(runes)
	}
	return strings.TrimSpace(string(runes[start:end]))
}

// Fields returns the indexed field names in column order.
func (ci *ColumnIndex) Fields() []string {
	out := make([]string, 0, len(ci.slices))
	for _, cs := range ci.slices {
		out = append(out, cs.Field)
	}
	sort.Slice(out, func(i, j int) bool {
		return ci.slices[out[i]].Start < ci.slices[out[j]].Start
	})
	return out
}
