package repair

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pfrederiksen/sis-sections/internal/section"
)

// The catalog renders time ranges inconsistently: "1:10 PM-2:25 PM",
// "1:10PM-2:25PM", "13:10-14:25", "1310-1425", "13:10 to 14:25", and
// sometimes a lone "PM" trailing an otherwise 12-hour range. Parsing tries
// a prioritized list of range grammars against the full source line first,
// then the whole grammar list against the isolated Time-column slice.
// A range is accepted only if end is strictly later than start; anything
// that fails every grammar degrades to TBA (nil, nil), never to a guess.

// clockVal is an intermediate parse result before validation.
type clockVal struct {
	h, m int
}

func (c clockVal) minutes() int { return c.h*60 + c.m }

func (c clockVal) valid() bool {
	return c.h >= 0 && c.h <= 23 && c.m >= 0 && c.m <= 59
}

type timeMatch struct {
	start, end clockVal
	single     bool
	tba        bool
	// meridiem reports that the grammar consumed an explicit AM/PM suffix,
	// so the match is already in 24-hour terms and must not be coerced again.
	meridiem bool
}

// grammar is one (matcher, validator) step of the fallback chain.
type grammar struct {
	name  string
	match func(string) (timeMatch, bool)
}

// lineGrammars run against the full source line, where a range's end time
// may have been pushed past the Time column boundary. The digit-quad form
// is excluded here: it always fits the column, and on a full line it would
// claim year ranges appearing in titles.
var lineGrammars = []grammar{
	{"ampm-range", matchAMPMRange},
	{"24h-range", match24hRange},
}

var sliceGrammars = []grammar{
	{"ampm-range", matchAMPMRange},
	{"24h-range", match24hRange},
	{"digit-quad-range", matchQuadRange},
	{"single-time", matchSingleTime},
	{"tba", matchTBA},
}

var (
	// Unicode dash variants seen in the rendered listings.
	dashNormalizer = strings.NewReplacer(
		"‐", "-", "‑", "-", "‒", "-", "–", "-",
		"—", "-", "―", "-", "−", "-",
	)
	toSeparatorRe = regexp.MustCompile(`(?i)\s+to\s+`)

	ampmRangeRe = regexp.MustCompile(
		`(?i)\b(\d{1,2})(?::([0-5]\d))?\s*(am|pm)?\s*-\s*(\d{1,2})(?::([0-5]\d))?\s*(am|pm)\b`)
	ampmRangeLeadRe = regexp.MustCompile(
		`(?i)\b(\d{1,2})(?::([0-5]\d))?\s*(am|pm)\s*-\s*(\d{1,2})(?::([0-5]\d))?\s*(am|pm)?\b`)
	hhmmRangeRe = regexp.MustCompile(
		`\b([01]?\d|2[0-3]):([0-5]\d)\s*-\s*([01]?\d|2[0-3]):([0-5]\d)\b`)
	quadRangeRe = regexp.MustCompile(
		`\b(\d{3,4})\s*-\s*(\d{3,4})\b`)
	ampmSingleRe = regexp.MustCompile(
		`(?i)\b(\d{1,2})(?::([0-5]\d))?\s*(am|pm)\b`)
	hhmmSingleRe = regexp.MustCompile(
		`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	quadSingleRe = regexp.MustCompile(
		`\b(\d{3,4})\b`)

	// Meridiem markers as standalone tokens. A substring scan would let an
	// instructor name like "Chapman" read as a PM marker.
	pmTokenRe = regexp.MustCompile(`(?i)\bpm\b`)
	amTokenRe = regexp.MustCompile(`(?i)\bam\b`)
)

// ParseTimeRange normalizes a meeting-time notation into 24-hour start and
// end clocks. It receives both the full source line and the isolated
// Time-column slice; ranges are resolved from the full line first because
// the renderer may push the end time past the column boundary. nil results
// mean "to be announced".
func ParseTimeRange(line, slice string) (*section.Clock, *section.Clock) {
	if m, text, ok := attempt(line, lineGrammars); ok {
		return finishTimeRange(m, text)
	}
	if m, text, ok := attempt(slice, sliceGrammars); ok {
		if m.tba {
			return nil, nil
		}
		return finishTimeRange(m, text)
	}
	return nil, nil
}

// attempt runs the grammar chain against one candidate string. Range
// results must be strictly increasing; a grammar whose match fails
// validation is skipped so a later grammar may still claim the text.
// Once a range grammar has matched the candidate, the single-time grammar
// is off the table: the text holds two time tokens, and salvaging one of
// them would turn a failed range into fabricated schedule data.
func attempt(text string, grammars []grammar) (timeMatch, string, bool) {
	candidate := normalizeSeparators(text)
	rangeMatched := false
	for _, g := range grammars {
		m, ok := g.match(candidate)
		if !ok {
			continue
		}
		if m.tba {
			return m, candidate, true
		}
		if m.single && rangeMatched {
			continue
		}
		if !m.start.valid() || !m.end.valid() {
			if !m.single {
				rangeMatched = true
			}
			continue
		}
		if !m.single && m.end.minutes() <= m.start.minutes() {
			rangeMatched = true
			continue
		}
		return m, candidate, true
	}
	return timeMatch{}, "", false
}

func finishTimeRange(m timeMatch, matchedText string) (*section.Clock, *section.Clock) {
	start, end := m.start, m.end
	// PM-only coercion: a range like "110-225" on a line whose only
	// meridiem marker is a detached "pm" token is an afternoon range, not
	// a small-hours one. Matches that consumed their own AM/PM suffix are
	// already resolved and skip this.
	if !m.meridiem && pmTokenRe.MatchString(matchedText) && !amTokenRe.MatchString(matchedText) {
		if start.minutes() < 12*60 {
			start.h += 12
		}
		if end.minutes() < 12*60 {
			end.h += 12
		}
	}
	s := section.NewClock(start.h, start.m)
	e := section.NewClock(end.h, end.m)
	return &s, &e
}

func normalizeSeparators(s string) string {
	s = dashNormalizer.Replace(s)
	return toSeparatorRe.ReplaceAllString(s, "-")
}

// matchAMPMRange matches two 12-hour clock times with at least one AM/PM
// suffix. A missing suffix is inferred from the explicit side: normally the
// same meridiem propagates, except that a PM range whose other hour is
// numerically greater keeps PM only when that keeps the range increasing
// (so "11:00-1:10PM" reads as 11 AM, not 11 PM).
func matchAMPMRange(text string) (timeMatch, bool) {
	groups := ampmRangeRe.FindStringSubmatch(text)
	if groups == nil {
		groups = ampmRangeLeadRe.FindStringSubmatch(text)
	}
	if groups == nil {
		return timeMatch{}, false
	}

	h1, m1 := atoi(groups[1]), atoiZero(groups[2])
	h2, m2 := atoi(groups[4]), atoiZero(groups[5])
	mer1, mer2 := strings.ToLower(groups[3]), strings.ToLower(groups[6])
	if h1 < 1 || h1 > 12 || h2 < 1 || h2 > 12 {
		return timeMatch{}, false
	}

	switch {
	case mer1 == "" && mer2 != "":
		mer1 = inferMeridiem(mer2, h1, m1, h2, m2, true)
	case mer2 == "" && mer1 != "":
		mer2 = inferMeridiem(mer1, h2, m2, h1, m1, false)
	}

	return timeMatch{
		start:    to24h(h1, m1, mer1),
		end:      to24h(h2, m2, mer2),
		meridiem: true,
	}, true
}

// inferMeridiem resolves the suffix of the implicit side of a half-suffixed
// range. otherIsStart reports whether the implicit side is the range start.
func inferMeridiem(explicit string, otherH, otherM, explicitH, explicitM int, otherIsStart bool) string {
	if explicit == "pm" && otherH > explicitH {
		other := to24h(otherH, otherM, "pm")
		exp := to24h(explicitH, explicitM, "pm")
		increasing := exp.minutes() < other.minutes()
		if otherIsStart {
			increasing = other.minutes() < exp.minutes()
		}
		if !increasing {
			return "am"
		}
	}
	return explicit
}

func to24h(h, m int, meridiem string) clockVal {
	h = h % 12
	if meridiem == "pm" {
		h += 12
	}
	return clockVal{h, m}
}

func match24hRange(text string) (timeMatch, bool) {
	groups := hhmmRangeRe.FindStringSubmatch(text)
	if groups == nil {
		return timeMatch{}, false
	}
	return timeMatch{
		start: clockVal{atoi(groups[1]), atoi(groups[2])},
		end:   clockVal{atoi(groups[3]), atoi(groups[4])},
	}, true
}

func matchQuadRange(text string) (timeMatch, bool) {
	groups := quadRangeRe.FindStringSubmatch(text)
	if groups == nil {
		return timeMatch{}, false
	}
	return timeMatch{
		start: quadToClock(groups[1]),
		end:   quadToClock(groups[2]),
	}, true
}

// matchSingleTime matches one time in any of the range grammars' notations
// and duplicates it into both ends.
func matchSingleTime(text string) (timeMatch, bool) {
	if groups := ampmSingleRe.FindStringSubmatch(text); groups != nil {
		h, m := atoi(groups[1]), atoiZero(groups[2])
		if h >= 1 && h <= 12 {
			c := to24h(h, m, strings.ToLower(groups[3]))
			return timeMatch{start: c, end: c, single: true, meridiem: true}, true
		}
	}
	if groups := hhmmSingleRe.FindStringSubmatch(text); groups != nil {
		c := clockVal{atoi(groups[1]), atoi(groups[2])}
		return timeMatch{start: c, end: c, single: true}, true
	}
	if groups := quadSingleRe.FindStringSubmatch(text); groups != nil {
		c := quadToClock(groups[1])
		return timeMatch{start: c, end: c, single: true}, true
	}
	return timeMatch{}, false
}

// matchTBA recognizes the announced-later placeholder.
func matchTBA(text string) (timeMatch, bool) {
	if strings.Contains(strings.ToUpper(text), "TBA") {
		return timeMatch{tba: true}, true
	}
	return timeMatch{}, false
}

func quadToClock(s string) clockVal {
	v := atoi(s)
	return clockVal{v / 100, v % 100}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func atoiZero(s string) int {
	if s == "" {
		return 0
	}
	return atoi(s)
}
