package linker

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/pfrederiksen/sis-sections/internal/logger"
	"github.com/pfrederiksen/sis-sections/internal/section"
)

const (
	// DefaultConcurrency bounds simultaneous detail-page fetches.
	DefaultConcurrency = 4
	// DefaultFetchTimeout is the per-request detail fetch budget.
	DefaultFetchTimeout = 10 * time.Second
)

// Fetcher retrieves the plain text of a detail page. Implementations must
// be safe for concurrent use.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// Outcome reports how a flagged record's linkage attempt ended, so callers
// and tests can tell degradation causes apart.
type Outcome int

const (
	// OutcomeLinked means a parent lecture was found.
	OutcomeLinked Outcome = iota
	// OutcomeUnlinkedNoCandidate means neither the detail page nor the
	// title heuristic produced any parent.
	OutcomeUnlinkedNoCandidate
	// OutcomeUnlinkedAmbiguous means the title heuristic found more than
	// one equally good parent; the linker never guesses among ties.
	OutcomeUnlinkedAmbiguous
)

var (
	recitationSectionRe = regexp.MustCompile(`^R\d+$`)

	// parentDisclosureRe matches the detail page's "Required recitation …
	// enrolled in (COMS) (3134)" phrasing, with or without parentheses.
	parentDisclosureRe = regexp.MustCompile(
		`(?is)required\s+recitation.*?enrolled\s+in\s*\(?\s*([A-Za-z]{2,5})\s*\)?\s*\(?\s*(\d{3,5}[A-Za-z]?)\s*\)?`)

	titleQualifierRe  = regexp.MustCompile(`(?i)\b(recitation|laboratory|lab|discussion)\b`)
	whitespaceRunRe   = regexp.MustCompile(`\s+`)
	titlePunctTrimSet = " \t-–:;,."
)

// Linker resolves recitation-to-lecture linkage for one subject's batch
type Linker struct {
	fetcher      Fetcher
	Concurrency  int
	FetchTimeout time.Duration
}

// New creates a Linker using the given detail-page fetcher.
func New(fetcher Fetcher) *Linker {
	return &Linker{
		fetcher:      fetcher,
		Concurrency:  DefaultConcurrency,
		FetchTimeout: DefaultFetchTimeout,
	}
}

// Flagged reports whether a record is a recitation candidate: an R-coded
// section or a zero-credit one.
func Flagged(rec *section.Record) bool {
	if recitationSectionRe.MatchString(rec.Section) {
		return true
	}
	return rec.Credits != nil && rec.Credits.IsZero()
}

// LinkRecitations flags recitation candidates in one subject's batch and
// attaches parent course codes where linkage succeeds. Records are mutated
// in place and the same slice is returned. Detail fetches run with bounded
// concurrency; a cancelled context stops further fetches and every
// remaining record falls through to the title heuristic.
func (l *Linker) LinkRecitations(ctx context.Context, records []*section.Record) []*section.Record {
	flagged := make([]*section.Record, 0)
	for _, rec := range records {
		if Flagged(rec) {
			rec.IsRecitation = true
			flagged = append(flagged, rec)
		}
	}
	if len(flagged) == 0 {
		return records
	}

	index := buildTitleIndex(records)

	sem := make(chan struct{}, l.concurrency())
	var wg sync.WaitGroup
	for _, rec := range flagged {
		wg.Add(1)
		go func(rec *section.Record) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			switch l.link(ctx, rec, index) {
			case OutcomeLinked:
				logger.IncrCounter("link.linked")
			case OutcomeUnlinkedAmbiguous:
				logger.IncrCounter("link.unlinked_ambiguous")
			case OutcomeUnlinkedNoCandidate:
				logger.IncrCounter("link.unlinked_no_candidate")
			}
		}(rec)
	}
	wg.Wait()

	return records
}

func (l *Linker) concurrency() int {
	if l.Concurrency > 0 {
		return l.Concurrency
	}
	return DefaultConcurrency
}

// link attempts detail-page disclosure first, then the title heuristic.
func (l *Linker) link(ctx context.Context, rec *section.Record, index map[string][]*section.Record) Outcome {
	if parent, ok := l.parentFromDetailPage(ctx, rec); ok {
		rec.ParentCourseCode = &parent
		return OutcomeLinked
	}
	return linkByTitle(rec, index)
}

// parentFromDetailPage fetches the record's detail page and looks for the
// required-recitation disclosure. Any fetch error degrades to (_, false).
func (l *Linker) parentFromDetailPage(ctx context.Context, rec *section.Record) (string, bool) {
	if l.fetcher == nil || ctx.Err() != nil {
		return "", false
	}

	fetchCtx, cancel := context.WithTimeout(ctx, l.fetchTimeout())
	defer cancel()

	text, err := l.fetcher.FetchText(fetchCtx, rec.DetailURL)
	if err != nil {
		logger.Debug("detail fetch failed, falling back to title match", logger.Fields{
			"url": rec.DetailURL,
		})
		return "", false
	}

	groups := parentDisclosureRe.FindStringSubmatch(text)
	if groups == nil {
		return "", false
	}
	return strings.ToUpper(groups[1]) + strings.ToUpper(groups[2]), true
}

func (l *Linker) fetchTimeout() time.Duration {
	if l.FetchTimeout > 0 {
		return l.FetchTimeout
	}
	return DefaultFetchTimeout
}

// linkByTitle matches the flagged record's qualifier-stripped title against
// the non-recitation records of the batch. Exactly one candidate links;
// zero or several leave the record unlinked.
func linkByTitle(rec *section.Record, index map[string][]*section.Record) Outcome {
	key := normalizeTitle(rec.Title)
	if key == "" {
		return OutcomeUnlinkedNoCandidate
	}

	// Several sections of the same lecture share a title; they are one
	// candidate course, not a tie.
	codes := make(map[string]bool)
	for _, c := range index[key] {
		codes[c.CourseCode()] = true
	}
	switch {
	case len(codes) == 1:
		var parent string
		for code := range codes {
			parent = code
		}
		rec.ParentCourseCode = &parent
		return OutcomeLinked
	case len(codes) > 1:
		return OutcomeUnlinkedAmbiguous
	default:
		return OutcomeUnlinkedNoCandidate
	}
}

// buildTitleIndex maps normalized titles to the batch's non-recitation
// records. Built once per batch, read-only afterwards.
func buildTitleIndex(records []*section.Record) map[string][]*section.Record {
	index := make(map[string][]*section.Record)
	for _, rec := range records {
		if Flagged(rec) {
			continue
		}
		key := normalizeTitle(rec.Title)
		if key == "" {
			continue
		}
		index[key] = append(index[key], rec)
	}
	return index
}

// normalizeTitle strips recitation qualifiers, lowercases, and collapses
// whitespace so a recitation row can be matched to its lecture's title.
func normalizeTitle(title string) string {
	t := titleQualifierRe.ReplaceAllString(title, " ")
	t = strings.ToLower(strings.Trim(t, titlePunctTrimSet))
	t = whitespaceRunRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
