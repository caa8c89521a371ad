package linker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pfrederiksen/sis-sections/internal/section"
)

type fakeFetcher struct {
	mu          sync.Mutex
	pages       map[string]string
	err         error
	calls       int
	inFlight    int
	maxInFlight int
}

func (f *fakeFetcher) FetchText(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	time.Sleep(time.Millisecond)

	f.mu.Lock()
	f.inFlight--
	page, ok := f.pages[url]
	err := f.err
	f.mu.Unlock()

	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("not found")
	}
	return page, nil
}

func testRecord(number, sec, title string, credits float64) *section.Record {
	rec := section.NewRecord("https://doc.sis.columbia.edu", "COMS", number, sec, "Fall 2025")
	rec.Title = title
	rec.Credits = &section.Credits{Min: credits, Max: credits}
	return rec
}

func TestFlagged(t *testing.T) {
	tests := []struct {
		name string
		rec  *section.Record
		want bool
	}{
		{name: "r-coded section", rec: testRecord("W3134", "R01", "Recitation", 3), want: true},
		{name: "zero credits", rec: testRecord("W3134", "002", "Recitation", 0), want: true},
		{name: "regular lecture", rec: testRecord("W3134", "001", "Data Structures in Java", 3), want: false},
		{name: "r without digits", rec: testRecord("W3134", "R", "Lecture", 3), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Flagged(tt.rec); got != tt.want {
				t.Errorf("Flagged(%s) = %v, want %v", tt.rec.Section, got, tt.want)
			}
		})
	}

	t.Run("unknown credits are not flagged", func(t *testing.T) {
		rec := testRecord("W3134", "001", "Lecture", 3)
		rec.Credits = nil
		if Flagged(rec) {
			t.Error("record with unknown credits should not be flagged")
		}
	})
}

func TestLinkRecitationsFromDetailPage(t *testing.T) {
	recitation := testRecord("W3135", "R01", "Recitation in Data Structures", 0)
	lecture := testRecord("W3134", "001", "Data Structures in Java", 3)

	fetcher := &fakeFetcher{pages: map[string]string{
		recitation.DetailURL: "Required recitation for students enrolled in (COMS) (3134).",
	}}
	l := New(fetcher)

	l.LinkRecitations(context.Background(), []*section.Record{lecture, recitation})

	if !recitation.IsRecitation {
		t.Error("expected recitation to be flagged")
	}
	if recitation.ParentCourseCode == nil || *recitation.ParentCourseCode != "COMS3134" {
		t.Errorf("parent = %v, want COMS3134", recitation.ParentCourseCode)
	}
	if lecture.IsRecitation {
		t.Error("lecture must not be flagged")
	}
	if lecture.ParentCourseCode != nil {
		t.Error("lecture must not gain a parent")
	}
}

func TestLinkRecitationsTitleFallback(t *testing.T) {
	recitation := testRecord("W3134", "R01", "Data Structures in Java Recitation", 0)
	lecture := testRecord("W3134", "001", "Data Structures in Java", 3)

	// Every detail fetch fails; linkage must degrade to the title match.
	fetcher := &fakeFetcher{err: errors.New("boom")}
	l := New(fetcher)

	l.LinkRecitations(context.Background(), []*section.Record{lecture, recitation})

	if recitation.ParentCourseCode == nil || *recitation.ParentCourseCode != "COMSW3134" {
		t.Errorf("parent = %v, want COMSW3134", recitation.ParentCourseCode)
	}
}

func TestLinkRecitationsTitleFallbackMultipleSections(t *testing.T) {
	// Two sections of the same lecture are one candidate course, not a tie.
	recitation := testRecord("W3134", "R01", "Data Structures in Java Recitation", 0)
	lecture1 := testRecord("W3134", "001", "Data Structures in Java", 3)
	lecture2 := testRecord("W3134", "002", "Data Structures in Java", 3)

	l := New(nil)
	l.LinkRecitations(context.Background(), []*section.Record{lecture1, lecture2, recitation})

	if recitation.ParentCourseCode == nil || *recitation.ParentCourseCode != "COMSW3134" {
		t.Errorf("parent = %v, want COMSW3134", recitation.ParentCourseCode)
	}
}

func TestLinkRecitationsAmbiguousTitle(t *testing.T) {
	recitation := testRecord("W1010", "R01", "Introduction Recitation", 0)
	lectureA := testRecord("W1004", "001", "Introduction", 3)
	lectureB := testRecord("W1005", "001", "Introduction", 3)

	l := New(nil)
	l.LinkRecitations(context.Background(), []*section.Record{lectureA, lectureB, recitation})

	if !recitation.IsRecitation {
		t.Error("expected recitation to stay flagged")
	}
	if recitation.ParentCourseCode != nil {
		t.Errorf("ambiguous recitation must stay unlinked, got %v", *recitation.ParentCourseCode)
	}
}

func TestLinkRecitationsNoCandidate(t *testing.T) {
	recitation := testRecord("W9999", "R01", "Advanced Topics Recitation", 0)
	lecture := testRecord("W3134", "001", "Data Structures in Java", 3)

	l := New(nil)
	l.LinkRecitations(context.Background(), []*section.Record{lecture, recitation})

	if !recitation.IsRecitation {
		t.Error("expected recitation to stay flagged")
	}
	if recitation.ParentCourseCode != nil {
		t.Errorf("expected no parent, got %v", *recitation.ParentCourseCode)
	}
}

func TestLinkRecitationsBoundedConcurrency(t *testing.T) {
	records := make([]*section.Record, 0, 12)
	for i := 0; i < 12; i++ {
		records = append(records, testRecord("W3134", "R0"+string(rune('1'+i%9)), "Recitation", 0))
	}

	fetcher := &fakeFetcher{err: errors.New("boom")}
	l := New(fetcher)
	l.Concurrency = 2

	l.LinkRecitations(context.Background(), records)

	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	if fetcher.maxInFlight > 2 {
		t.Errorf("max in-flight fetches = %d, want at most 2", fetcher.maxInFlight)
	}
	if fetcher.calls != 12 {
		t.Errorf("calls = %d, want 12", fetcher.calls)
	}
}

func TestLinkRecitationsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	recitation := testRecord("W3134", "R01", "Data Structures in Java Recitation", 0)
	lecture := testRecord("W3134", "001", "Data Structures in Java", 3)

	fetcher := &fakeFetcher{pages: map[string]string{}}
	l := New(fetcher)
	l.LinkRecitations(ctx, []*section.Record{lecture, recitation})

	fetcher.mu.Lock()
	calls := fetcher.calls
	fetcher.mu.Unlock()
	if calls != 0 {
		t.Errorf("cancelled context must skip detail fetches, got %d calls", calls)
	}
	// Title fallback still runs.
	if recitation.ParentCourseCode == nil || *recitation.ParentCourseCode != "COMSW3134" {
		t.Errorf("parent = %v, want COMSW3134", recitation.ParentCourseCode)
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Data Structures in Java Recitation", "data structures in java"},
		{"RECITATION: Data Structures", "data structures"},
		{"Organic Chemistry Laboratory", "organic chemistry"},
		{"Data   Structures  in Java", "data structures in java"},
		{"Recitation", ""},
	}

	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.want {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
