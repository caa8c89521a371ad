package section

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// CanonicalDays lists the canonical day names in week order.
var CanonicalDays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Clock is a 24-hour wall-clock time in "HH:MM" form.
type Clock string

// NewClock builds a Clock from an hour (0-23) and minute (0-59).
func NewClock(hour, minute int) Clock {
	return Clock(fmt.Sprintf("%02d:%02d", hour, minute))
}

// Minutes returns the clock value as minutes since midnight.
// Returns -1 for a malformed value.
func (c Clock) Minutes() int {
	var h, m int
	if _, err := fmt.Sscanf(string(c), "%d:%d", &h, &m); err != nil {
		return -1
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return -1
	}
	return h*60 + m
}

// Credits holds a section's credit value. A fixed-credit section has
// Min == Max; variable-credit sections carry the catalog's range.
type Credits struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IsZero reports whether the section carries exactly zero credits,
// the catalog's marker for recitation and lab components.
func (c Credits) IsZero() bool {
	return c.Min == 0 && c.Max == 0
}

// Record represents one normalized course section parsed from a listing page.
// Nullable fields use pointers: nil means the catalog left the value
// unannounced, not that it was empty text.
type Record struct {
	ID           string `json:"id"`
	Subject      string `json:"subject"`
	CourseNumber string `json:"course_number"`
	Section      string `json:"section"`
	CallNumber   *int   `json:"call_number"`
	Term         string `json:"term"`

	Title   string   `json:"title"`
	Credits *Credits `json:"credits"`

	Days      []string `json:"days"`
	StartTime *Clock   `json:"start_time"`
	EndTime   *Clock   `json:"end_time"`

	Room     *string `json:"room"`
	Building *string `json:"building"`

	Instructor string `json:"instructor"`

	IsRecitation     bool    `json:"is_recitation"`
	ParentCourseCode *string `json:"parent_course_code"`

	DetailURL string `json:"detail_url"`
}

// CourseCode returns the subject-qualified course code, e.g. "COMS3134".
func (r *Record) CourseCode() string {
	return r.Subject + r.CourseNumber
}

// GenerateID creates a deterministic ID for a record based on its identity fields
func GenerateID(subject, number, sec, term string) string {
	h := sha1.New()
	h.Write([]byte(subject + "|" + number + "|" + sec + "|" + term))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// NewRecord creates a Record with ID and DetailURL populated.
func NewRecord(baseURL, subject, number, sec, term string) *Record {
	return &Record{
		ID:           GenerateID(subject, number, sec, term),
		Subject:      subject,
		CourseNumber: number,
		Section:      sec,
		Term:         term,
		Days:         []string{},
		DetailURL:    DetailURL(baseURL, subject, number, term, sec),
	}
}

// NormalizeTerm collapses a human term label to the catalog's URL token,
// e.g. "Fall 2025" -> "Fall2025".
func NormalizeTerm(term string) string {
	return strings.Join(strings.Fields(term), "")
}

// TermCode converts a term label to the registrar's numeric code:
// year followed by a season digit (Spring 1, Summer 2, Fall 3).
// Falls back to the normalized label when the season is unrecognized.
func TermCode(term string) string {
	fields := strings.Fields(term)
	if len(fields) == 2 {
		var digit string
		switch strings.ToLower(fields[0]) {
		case "spring":
			digit = "1"
		case "summer":
			digit = "2"
		case "fall":
			digit = "3"
		}
		if digit != "" && len(fields[1]) == 4 {
			return fields[1] + digit
		}
	}
	return NormalizeTerm(term)
}

// DetailURL builds the deterministic per-section detail page URL:
// {base}/subj/{SUBJ}/{NUMBER}-{TERMCODE}-{SEC}/
// Callers may cache on this key; the same record always yields the same URL.
func DetailURL(baseURL, subject, number, term, sec string) string {
	return fmt.Sprintf("%s/subj/%s/%s-%s-%s/",
		strings.TrimRight(baseURL, "/"), subject, number, TermCode(term), sec)
}
