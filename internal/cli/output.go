package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/sis-sections/internal/section"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt       time.Time         `json:"checked_at"`
	Term            string            `json:"term"`
	Subjects        []string          `json:"subjects"`
	SkippedSubjects []string          `json:"skipped_subjects,omitempty"`
	Sections        []*section.Record `json:"sections"`
	SectionCount    int               `json:"section_count"`
	NewSections     []*section.Record `json:"new_sections,omitempty"`
	NewCount        int               `json:"new_count"`
	Counters        map[string]int64  `json:"counters,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		return writeCSV(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// csvHeader lists the exported columns in order
var csvHeader = []string{
	"subject", "course_number", "section", "call_number", "title",
	"credits_min", "credits_max", "days", "start_time", "end_time",
	"room", "building", "instructor", "is_recitation",
	"parent_course_code", "detail_url",
}

// writeCSV outputs one row per section
func writeCSV(w io.Writer, result *OutputResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, rec := range result.Sections {
		row := []string{
			rec.Subject,
			rec.CourseNumber,
			rec.Section,
			optionalInt(rec.CallNumber),
			rec.Title,
			creditsPart(rec.Credits, true),
			creditsPart(rec.Credits, false),
			strings.Join(rec.Days, " "),
			optionalClock(rec.StartTime),
			optionalClock(rec.EndTime),
			optionalString(rec.Room),
			optionalString(rec.Building),
			rec.Instructor,
			strconv.FormatBool(rec.IsRecitation),
			optionalString(rec.ParentCourseCode),
			rec.DetailURL,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeText outputs results as human-readable text, grouped by subject
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.SectionCount == 0 {
		fmt.Fprintln(w, "No sections found.")
		return nil
	}

	currentSubject := ""
	for _, rec := range result.Sections {
		if rec.Subject != currentSubject {
			currentSubject = rec.Subject
			fmt.Fprintf(w, "\n%s:\n", currentSubject)
		}
		fmt.Fprintf(w, "  %s %s  %s  %s %s  %s\n",
			rec.CourseNumber, rec.Section, padTitle(rec.Title),
			strings.Join(rec.Days, ""), formatMeeting(rec), formatLocation(rec))
		if verbose {
			if rec.Instructor != "" {
				fmt.Fprintf(w, "       Instructor: %s\n", rec.Instructor)
			}
			if rec.CallNumber != nil {
				fmt.Fprintf(w, "       Call#: %d\n", *rec.CallNumber)
			}
			if rec.IsRecitation {
				parent := "unlinked"
				if rec.ParentCourseCode != nil {
					parent = *rec.ParentCourseCode
				}
				fmt.Fprintf(w, "       Recitation of: %s\n", parent)
			}
			fmt.Fprintf(w, "       URL: %s\n", rec.DetailURL)
		}
	}

	fmt.Fprintf(w, "\nTotal: %d sections across %d subjects", result.SectionCount, len(result.Subjects))
	if len(result.SkippedSubjects) > 0 {
		fmt.Fprintf(w, " (skipped: %s)", strings.Join(result.SkippedSubjects, ", "))
	}
	fmt.Fprintln(w)

	if result.NewCount > 0 {
		fmt.Fprintf(w, "New since last run: %d\n", result.NewCount)
		for _, rec := range result.NewSections {
			fmt.Fprintf(w, "  NEW: %s %s %s  %s\n", rec.Subject, rec.CourseNumber, rec.Section, rec.Title)
		}
	}

	return nil
}

// formatMeeting renders the meeting time, or the TBA marker when the
// schedule is unannounced.
func formatMeeting(rec *section.Record) string {
	if rec.StartTime == nil || rec.EndTime == nil {
		return "TBA"
	}
	if *rec.StartTime == *rec.EndTime {
		return string(*rec.StartTime)
	}
	return fmt.Sprintf("%s-%s", *rec.StartTime, *rec.EndTime)
}

func formatLocation(rec *section.Record) string {
	switch {
	case rec.Room != nil && rec.Building != nil:
		return *rec.Room + " " + *rec.Building
	case rec.Building != nil:
		return *rec.Building
	case rec.Room != nil:
		return *rec.Room
	default:
		return ""
	}
}

func padTitle(title string) string {
	const width = 32
	if len(title) >= width {
		return title
	}
	return title + strings.Repeat(" ", width-len(title))
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optionalInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func optionalClock(c *section.Clock) string {
	if c == nil {
		return ""
	}
	return string(*c)
}

func creditsPart(c *section.Credits, min bool) string {
	if c == nil {
		return ""
	}
	v := c.Max
	if min {
		v = c.Min
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
