package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/sis-sections/internal/section"
)

func testRecord(number, sec, title string) *section.Record {
	rec := section.NewRecord("https://doc.sis.columbia.edu", "COMS", number, sec, "Fall 2025")
	rec.Title = title
	return rec
}

func testResult(records ...*section.Record) *OutputResult {
	return &OutputResult{
		CheckedAt:    time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		Term:         "Fall 2025",
		Subjects:     []string{"COMS"},
		Sections:     records,
		SectionCount: len(records),
	}
}

func TestWriteOutputJSON(t *testing.T) {
	rec := testRecord("W3134", "001", "Data Structures in Java")
	call := 12345
	rec.CallNumber = &call

	var buf bytes.Buffer
	if err := WriteOutput(&buf, testResult(rec), FormatJSON, false); err != nil {
		t.Fatalf("WriteOutput returned error: %v", err)
	}

	var decoded OutputResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.SectionCount != 1 || len(decoded.Sections) != 1 {
		t.Errorf("decoded %d sections, want 1", len(decoded.Sections))
	}
	if decoded.Sections[0].CallNumber == nil || *decoded.Sections[0].CallNumber != 12345 {
		t.Errorf("call number lost in round trip: %+v", decoded.Sections[0])
	}
}

func TestWriteOutputText(t *testing.T) {
	rec := testRecord("W3134", "001", "Data Structures in Java")
	start, end := section.NewClock(13, 10), section.NewClock(14, 25)
	rec.StartTime, rec.EndTime = &start, &end
	rec.Days = []string{"Mon", "Wed"}

	result := testResult(rec)
	result.NewSections = []*section.Record{rec}
	result.NewCount = 1

	var buf bytes.Buffer
	if err := WriteOutput(&buf, result, FormatText, false); err != nil {
		t.Fatalf("WriteOutput returned error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"COMS:", "W3134 001", "Data Structures in Java", "13:10-14:25", "Total: 1 sections", "New since last run: 1", "NEW: COMS W3134 001"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteOutputTextUnannounced(t *testing.T) {
	rec := testRecord("W3902", "001", "Supervised Research")

	var buf bytes.Buffer
	if err := WriteOutput(&buf, testResult(rec), FormatText, false); err != nil {
		t.Fatalf("WriteOutput returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "TBA") {
		t.Errorf("unscheduled section should print TBA:\n%s", buf.String())
	}
}

func TestWriteOutputTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, testResult(), FormatText, false); err != nil {
		t.Fatalf("WriteOutput returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "No sections found.") {
		t.Errorf("unexpected empty output: %q", buf.String())
	}
}

func TestWriteOutputCSV(t *testing.T) {
	rec := testRecord("W3134", "R01", "Data Structures Recitation")
	rec.IsRecitation = true
	parent := "COMSW3134"
	rec.ParentCourseCode = &parent
	rec.Credits = &section.Credits{Min: 0, Max: 0}
	rec.Days = []string{"Fri"}

	var buf bytes.Buffer
	if err := WriteOutput(&buf, testResult(rec), FormatCSV, false); err != nil {
		t.Fatalf("WriteOutput returned error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d rows", len(rows))
	}
	if len(rows[0]) != len(rows[1]) {
		t.Errorf("header has %d columns, row has %d", len(rows[0]), len(rows[1]))
	}

	byName := make(map[string]string, len(rows[0]))
	for i, name := range rows[0] {
		byName[name] = rows[1][i]
	}
	if byName["section"] != "R01" {
		t.Errorf("section column = %q, want R01", byName["section"])
	}
	if byName["is_recitation"] != "true" {
		t.Errorf("is_recitation column = %q, want true", byName["is_recitation"])
	}
	if byName["parent_course_code"] != "COMSW3134" {
		t.Errorf("parent_course_code column = %q, want COMSW3134", byName["parent_course_code"])
	}
	if byName["call_number"] != "" {
		t.Errorf("absent call number should be empty, got %q", byName["call_number"])
	}
	if byName["credits_min"] != "0" || byName["credits_max"] != "0" {
		t.Errorf("credits columns = %q/%q, want 0/0", byName["credits_min"], byName["credits_max"])
	}
}

func TestWriteOutputUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, testResult(), OutputFormat("yaml"), false); err == nil {
		t.Error("expected error for unknown format")
	}
}
