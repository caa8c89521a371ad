package parser

import (
	"strconv"
	"strings"

	"github.com/pfrederiksen/sis-sections/internal/logger"
	"github.com/pfrederiksen/sis-sections/internal/repair"
	"github.com/pfrederiksen/sis-sections/internal/section"
)

// Parser parses listing pages into section records
type Parser struct {
	baseURL string
}

// New creates a new Parser. baseURL is the catalog root used to build
// deterministic detail-page URLs.
func New(baseURL string) *Parser {
	return &Parser{baseURL: baseURL}
}

// rawRow holds the untrimmed column slices of one data line.
type rawRow struct {
	line     string
	number   string
	sec      string
	call     string
	pts      string
	title    string
	day      string
	time     string
	room     string
	building string
	faculty  string
}

// ParsePage parses one subject's plain-text listing into section records,
// in source order. A page without a recognizable header returns a
// *MalformedPageError; callers skip the page and continue their batch.
// Unparseable data lines are dropped silently and counted.
func (p *Parser) ParsePage(text, subject, term string) ([]*section.Record, error) {
	lines := strings.Split(text, "\n")

	headerIdx := -1
	for i, line := range lines {
		if IsHeaderLine(line) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, &MalformedPageError{Page: subject + " " + term}
	}
	index := BuildColumnIndex(lines[headerIdx])

	records := make([]*section.Record, 0, len(lines))
	var prev *section.Record

	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row := sliceRow(index, line)

		// A previous instructor ending in a comma marks a wrapped name:
		// this line's Faculty cell belongs to it, not to a new row.
		donated := false
		if prev != nil && strings.HasSuffix(strings.TrimSpace(prev.Instructor), ",") && row.faculty != "" {
			prev.Instructor = strings.TrimSpace(prev.Instructor) + " " + row.faculty
			row.faculty = ""
			donated = true
		}

		if !acceptRow(row.number, row.sec, row.call, row.title) {
			// A dropped line that contributed no faculty text breaks
			// adjacency: the merge only spans immediately consecutive lines.
			if !donated {
				prev = nil
			}
			logger.IncrCounter("parse.rows_dropped")
			continue
		}

		rec := p.buildRecord(row, subject, term)
		records = append(records, rec)
		prev = rec
	}

	return records, nil
}

// acceptRow is the row-acceptance gate: a real course row carries a title
// and at least one identifying field. Department banner lines and stray
// footers fail here before any field repair runs.
func acceptRow(number, sec, call, title string) bool {
	if title == "" {
		return false
	}
	if number != "" || sec != "" {
		return true
	}
	_, err := strconv.Atoi(call)
	return err == nil
}

func sliceRow(index *ColumnIndex, line string) rawRow {
	return rawRow{
		line:     line,
		number:   index.Slice(line, "Number"),
		sec:      index.Slice(line, "Sec"),
		call:     index.Slice(line, "Call#"),
		pts:      index.Slice(line, "Pts"),
		title:    index.Slice(line, "Title"),
		day:      index.Slice(line, "Day"),
		time:     index.Slice(line, "Time"),
		room:     index.Slice(line, "Room"),
		building: index.Slice(line, "Building"),
		faculty:  index.Slice(line, "Faculty"),
	}
}

func (p *Parser) buildRecord(row rawRow, subject, term string) *section.Record {
	rec := section.NewRecord(p.baseURL, subject, row.number, row.sec, term)
	rec.Title = row.title
	rec.Instructor = row.faculty

	if call, err := strconv.Atoi(row.call); err == nil {
		rec.CallNumber = &call
	}

	rec.Credits = repair.ParseCredits(row.pts)
	rec.Days = repair.CanonicalizeDays(row.day)

	rec.StartTime, rec.EndTime = repair.ParseTimeRange(row.line, row.time)
	if rec.StartTime == nil && row.time != "" && !strings.EqualFold(row.time, "TBA") {
		logger.IncrCounter("repair.time_tba_fallback")
	}

	rec.Room, rec.Building = repair.RepairLocation(row.room, row.building)

	return rec
}
