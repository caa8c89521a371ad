package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/sis-sections/internal/section"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByCourse SortOrder = "course"
	SortByTime   SortOrder = "time"
	SortByTitle  SortOrder = "title"
)

// sortSections sorts a slice of records based on the specified sort order
func sortSections(records []*section.Record, sortOrder SortOrder) {
	switch sortOrder {
	case SortByCourse:
		sort.Slice(records, func(i, j int) bool {
			return compareByCourse(records[i], records[j])
		})
	case SortByTime:
		sort.Slice(records, func(i, j int) bool {
			return compareByTime(records[i], records[j])
		})
	case SortByTitle:
		sort.Slice(records, func(i, j int) bool {
			ti := strings.ToLower(records[i].Title)
			tj := strings.ToLower(records[j].Title)
			if ti != tj {
				return ti < tj
			}
			return compareByCourse(records[i], records[j])
		})
	}
}

// compareByCourse orders by subject, course number, then section code
func compareByCourse(i, j *section.Record) bool {
	if i.Subject != j.Subject {
		return i.Subject < j.Subject
	}
	if i.CourseNumber != j.CourseNumber {
		return i.CourseNumber < j.CourseNumber
	}
	return i.Section < j.Section
}

// compareByTime orders by meeting start time; unscheduled (TBA) sections
// sort last, then by course for a stable ordering.
func compareByTime(i, j *section.Record) bool {
	mi, mj := startMinutes(i), startMinutes(j)
	if mi != mj {
		return mi < mj
	}
	return compareByCourse(i, j)
}

func startMinutes(rec *section.Record) int {
	if rec.StartTime == nil {
		return 24 * 60 // TBA sorts after every real time
	}
	return rec.StartTime.Minutes()
}
