package section

import "sort"

// Snapshot represents one subject's parsed sections at a point in time
type Snapshot struct {
	Sections  map[string]*Record `json:"sections"`   // keyed by Record.ID
	UpdatedAt string             `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Sections: make(map[string]*Record),
	}
}

// CreateSnapshot creates a snapshot from a list of records
func CreateSnapshot(records []*Record, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt
	for _, rec := range records {
		snap.Sections[rec.ID] = rec
	}
	return snap
}

// DiffResult contains the results of comparing current records against a snapshot
type DiffResult struct {
	NewSections []*Record
	BySubject   map[string][]*Record // new sections grouped by subject
}

// Diff compares current records against a previous snapshot and returns
// sections that were not present before. Identity is the deterministic
// record ID, so reparsing identical listings yields an empty diff.
func Diff(previous *Snapshot, current []*Record) *DiffResult {
	result := &DiffResult{
		NewSections: make([]*Record, 0),
		BySubject:   make(map[string][]*Record),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	for _, rec := range current {
		if _, exists := previous.Sections[rec.ID]; exists {
			continue
		}
		result.NewSections = append(result.NewSections, rec)
		result.BySubject[rec.Subject] = append(result.BySubject[rec.Subject], rec)
	}

	// Sort for consistent output
	byIdentity := func(a, b *Record) bool {
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		if a.CourseNumber != b.CourseNumber {
			return a.CourseNumber < b.CourseNumber
		}
		return a.Section < b.Section
	}
	sort.Slice(result.NewSections, func(i, j int) bool {
		return byIdentity(result.NewSections[i], result.NewSections[j])
	})
	for subject := range result.BySubject {
		group := result.BySubject[subject]
		sort.Slice(group, func(i, j int) bool { return byIdentity(group[i], group[j]) })
	}

	return result
}
