// Package linker attaches recitation and lab sections to their parent
// lecture within one subject's batch of parsed records.
//
// A section is flagged as a recitation candidate when its section code is
// "R" plus digits or when it carries exactly zero credits. Linkage tries
// the authoritative source first (the section's detail page, which may
// disclose the required parent course) and degrades to a title-match
// heuristic inside the batch. A slow or failed detail fetch lowers linkage
// quality; it never fails the batch.
package linker
