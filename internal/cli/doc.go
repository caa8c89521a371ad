// Package cli implements the command-line interface for sis-sections.
//
// The cli package provides the Cobra-based CLI that fetches subject-term
// listings, parses them into normalized section records, links recitations
// to their parent lectures, and reports the results as text, JSON, or CSV.
// It coordinates the fetch, parser, linker, and storage packages; subjects
// are independent and are processed on a bounded worker pool.
package cli
