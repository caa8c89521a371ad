// Package section provides types and functions for normalized course-section
// records parsed from the university catalog's plain-text listings.
//
// The section package handles record representation, identification, and change
// detection through snapshot-based diffing. Each record is assigned a
// deterministic SHA1-based ID generated from its subject, course number,
// section code, and term, enabling reliable tracking across runs.
package section
