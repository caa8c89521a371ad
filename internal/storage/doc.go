// Package storage provides JSON-based persistence for section snapshots.
//
// The storage package manages local snapshot files that track parsed
// sections across runs, one file per subject and term
// (sections_SUBJECT_Term.json). Snapshots feed the diff that reports
// newly added sections. The default storage location is
// ~/.local/share/sis-sections/.
package storage
