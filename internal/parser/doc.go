// Package parser turns one subject's plain-text listing page into normalized
// section records.
//
// The listing is column-aligned: a header line names the fields and every
// data line below it places field values at the same character offsets. The
// parser derives the column slices once per page from the header, then runs
// each line through an acceptance gate (dropping department banners and
// stray footers), repairs the sliced fields, and merges instructor names
// that wrapped onto a continuation line.
package parser
