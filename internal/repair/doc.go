// Package repair provides pure field-normalization functions for the raw
// column slices of a catalog listing row: meeting-time ranges, compact day
// tokens, split room/building strings, and credit values.
//
// Every function is stateless and safe to call concurrently. When a value
// cannot be normalized with confidence the functions return the nil /
// to-be-announced form rather than a low-confidence guess.
package repair
