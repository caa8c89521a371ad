package repair

import (
	"strings"
	"unicode"
)

// AnnouncedLater is the catalog's canonical phrase for a room that has not
// been assigned yet.
const AnnouncedLater = "To be announced"

// RepairLocation normalizes the raw Room and Building column slices.
//
// The fixed-width rendering corrupts locations in two systematic ways, and
// exactly one rule fires per row:
//
//   - Rule A: "To be announced" straddles the column boundary, leaving
//     "To be" in Room and "announced" in Building. The row has no room.
//   - Rule B: the building's first letter drifts into the Room column, as in
//     Room "620 K" / Building "ravis Hall" for room 620 of Kravis Hall.
//
// nil results mean the field is absent, not empty text.
func RepairLocation(room, building string) (*string, *string) {
	room = strings.TrimSpace(room)
	building = strings.TrimSpace(building)

	if strings.EqualFold(room, "To be") && strings.Contains(strings.ToLower(building), "announced") {
		b := AnnouncedLater
		return nil, &b
	}

	if letter, rest, ok := trailingIsolatedLetter(room); ok && startsLower(building) {
		room = strings.TrimRight(rest, " \t")
		building = letter + building
	}

	return optional(room), optional(building)
}

// trailingIsolatedLetter reports whether the string ends in a single
// uppercase letter standing alone (preceded by whitespace, or the whole
// string). Multi-letter drift is out of scope; one letter is the known
// corruption signature.
func trailingIsolatedLetter(s string) (letter, rest string, ok bool) {
	if s == "" {
		return "", "", false
	}
	runes := []rune(s)
	last := runes[len(runes)-1]
	if !unicode.IsUpper(last) || !unicode.IsLetter(last) {
		return "", "", false
	}
	if len(runes) > 1 && !unicode.IsSpace(runes[len(runes)-2]) {
		return "", "", false
	}
	return string(last), string(runes[:len(runes)-1]), true
}

func startsLower(s string) bool {
	for _, r := range s {
		return unicode.IsLower(r)
	}
	return false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
