package repair

import "strings"

// Two-character tokens are tried before single characters so "TuTh" never
// splits into a lone "T" plus garbage. "R" is the Thursday alternate and
// "U" Sunday's.
var twoCharDays = map[string]string{
	"Tu": "Tue",
	"Th": "Thu",
	"Sa": "Sat",
	"Su": "Sun",
}

var oneCharDays = map[byte]string{
	'M': "Mon",
	'T': "Tue",
	'W': "Wed",
	'R': "Thu",
	'F': "Fri",
	'S': "Sat",
	'U': "Sun",
}

// CanonicalizeDays expands a compact day token string ("MWF", "TuTh",
// "MTWRF") into canonical day names. First-occurrence order is preserved,
// duplicates are dropped, and unrecognized characters are skipped. The
// announced-later placeholder yields no days rather than a bogus Tuesday.
func CanonicalizeDays(token string) []string {
	days := make([]string, 0, 5)
	if strings.Contains(strings.ToUpper(token), "TBA") {
		return days
	}
	seen := make(map[string]bool, 7)

	add := func(day string) {
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}

	for i := 0; i < len(token); {
		if i+1 < len(token) {
			if day, ok := twoCharDays[token[i:i+2]]; ok {
				add(day)
				i += 2
				continue
			}
		}
		if day, ok := oneCharDays[token[i]]; ok {
			add(day)
		}
		i++
	}

	return days
}
