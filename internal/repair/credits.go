package repair

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pfrederiksen/sis-sections/internal/section"
)

var creditsRangeRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)$`)

// ParseCredits normalizes the Pts column: either a fixed point value
// ("3", "1.5") or a range ("0-4"). Returns nil when the slice holds
// neither, which downstream treats as credits unknown.
func ParseCredits(pts string) *section.Credits {
	pts = dashNormalizer.Replace(strings.TrimSpace(pts))
	if pts == "" {
		return nil
	}

	if groups := creditsRangeRe.FindStringSubmatch(pts); groups != nil {
		min, err1 := strconv.ParseFloat(groups[1], 64)
		max, err2 := strconv.ParseFloat(groups[2], 64)
		if err1 == nil && err2 == nil && min <= max {
			return &section.Credits{Min: min, Max: max}
		}
		return nil
	}

	fixed, err := strconv.ParseFloat(pts, 64)
	if err != nil {
		return nil
	}
	return &section.Credits{Min: fixed, Max: fixed}
}
