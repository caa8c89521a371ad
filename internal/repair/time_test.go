package repair

import (
	"testing"

	"github.com/pfrederiksen/sis-sections/internal/section"
)

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		slice     string
		wantStart string
		wantEnd   string
	}{
		{
			name:      "spaced am/pm range",
			line:      "W3134  001  12345  3.0  Data Structures in Java  MW  1:10 PM-2:25 PM  620 Kravis Hall",
			slice:     "1:10 PM-2:25 P",
			wantStart: "13:10",
			wantEnd:   "14:25",
		},
		{
			name:      "compact am/pm range",
			line:      "W3134  001  12345  3.0  Data Structures in Java  MW  1:10PM-2:25PM  620 Kravis Hall",
			slice:     "1:10PM-2:25PM",
			wantStart: "13:10",
			wantEnd:   "14:25",
		},
		{
			name:      "24-hour range",
			line:      "W3134  001  12345  3.0  Data Structures in Java  MW  13:10-14:25  620 Kravis Hall",
			slice:     "13:10-14:25",
			wantStart: "13:10",
			wantEnd:   "14:25",
		},
		{
			name:      "digit quad range in slice",
			line:      "",
			slice:     "1310-1425",
			wantStart: "13:10",
			wantEnd:   "14:25",
		},
		{
			name:      "word separator",
			line:      "",
			slice:     "13:10 to 14:25",
			wantStart: "13:10",
			wantEnd:   "14:25",
		},
		{
			name:      "en dash separator",
			line:      "",
			slice:     "13:10–14:25",
			wantStart: "13:10",
			wantEnd:   "14:25",
		},
		{
			name:      "trailing pm covers both ends",
			line:      "",
			slice:     "1:10-2:25 pm",
			wantStart: "13:10",
			wantEnd:   "14:25",
		},
		{
			name:      "detached pm coerces a bare quad range",
			line:      "",
			slice:     "110-225 pm",
			wantStart: "13:10",
			wantEnd:   "14:25",
		},
		{
			name:      "pm end keeps an am start when pm would decrease",
			line:      "",
			slice:     "11:00-1:10PM",
			wantStart: "11:00",
			wantEnd:   "13:10",
		},
		{
			name:      "pm start propagates to a later bare end",
			line:      "",
			slice:     "1:10PM-11",
			wantStart: "13:10",
			wantEnd:   "23:00",
		},
		{
			name:      "range overflowing the column resolves from the full line",
			line:      "W4995  001  67890  3.0  Topics in Computer Science  F  4:10 PM-6:40 PM Zoom",
			slice:     "4:10 PM-6:40",
			wantStart: "16:10",
			wantEnd:   "18:40",
		},
		{
			name:      "pm inside an instructor name is not a meridiem marker",
			line:      "W1004  001  22222  3.0  Computing in Context  MW  9:00-10:15  627  Mudd Hall  Chapman, B",
			slice:     "9:00-10:15",
			wantStart: "09:00",
			wantEnd:   "10:15",
		},
		{
			name:      "year range in the title never reads as a time",
			line:      "W1010  001  11111  3.0  The World Wars 1914-1918  MW  TBA",
			slice:     "TBA",
			wantStart: "",
			wantEnd:   "",
		},
		{
			name:      "single time duplicates into both ends",
			line:      "W1010  001  11111  0.0  Orientation  M  14:10",
			slice:     "14:10",
			wantStart: "14:10",
			wantEnd:   "14:10",
		},
		{
			name:      "single am/pm time",
			line:      "",
			slice:     "2:30PM",
			wantStart: "14:30",
			wantEnd:   "14:30",
		},
		{
			name:      "decreasing range degrades to unannounced, not a lone time",
			line:      "",
			slice:     "14:25-13:10",
			wantStart: "",
			wantEnd:   "",
		},
		{
			name:      "zero-length range degrades to unannounced",
			line:      "",
			slice:     "13:10-13:10",
			wantStart: "",
			wantEnd:   "",
		},
		{
			name:      "tba placeholder",
			line:      "W1010  001  11111  3.0  Independent Study  TBA  TBA",
			slice:     "TBA",
			wantStart: "",
			wantEnd:   "",
		},
		{
			name:      "garbage degrades to unannounced",
			line:      "",
			slice:     "see department",
			wantStart: "",
			wantEnd:   "",
		},
		{
			name:      "out-of-range quad degrades to unannounced",
			line:      "",
			slice:     "2575-2585",
			wantStart: "",
			wantEnd:   "",
		},
		{
			name:      "empty input",
			line:      "",
			slice:     "",
			wantStart: "",
			wantEnd:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := ParseTimeRange(tt.line, tt.slice)

			if got := clockString(start); got != tt.wantStart {
				t.Errorf("start = %q, want %q", got, tt.wantStart)
			}
			if got := clockString(end); got != tt.wantEnd {
				t.Errorf("end = %q, want %q", got, tt.wantEnd)
			}
			if (start == nil) != (end == nil) {
				t.Error("start and end must be both set or both nil")
			}
		})
	}
}

func TestParseTimeRangePrefersFullLine(t *testing.T) {
	// The slice holds a truncated range that still parses on its own; the
	// full line carries the complete one and must win.
	line := "W3134  001  12345  3.0  Data Structures  MW  11:00-1:10PM  620 Kravis Hall"
	start, end := ParseTimeRange(line, "11:00-1:10")

	if clockString(start) != "11:00" || clockString(end) != "13:10" {
		t.Errorf("got %s-%s, want 11:00-13:10", clockString(start), clockString(end))
	}
}

func clockString(c *section.Clock) string {
	if c == nil {
		return ""
	}
	return string(*c)
}
