package cli

import "github.com/reveriehq/reverie/internal/client/models"

// wipeBytes zeroes a password buffer once it is no longer needed.
func wipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// shortDate trims an ISO 8601 timestamp to its date part for listings.
func shortDate(date string) string {
	if len(date) > 10 {
		return date[:10]
	}
	return date
}

// defaultMoodIndex is the fallback mood when the user skips the question.
func defaultMoodIndex() int {
	for i, m := range models.Moods {
		if m == "neutral" {
			return i
		}
	}
	return 0
}
