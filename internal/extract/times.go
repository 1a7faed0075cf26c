package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	timeAMPM = regexp.MustCompile(`(?i)\b(1[0-2]|0?[1-9])(?::([0-5]\d))?\s?(am|pm)\b`)
	timeHHMM = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`)
	timeHour = regexp.MustCompile(`\b([01]?\d|2[0-3])\s?h\b`)
)

// ExtractTime finds the first time-of-day expression in text and normalizes
// it to 24-hour HH:MM. Supported forms: "17:05", "17h", "5pm", "5:30 pm".
// am/pm is checked first so "5:30 pm" resolves to 17:30 rather than 05:30.
// Returns "" when nothing parseable is found.
func ExtractTime(text string) string {
	if m := timeAMPM.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		meridiem := strings.ToLower(m[3])
		if meridiem == "am" && hour == 12 {
			hour = 0
		}
		if meridiem == "pm" && hour != 12 {
			hour += 12
		}
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}

	if m := timeHHMM.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%02d:%02d", hour, minute)
	}

	if m := timeHour.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d:00", hour)
	}

	return ""
}
