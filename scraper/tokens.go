package scraper

import "regexp"

// The site renders schedules either as ranges ("6/1 - 6/30") or single
// tokens ("6/1"). Ranges are matched first: the loose single-token pattern
// would otherwise match inside a range and fragment it.
var (
	dateRangePattern  = regexp.MustCompile(`\b\d{1,2}/\d{1,2}\s*[-–]\s*\d{1,2}/\d{1,2}\b`)
	dateSinglePattern = regexp.MustCompile(`\b\d{1,2}/\d{1,2}\b`)
	timeRangePattern  = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*[AP]M\s*[-–]\s*\d{1,2}:\d{2}\s*[AP]M\b`)
	timeSinglePattern = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*[AP]M\b`)
)

// ExtractDates pulls date tokens out of a text blob, preferring ranges over
// single dates.
func ExtractDates(text string) []string {
	if ranges := dateRangePattern.FindAllString(text, -1); len(ranges) > 0 {
		return ranges
	}
	return dateSinglePattern.FindAllString(text, -1)
}

// ExtractTimes pulls time tokens out of a text blob, preferring ranges over
// single times. The AM/PM marker is matched case-insensitively.
func ExtractTimes(text string) []string {
	if ranges := timeRangePattern.FindAllString(text, -1); len(ranges) > 0 {
		return ranges
	}
	return timeSinglePattern.FindAllString(text, -1)
}
