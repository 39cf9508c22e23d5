package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

// HH:MM with optional :SS and fractional seconds, hours 00-23.
var timeOfDayRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)(:[0-5]\d(\.\d+)?)?$`)

// ParseTimeOfDay returns the minutes since midnight for a time-of-day string.
func ParseTimeOfDay(value string) (int, bool) {
	m := timeOfDayRe.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return hour*60 + minute, true
}

// NormalizeTimeValue trims seconds from a stored time ("10:00:00" -> "10:00").
// Empty input stays empty.
func NormalizeTimeValue(value string) string {
	if len(value) > 5 {
		return value[:5]
	}
	return value
}

// NormalizeTimePtr is NormalizeTimeValue for nullable columns; nil and ""
// both come back as nil.
func NormalizeTimePtr(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	v := NormalizeTimeValue(*value)
	return &v
}

// QuarterHourOptions lists every 15 minutes from 00:00 to 23:45.
func QuarterHourOptions() []string {
	options := make([]string, 0, 24*4)
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute += 15 {
			options = append(options, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return options
}
