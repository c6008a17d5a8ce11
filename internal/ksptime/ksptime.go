// Package ksptime renders simulated durations using the Kerbin calendar:
// 6 hour days and 426 day years.
package ksptime

import (
	"fmt"
	"math"
)

const (
	secondsInMinute = 60
	minutesInHour   = 60
	hoursInDay      = 6
	daysInYear      = 426

	secondsInHour = secondsInMinute * minutesInHour
	secondsInDay  = hoursInDay * secondsInHour
	secondsInYear = daysInYear * secondsInDay
)

// Format returns a compact duration such as "05m12s", "3h07m", "12d 4h" or "2y 17d".
func Format(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "n/a"
	}
	total := int64(math.Trunc(seconds))
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	years := total / secondsInYear
	days := total % secondsInYear / secondsInDay
	hours := total % secondsInDay / secondsInHour
	minutes := total % secondsInHour / secondsInMinute
	secs := total % secondsInMinute

	switch {
	case total < secondsInHour:
		return fmt.Sprintf("%s%02dm%02ds", sign, minutes, secs)
	case total < secondsInDay:
		return fmt.Sprintf("%s%dh%02dm", sign, hours, minutes)
	case total < secondsInYear:
		return fmt.Sprintf("%s%dd %dh", sign, days, hours)
	}
	return fmt.Sprintf("%s%dy %dd", sign, years, days)
}
