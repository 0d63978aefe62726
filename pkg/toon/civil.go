package toon

import "time"

// epoch is the reference instant Date and Timestamp values count from.
var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// dateISO renders a day count since the Unix epoch as "YYYY-MM-DD".
// Go's time package already carries a correct proleptic Gregorian
// calendar, so AddDate on a UTC epoch anchor gives the right result
// without a hand-rolled civil-from-days routine.
func dateISO(epochDays int32) string {
	return epoch.AddDate(0, 0, int(epochDays)).Format("2006-01-02")
}

// timestampISO renders a UTC Unix timestamp in seconds as
// "YYYY-MM-DDTHH:MM:SSZ", truncating any fractional seconds.
func timestampISO(epochSeconds float64) string {
	return time.Unix(int64(epochSeconds), 0).UTC().Format("2006-01-02T15:04:05Z")
}
