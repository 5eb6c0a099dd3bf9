// Package timeofday classifies local "HH:MM" departure times into the
// display buckets the filter sidebar offers.
package timeofday

import "time"

type Bucket string

const (
	Morning   Bucket = "morning"   // 05:00-11:59
	Afternoon Bucket = "afternoon" // 12:00-17:59
	Evening   Bucket = "evening"   // 18:00-23:59
	Night     Bucket = "night"     // 00:00-04:59
)

func (b Bucket) Valid() bool {
	switch b {
	case Morning, Afternoon, Evening, Night:
		return true
	}
	return false
}

// Minutes parses a zero-padded 24-hour "HH:MM" string into minutes past
// midnight.
func Minutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Of returns the bucket for a "HH:MM" departure time. The boolean is false
// when the string does not parse; callers treat unparseable times as
// matching no bucket.
func Of(hhmm string) (Bucket, bool) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", false
	}
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return Morning, true
	case h >= 12 && h < 18:
		return Afternoon, true
	case h >= 18:
		return Evening, true
	default:
		return Night, true
	}
}
