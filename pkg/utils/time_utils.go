package utils

import "time"

// Belém local time (BRT, -03:00, no DST).
var belemLoc = func() *time.Location {
	if loc, err := time.LoadLocation("America/Belem"); err == nil {
		return loc
	}
	return time.FixedZone("BRT", -3*3600)
}()

// FromUnixSeconds converts epoch seconds to Belém time; zero for t <= 0.
func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).In(belemLoc)
}

func FormatRFC3339Local(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(belemLoc).Format(time.RFC3339)
}

// FormatUnixLocal renders stored epoch seconds for API responses.
func FormatUnixLocal(t int64) string {
	return FormatRFC3339Local(FromUnixSeconds(t))
}
