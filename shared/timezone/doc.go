// Package timezone anchors all wall-clock handling to the shop's
// configured location.
//
// Appointment slots are wall-clock times in the shop timezone, so
// every parse and format of a booking instant must go through this
// package rather than time.Local:
//
//	now := timezone.Now()
//	t, err := timezone.Parse("2006-01-02", "2026-01-15")
//	day := timezone.Format(appointmentAt, "2006-01-02")
//	loc := timezone.GetLocation()
//
// The location comes from the APP_TIMEZONE environment variable and is
// resolved once at import time. Only IANA names ("UTC", "Asia/Jakarta",
// "Europe/London") are accepted.
package timezone
