// Package sysboundary isolates the handful of places this runtime core
// touches the operating system directly: time, directory listing, and
// path normalisation. Everything else in the module is pure computation
// over in-memory values; this package is where that computation meets a
// clock and a filesystem.
package sysboundary

import (
	"time"

	"github.com/golang-sql/civil"
	"github.com/ncruces/go-strftime"
)

// Timespec is a normalised (seconds, nanoseconds) pair: 0 <= Nsec <
// 1e9, with any excess or deficit carried into Sec.
type Timespec struct {
	Sec  int64
	Nsec int64
}

const nsPerSec = int64(time.Second)

// Normalize carries Nsec into Sec until 0 <= Nsec < 1e9, handling a
// negative Nsec (as produced by, e.g., subtracting two timespecs) the
// same way as a too-large one.
func (t Timespec) Normalize() Timespec {
	sec, nsec := t.Sec, t.Nsec
	if nsec >= nsPerSec {
		sec += nsec / nsPerSec
		nsec %= nsPerSec
	} else if nsec < 0 {
		borrow := (-nsec+nsPerSec-1)/nsPerSec
		sec -= borrow
		nsec += borrow * nsPerSec
	}
	return Timespec{Sec: sec, Nsec: nsec}
}

// Add returns the normalised sum of t and u.
func (t Timespec) Add(u Timespec) Timespec {
	return Timespec{Sec: t.Sec + u.Sec, Nsec: t.Nsec + u.Nsec}.Normalize()
}

// Sub returns the normalised difference t - u.
func (t Timespec) Sub(u Timespec) Timespec {
	return Timespec{Sec: t.Sec - u.Sec, Nsec: t.Nsec - u.Nsec}.Normalize()
}

// ToTimespec converts a time.Time to a Timespec in its wall-clock
// representation (seconds and nanoseconds since the Unix epoch).
func ToTimespec(t time.Time) Timespec {
	return Timespec{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

// ToTime converts a normalised Timespec back to a time.Time in UTC.
func (t Timespec) ToTime() time.Time {
	return time.Unix(t.Sec, t.Nsec).UTC()
}

// Clock separates monotonic elapsed-time measurement from wall-clock
// readings the way current-jiffy/current-second do in a Scheme runtime:
// Now captures both in one reading (Go's time.Time already carries a
// monotonic component alongside the wall-clock one), Elapsed subtracts
// two readings using that monotonic component so NTP adjustments to the
// wall clock never produce a negative duration.
type Clock struct{}

// Now returns the current instant, wall and monotonic together.
func (Clock) Now() time.Time { return time.Now() }

// Elapsed returns the monotonic duration between two Now readings.
func (Clock) Elapsed(start, end time.Time) time.Duration { return end.Sub(start) }

// WallDate returns the civil (calendar) date of t in t's own location,
// the normalised year/month/day triple most callers of a "current date"
// primitive actually want rather than a full timestamp.
func WallDate(t time.Time) civil.Date {
	return civil.DateOf(t)
}

// WallDateTime returns the civil date and time-of-day of t together.
func WallDateTime(t time.Time) civil.DateTime {
	return civil.DateTimeOf(t)
}

// FormatTimestamp renders t using a strftime-style layout, for the
// diagnostic and condition-message timestamps this core prints (not for
// anything Scheme-visible, which is out of this core's scope).
func FormatTimestamp(layout string, t time.Time) string {
	return strftime.Format(layout, t)
}
