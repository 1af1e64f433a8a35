package persona

import (
	"fmt"
	"time"
)

// TimeOfDay is the coarse bucket that modulates tone.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"
	Afternoon TimeOfDay = "afternoon"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

// BucketForHour maps an hour of day: [5,12) morning, [12,18) afternoon,
// [18,22) evening, anything else night.
func BucketForHour(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	case hour >= 18 && hour < 22:
		return Evening
	default:
		return Night
	}
}

var moodLabels = map[TimeOfDay]string{
	Morning:   "Controlada y ligeramente fría 🌅",
	Afternoon: "Equilibrada y seductora ☀️",
	Evening:   "Íntima y posesiva 🌅",
	Night:     "Intensa y vulnerable 🌙",
}

// MoodLabel is the time derived mood shown by /api/luna/mood.
func (t TimeOfDay) MoodLabel() string {
	return moodLabels[t]
}

// TimeContext is "now" in Luna's time zone.
type TimeContext struct {
	Now    time.Time
	Bucket TimeOfDay
}

func NewTimeContext(now time.Time, loc *time.Location) TimeContext {
	if loc != nil {
		now = now.In(loc)
	}
	return TimeContext{Now: now, Bucket: BucketForHour(now.Hour())}
}

func (tc TimeContext) Hour() int {
	return tc.Now.Hour()
}

// Clock produces TimeContexts in a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// NewClock loads the named zone. An unknown zone is an error.
func NewClock(zone string) (*Clock, error) {
	loc := time.Local
	if zone != "" {
		l, err := time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("error loading time zone %q: %w", zone, err)
		}
		loc = l
	}
	return &Clock{loc: loc, now: time.Now}, nil
}

// SystemClock uses the machine's local zone.
func SystemClock() *Clock {
	return &Clock{loc: time.Local, now: time.Now}
}

// FixedClock always reports now, used by tests.
func FixedClock(now time.Time) *Clock {
	return &Clock{loc: now.Location(), now: func() time.Time { return now }}
}

func (c *Clock) Now() TimeContext {
	return NewTimeContext(c.now(), c.loc)
}

var (
	weekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	months   = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}
)

// SpanishDate renders t as "lunes, 10 de marzo de 2025".
func SpanishDate(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d", weekdays[t.Weekday()], t.Day(), months[t.Month()-1], t.Year())
}

// ClockTime renders t as HH:MM.
func ClockTime(t time.Time) string {
	return t.Format("15:04")
}
