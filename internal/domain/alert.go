package domain

import "time"

const dayFormat = "2006-01-02"

// Day is a calendar date in UTC. Alert deduplication keys on it, so every
// construction path normalizes through UTC.
type Day struct {
	year  int
	month time.Month
	day   int
}

func NewDay(year int, month time.Month, day int) Day {
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Day{y, m, d}
}

func DayOf(t time.Time) Day {
	y, m, d := t.UTC().Date()
	return Day{y, m, d}
}

func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t), nil
}

func (d Day) String() string {
	return d.toTime().Format(dayFormat)
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.toTime().AddDate(0, 0, n))
}

func (d Day) Before(other Day) bool {
	return d.toTime().Before(other.toTime())
}

func (d Day) IsZero() bool {
	return d == Day{}
}

func (d Day) toTime() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

const AlertKindDaily = "daily"

type AlertRecord struct {
	ID        uint
	Symbol    string
	Day       Day
	Kind      string
	Note      string
	CreatedAt time.Time
}
