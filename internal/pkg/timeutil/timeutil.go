package timeutil

import "time"

// ISOLayout matches the millisecond UTC form browsers produce for Date.toISOString.
const ISOLayout = "2006-01-02T15:04:05.000Z"

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

var System Clock = ClockFunc(time.Now)

func NowUnix() int64 {
	return time.Now().Unix()
}

func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

func ParseISO(value string) (time.Time, error) {
	if t, err := time.Parse(ISOLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}

// DateStamp renders the YYYY-MM-DD day used in export filenames.
func DateStamp(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
