package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var ErrTimeUnits = errors.New("unsupported time units")

var epochLayouts = []string{
	"2006-1-2 15:04:05.999999999",
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2T15:04:05Z07:00",
	"2006-1-2T15:04:05",
	"2006-1-2",
}

var unitSeconds = map[string]float64{
	"second":  1,
	"seconds": 1,
	"sec":     1,
	"secs":    1,
	"s":       1,
	"minute":  60,
	"minutes": 60,
	"min":     60,
	"mins":    60,
	"hour":    3600,
	"hours":   3600,
	"hr":      3600,
	"hrs":     3600,
	"h":       3600,
	"day":     86400,
	"days":    86400,
	"d":       86400,
}

var noLeapMonthDays = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DecodeTimes converts CF-convention numeric time values ("days since
// 1983-01-01") to UTC timestamps.
func DecodeTimes(values []float64, units, calendar string) ([]time.Time, error) {
	unit, epoch, err := parseUnits(units)
	if err != nil {
		return nil, err
	}

	var convert func(v float64) time.Time
	switch strings.ToLower(calendar) {
	case "", "standard", "gregorian", "proleptic_gregorian":
		convert = func(v float64) time.Time { return addStandard(epoch, v, unit) }
	case "noleap", "365_day":
		convert = func(v float64) time.Time { return addNoLeap(epoch, v, unit) }
	default:
		return nil, fmt.Errorf("%w: calendar %q", ErrTimeUnits, calendar)
	}

	out := make([]time.Time, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite time value at index %d", ErrTimeUnits, i)
		}
		out[i] = convert(v)
	}
	return out, nil
}

// parseUnits splits "<unit> since <epoch>". Month units are returned as
// "months" with a zero scale.
func parseUnits(units string) (string, time.Time, error) {
	fields := strings.SplitN(strings.TrimSpace(units), " since ", 2)
	if len(fields) != 2 {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrTimeUnits, units)
	}

	unit := strings.ToLower(strings.TrimSpace(fields[0]))
	if _, ok := unitSeconds[unit]; !ok && unit != "months" && unit != "month" {
		return "", time.Time{}, fmt.Errorf("%w: %q", ErrTimeUnits, units)
	}

	ref := strings.TrimSpace(fields[1])
	ref = strings.TrimSuffix(ref, " UTC")
	ref = strings.TrimSuffix(ref, "Z")
	for _, layout := range epochLayouts {
		if t, err := time.Parse(layout, ref); err == nil {
			return unit, t.UTC(), nil
		}
	}
	return "", time.Time{}, fmt.Errorf("%w: epoch %q", ErrTimeUnits, ref)
}

func addStandard(epoch time.Time, v float64, unit string) time.Time {
	if unit == "months" || unit == "month" {
		whole := math.Floor(v)
		t := epoch.AddDate(0, int(whole), 0)
		// Fractional months are spread over the following month.
		next := t.AddDate(0, 1, 0)
		return t.Add(time.Duration((v - whole) * float64(next.Sub(t))))
	}

	seconds := v * unitSeconds[unit]
	whole := math.Floor(seconds)
	nanos := math.Round((seconds - whole) * 1e9)
	return time.Unix(epoch.Unix()+int64(whole), int64(epoch.Nanosecond())+int64(nanos)).UTC()
}

// addNoLeap adds an offset in a 365-day calendar and maps the result back
// to a Gregorian timestamp with the same month and day.
func addNoLeap(epoch time.Time, v float64, unit string) time.Time {
	if unit == "months" || unit == "month" {
		return addStandard(epoch, v, unit)
	}

	seconds := v*unitSeconds[unit] + float64(epoch.Hour()*3600+epoch.Minute()*60+epoch.Second())
	days := int(math.Floor(seconds / 86400))
	rem := seconds - float64(days)*86400

	doy := noLeapDayOfYear(epoch) + days
	year := epoch.Year() + floorDiv(doy, 365)
	doy = doy - floorDiv(doy, 365)*365

	month := 0
	for month < 11 && doy >= noLeapMonthDays[month] {
		doy -= noLeapMonthDays[month]
		month++
	}

	midnight := time.Date(year, time.Month(month+1), doy+1, 0, 0, 0, 0, time.UTC)
	return midnight.Add(time.Duration(rem * float64(time.Second)))
}

func noLeapDayOfYear(t time.Time) int {
	doy := t.Day() - 1
	for m := 0; m < int(t.Month())-1; m++ {
		doy += noLeapMonthDays[m]
	}
	return doy
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
