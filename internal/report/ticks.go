package report

import (
	"strconv"
	"time"

	"gonum.org/v1/plot"
)

// yearTicks labels January 1st of every Step-th year on an axis of Unix
// seconds, with unlabelled ticks on the years in between. Short series fall
// back to yearly and then monthly labels so the axis is never bare.
type yearTicks struct {
	Step int
}

func (yt yearTicks) Ticks(min, max float64) []plot.Tick {
	lo := time.Unix(int64(min), 0).UTC()
	hi := time.Unix(int64(max), 0).UTC()

	for _, step := range []int{yt.Step, 1} {
		if ticks := yearlyTicks(lo, hi, step); labelled(ticks) >= 2 {
			return ticks
		}
	}
	return monthlyTicks(lo, hi)
}

func yearlyTicks(lo, hi time.Time, step int) []plot.Tick {
	var ticks []plot.Tick
	year := lo.Year()
	if time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Before(lo) {
		year++
	}
	for ; ; year++ {
		t := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		if t.After(hi) {
			break
		}
		tick := plot.Tick{Value: float64(t.Unix())}
		if year%step == 0 {
			tick.Label = strconv.Itoa(year)
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

func monthlyTicks(lo, hi time.Time) []plot.Tick {
	var ticks []plot.Tick
	t := time.Date(lo.Year(), lo.Month(), 1, 0, 0, 0, 0, time.UTC)
	if t.Before(lo) {
		t = t.AddDate(0, 1, 0)
	}
	for ; !t.After(hi); t = t.AddDate(0, 1, 0) {
		ticks = append(ticks, plot.Tick{Value: float64(t.Unix()), Label: t.Format("Jan 2006")})
	}
	return ticks
}

func labelled(ticks []plot.Tick) int {
	n := 0
	for _, t := range ticks {
		if t.Label != "" {
			n++
		}
	}
	return n
}
