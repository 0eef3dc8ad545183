// README: Demand modifier — pure time/day/season multiplier.
package pricing

import "time"

var timeOfDayFactors = struct {
	morning, afternoon, evening, night float64
}{
	morning:   0.9, // 06:00-12:00
	afternoon: 1.0, // 12:00-18:00
	evening:   1.2, // 18:00-22:00
	night:     1.1, // 22:00-06:00
}

var dayOfWeekFactors = map[time.Weekday]float64{
	time.Monday:    0.8,
	time.Tuesday:   0.8,
	time.Wednesday: 0.9,
	time.Thursday:  1.0,
	time.Friday:    1.3,
	time.Saturday:  1.4,
	time.Sunday:    1.1,
}

var seasonFactors = struct {
	spring, summer, fall, winter float64
}{
	spring: 1.0,
	summer: 1.2,
	fall:   1.1,
	winter: 0.9,
}

// DemandMultiplier returns the product of the time-of-day, day-of-week, and
// season factors for the given timestamp. Pure and fully deterministic.
func DemandMultiplier(now time.Time) float64 {
	return timeFactor(now.Hour()) * dayOfWeekFactors[now.Weekday()] * seasonFactor(now.Month())
}

func timeFactor(hour int) float64 {
	switch {
	case hour >= 6 && hour < 12:
		return timeOfDayFactors.morning
	case hour >= 12 && hour < 18:
		return timeOfDayFactors.afternoon
	case hour >= 18 && hour < 22:
		return timeOfDayFactors.evening
	default:
		return timeOfDayFactors.night
	}
}

func seasonFactor(month time.Month) float64 {
	switch {
	case month >= time.March && month <= time.May:
		return seasonFactors.spring
	case month >= time.June && month <= time.August:
		return seasonFactors.summer
	case month >= time.September && month <= time.November:
		return seasonFactors.fall
	default:
		return seasonFactors.winter
	}
}
