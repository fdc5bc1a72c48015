// Package tradingday provides calendar-day semantics for intraday
// bucketing. The account-local day is the Indian market day (IST),
// midnight to midnight.
package tradingday

import "time"

// IST is the Indian Standard Time location (UTC+5:30).
var IST = time.FixedZone("IST", 5*3600+30*60)

// Market hours in IST (NSE equities).
const (
	OpenHour    = 9
	OpenMinute  = 15
	CloseHour   = 15
	CloseMinute = 30
)

// Bounds returns the [start, end) of the calendar day containing t,
// evaluated in IST. An order stamped 23:59:59.999 of day D falls inside
// D's bounds and outside D+1's.
func Bounds(t time.Time) (start, end time.Time) {
	ist := t.In(IST)
	start = time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
	end = start.AddDate(0, 0, 1)
	return start, end
}

// SameDay reports whether a and b fall on the same IST calendar day.
func SameDay(a, b time.Time) bool {
	ai, bi := a.In(IST), b.In(IST)
	return ai.Year() == bi.Year() && ai.Month() == bi.Month() && ai.Day() == bi.Day()
}

// Contains reports whether t falls within the IST calendar day of asOf.
func Contains(asOf, t time.Time) bool {
	start, end := Bounds(asOf)
	return !t.Before(start) && t.Before(end)
}

// IsMarketOpen returns true if t falls within NSE trading hours
// (9:15 AM – 3:30 PM IST, Mon–Fri). Used by the mock quote feed to idle
// outside market hours.
func IsMarketOpen(t time.Time) bool {
	ist := t.In(IST)
	wd := ist.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	hm := ist.Hour()*60 + ist.Minute()
	return hm >= OpenHour*60+OpenMinute && hm < CloseHour*60+CloseMinute
}
