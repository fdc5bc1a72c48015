package tradingday

import (
	"testing"
	"time"
)

func TestBounds_MidnightToMidnight(t *testing.T) {
	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, IST)
	start, end := Bounds(noon)

	if !start.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, IST)) {
		t.Errorf("start = %v, want IST midnight", start)
	}
	if !end.Equal(time.Date(2026, 3, 11, 0, 0, 0, 0, IST)) {
		t.Errorf("end = %v, want next IST midnight", end)
	}
}

func TestContains_DayBoundary(t *testing.T) {
	dayD := time.Date(2026, 3, 10, 10, 0, 0, 0, IST)
	lastInstant := time.Date(2026, 3, 10, 23, 59, 59, 999_000_000, IST)
	nextMidnight := time.Date(2026, 3, 11, 0, 0, 0, 0, IST)

	if !Contains(dayD, lastInstant) {
		t.Error("23:59:59.999 of day D should be inside day D")
	}
	if Contains(dayD, nextMidnight) {
		t.Error("midnight of D+1 should be outside day D")
	}
	if Contains(nextMidnight, lastInstant) {
		t.Error("23:59:59.999 of day D should be outside day D+1")
	}
}

func TestContains_UTCTimestamps(t *testing.T) {
	// 19:00 UTC on March 10 is 00:30 IST on March 11.
	asOf := time.Date(2026, 3, 11, 9, 0, 0, 0, IST)
	lateUTC := time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)

	if !Contains(asOf, lateUTC) {
		t.Error("timestamp must be bucketed by its IST calendar day, not UTC")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 3, 10, 0, 0, 1, 0, IST)
	b := time.Date(2026, 3, 10, 23, 0, 0, 0, IST)
	c := time.Date(2026, 3, 11, 0, 0, 1, 0, IST)

	if !SameDay(a, b) {
		t.Error("same IST day expected")
	}
	if SameDay(b, c) {
		t.Error("different IST days expected")
	}
}

func TestIsMarketOpen(t *testing.T) {
	open := time.Date(2026, 3, 10, 10, 30, 0, 0, IST) // Tuesday
	preOpen := time.Date(2026, 3, 10, 9, 0, 0, 0, IST)
	saturday := time.Date(2026, 3, 14, 10, 30, 0, 0, IST)

	if !IsMarketOpen(open) {
		t.Error("10:30 IST on a weekday should be open")
	}
	if IsMarketOpen(preOpen) {
		t.Error("9:00 IST is before open")
	}
	if IsMarketOpen(saturday) {
		t.Error("Saturday should be closed")
	}
}
