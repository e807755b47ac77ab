package service

import "time"

// Day boundaries are pinned to UTC everywhere. "Today" flips exactly at
// midnight UTC regardless of the server's local clock.

func startOfDayUTC(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func todayRangeUTC(now time.Time) (start, end time.Time) {
	start = startOfDayUTC(now)
	return start, start.AddDate(0, 0, 1)
}
