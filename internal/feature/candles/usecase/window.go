package usecase

import "time"

// WindowLayout is the provider's date-time format for fetch windows.
const WindowLayout = "2006-01-02 15:04"

// FetchWindow returns the historical window ending yesterday.
// from は (今日 - durationDays) の 00:00、to は昨日の 23:59 です。
func FetchWindow(now time.Time, durationDays int) (from, to time.Time) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	from = today.AddDate(0, 0, -durationDays)
	to = today.AddDate(0, 0, -1).Add(23*time.Hour + 59*time.Minute)
	return from, to
}
