package cache

import (
	"time"
)

// TimeUntilNext は loc における次の hour:minute までの期間を返します。
// スクリップマスターは毎朝更新されるため、キャッシュのTTLに使用します。
func TimeUntilNext(hour, minute int, loc *time.Location) time.Duration {
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)

	// 今日の時刻が既に過ぎている場合は翌日を使用
	if !now.Before(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}

// IST はインド標準時を返します。タイムゾーンDBが無い環境では固定オフセットを使います。
func IST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return loc
}
