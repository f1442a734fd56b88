package cache

import (
	"time"
)

// MarketTimezone は米国市場の所在地タイムゾーンです。
const MarketTimezone = "America/New_York"

// TimeUntilNext は now から loc における次の hour:minute までの期間を返します。
// 同時刻ちょうどの場合は翌日を返すため、結果は常に正です。
func TimeUntilNext(now time.Time, loc *time.Location, hour, minute int) time.Duration {
	now = now.In(loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, loc)
	if !now.Before(next) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, loc)
	}
	return next.Sub(now)
}

// TimeUntilNextMarketClose は次の16:00（ニューヨーク時間）までの期間を返します。
// 日足はこの時刻に確定するため、キャッシュTTLとして使用します。
func TimeUntilNextMarketClose() time.Duration {
	loc, err := time.LoadLocation(MarketTimezone)
	if err != nil {
		loc = time.UTC
	}
	return TimeUntilNext(time.Now(), loc, 16, 0)
}
