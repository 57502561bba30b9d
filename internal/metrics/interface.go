package metrics

import "time"

// Metrics defines the interface for collecting application metrics.
type Metrics interface {
	IncRankingComputed(metric string)
	ObserveRankingDuration(metric string, d time.Duration)
	IncCacheHit()
	IncCacheMiss()
	IncGamesRecorded()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
