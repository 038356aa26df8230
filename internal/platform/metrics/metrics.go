package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
	pushesDelivered uint64
	pushesDropped   uint64
	jobRuns         uint64
	jobFailures     uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordPush counts one real-time delivery attempt.
func (c *Collector) RecordPush(delivered bool) {
	if delivered {
		atomic.AddUint64(&c.pushesDelivered, 1)
		return
	}
	atomic.AddUint64(&c.pushesDropped, 1)
}

func (c *Collector) RecordJob(failed bool) {
	atomic.AddUint64(&c.jobRuns, 1)
	if failed {
		atomic.AddUint64(&c.jobFailures, 1)
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	errs := atomic.LoadUint64(&c.errorRequests)
	limited := atomic.LoadUint64(&c.rateLimited)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          errs,
		"rateLimitedTotal":     limited,
		"avgDurationMs":        avg,
		"totalDurationMs":      totalMs,
		"pushesDeliveredTotal": atomic.LoadUint64(&c.pushesDelivered),
		"pushesDroppedTotal":   atomic.LoadUint64(&c.pushesDropped),
		"jobRunsTotal":         atomic.LoadUint64(&c.jobRuns),
		"jobFailuresTotal":     atomic.LoadUint64(&c.jobFailures),
	}
}
