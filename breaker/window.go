package breaker

import "time"

// rollingWindow 按时间分桶的滚动统计窗口
//
// 整个窗口被划分为固定数量的桶，随时间推进依次淘汰最旧的桶，
// 统计值始终只反映最近 WindowSize 时长内的调用结果。
// 所有方法都要求调用方持有熔断器的互斥锁。
type rollingWindow struct {
	buckets     []Stats
	cur         int
	bucketStart time.Time
	bucketSpan  time.Duration
	now         func() time.Time
}

func newRollingWindow(size time.Duration, buckets int, now func() time.Time) *rollingWindow {
	w := &rollingWindow{
		buckets:    make([]Stats, buckets),
		bucketSpan: size / time.Duration(buckets),
		now:        now,
	}
	w.reset()
	return w
}

// reset 清空所有桶，开启一个全新的统计窗口
func (w *rollingWindow) reset() {
	for i := range w.buckets {
		w.buckets[i] = Stats{}
	}
	w.cur = 0
	w.bucketStart = w.now()
}

// advance 根据当前时间推进桶指针，淘汰过期的桶
func (w *rollingWindow) advance() {
	now := w.now()
	elapsed := now.Sub(w.bucketStart)
	if elapsed < w.bucketSpan {
		return
	}

	// 空闲时间超过整个窗口时直接清空，避免逐桶追赶
	if elapsed >= w.bucketSpan*time.Duration(len(w.buckets)) {
		w.reset()
		return
	}

	for elapsed >= w.bucketSpan {
		w.cur = (w.cur + 1) % len(w.buckets)
		w.buckets[w.cur] = Stats{}
		w.bucketStart = w.bucketStart.Add(w.bucketSpan)
		elapsed -= w.bucketSpan
	}
}

func (w *rollingWindow) recordFire() {
	w.advance()
	w.buckets[w.cur].Fires++
}

func (w *rollingWindow) recordSuccess() {
	w.advance()
	w.buckets[w.cur].Successes++
}

func (w *rollingWindow) recordFailure() {
	w.advance()
	w.buckets[w.cur].Failures++
}

func (w *rollingWindow) recordTimeout() {
	w.advance()
	w.buckets[w.cur].Timeouts++
}

func (w *rollingWindow) recordReject() {
	w.advance()
	w.buckets[w.cur].Rejects++
}

// snapshot 汇总所有桶的统计值
func (w *rollingWindow) snapshot() Stats {
	w.advance()
	var total Stats
	for _, b := range w.buckets {
		total.Fires += b.Fires
		total.Successes += b.Successes
		total.Failures += b.Failures
		total.Timeouts += b.Timeouts
		total.Rejects += b.Rejects
	}
	return total
}
