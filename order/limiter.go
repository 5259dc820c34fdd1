package order

import "time"

// WindowLimiter 控制任意滑动窗口内发往交易所的消息数量。
// 与令牌桶不同，它从不阻塞：额度用尽时 Allow 返回 false，由调用方推迟到下一周期。
type WindowLimiter struct {
	limit  int
	window time.Duration
	// sent 按时间顺序保存窗口内的发送时刻，最多 limit 个
	sent  []time.Time
	clock Clock
}

// NewWindowLimiter allows limit messages in any trailing window.
func NewWindowLimiter(limit int, window time.Duration, clock Clock) *WindowLimiter {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}
	if clock == nil {
		clock = SystemClock
	}
	return &WindowLimiter{
		limit:  limit,
		window: window,
		sent:   make([]time.Time, 0, min(limit, 64)),
		clock:  clock,
	}
}

// prune 丢弃已滑出窗口的发送记录。
func (l *WindowLimiter) prune() {
	now := l.clock.Now()
	n := 0
	for n < len(l.sent) && now.Sub(l.sent[n]) >= l.window {
		n++
	}
	if n > 0 {
		l.sent = append(l.sent[:0], l.sent[n:]...)
	}
}

// Allow records one message if the trailing window still has room.
func (l *WindowLimiter) Allow() bool {
	l.prune()
	if len(l.sent) >= l.limit {
		return false
	}
	l.sent = append(l.sent, l.clock.Now())
	return true
}

// Remaining returns how many messages may be sent right now.
func (l *WindowLimiter) Remaining() int {
	l.prune()
	return max(l.limit-len(l.sent), 0)
}

// Used returns the number of messages sent within the trailing window.
func (l *WindowLimiter) Used() int {
	l.prune()
	return len(l.sent)
}

// SetLimit changes the budget; messages already sent stay counted.
func (l *WindowLimiter) SetLimit(limit int, window time.Duration) {
	if limit > 0 {
		l.limit = limit
	}
	if window > 0 {
		l.window = window
	}
}
