package order

import (
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestWindowLimiter(t *testing.T) {
	clk := &fakeClock{now: time.Unix(100, 0)}
	l := NewWindowLimiter(3, time.Second, clk)
	for i := 0; i < 3; i++ {
		if !l.Allow() {
			t.Fatalf("message %d should be allowed", i)
		}
	}
	if l.Allow() {
		t.Fatalf("fourth message should be refused")
	}
	if l.Remaining() != 0 || l.Used() != 3 {
		t.Fatalf("unexpected usage %d/%d", l.Used(), l.Remaining())
	}
	clk.Advance(999 * time.Millisecond)
	if l.Allow() {
		t.Fatalf("window has not rolled yet")
	}
	clk.Advance(time.Millisecond)
	if !l.Allow() {
		t.Fatalf("new window should allow")
	}
	l.SetLimit(1, 0)
	if l.Allow() {
		t.Fatalf("lowered limit should apply to messages already sent")
	}
}

func TestWindowLimiterTrailingWindow(t *testing.T) {
	clk := &fakeClock{now: time.Unix(100, 0)}
	l := NewWindowLimiter(20, time.Second, clk)

	clk.Advance(900 * time.Millisecond)
	for i := 0; i < 20; i++ {
		if !l.Allow() {
			t.Fatalf("burst message %d should be allowed", i)
		}
	}
	// 跨过整秒边界，之前的发送仍在窗口内
	clk.Advance(100 * time.Millisecond)
	sent := 0
	for i := 0; i < 20; i++ {
		if l.Allow() {
			sent++
		}
	}
	if sent != 0 {
		t.Fatalf("sent %d more inside the same trailing window", sent)
	}

	clk.Advance(899 * time.Millisecond)
	if l.Allow() {
		t.Fatalf("oldest message is still inside the window")
	}
	clk.Advance(time.Millisecond)
	if l.Used() != 0 || l.Remaining() != 20 {
		t.Fatalf("window should be empty, used %d", l.Used())
	}
}

func TestWindowLimiterStaggeredSends(t *testing.T) {
	clk := &fakeClock{now: time.Unix(100, 0)}
	l := NewWindowLimiter(2, time.Second, clk)

	if !l.Allow() {
		t.Fatalf("first message should be allowed")
	}
	clk.Advance(600 * time.Millisecond)
	if !l.Allow() {
		t.Fatalf("second message should be allowed")
	}
	clk.Advance(400 * time.Millisecond)
	// 第一条已满一秒，释放一个名额；第二条仍占用
	if l.Used() != 1 {
		t.Fatalf("used %d, want 1", l.Used())
	}
	if !l.Allow() || l.Allow() {
		t.Fatalf("exactly one slot should be free")
	}
}
