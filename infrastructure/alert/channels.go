package alert

import (
	"fmt"
	"sync"

	"etf-autotrader/logs"
)

// LogChannel 把告警写入结构化日志。
type LogChannel struct {
	logger logs.Logger
	name   string
}

func NewLogChannel(name string, l logs.Logger) *LogChannel {
	if l == nil {
		l = logs.DefaultLogger
	}
	return &LogChannel{logger: l, name: name}
}

func (c *LogChannel) Send(a Alert) error {
	kv := make([]any, 0, 2*len(a.Fields)+2)
	kv = append(kv, "alert_level", string(a.Level))
	for k, v := range a.Fields {
		kv = append(kv, k, v)
	}
	switch a.Level {
	case LevelError, LevelCritical:
		c.logger.Error(a.Message, kv...)
	case LevelWarning:
		c.logger.Warn(a.Message, kv...)
	default:
		c.logger.Info(a.Message, kv...)
	}
	return nil
}

func (c *LogChannel) Name() string { return c.name }

// MockChannel 模拟告警通道（用于测试）
type MockChannel struct {
	name      string
	mu        sync.Mutex
	alerts    []Alert
	shouldErr bool
}

func NewMockChannel(name string) *MockChannel {
	return &MockChannel{name: name}
}

func (c *MockChannel) Send(a Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.shouldErr {
		return fmt.Errorf("mock error")
	}
	c.alerts = append(c.alerts, a)
	return nil
}

func (c *MockChannel) Name() string { return c.name }

// Alerts 获取所有接收到的告警
func (c *MockChannel) Alerts() []Alert {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Alert(nil), c.alerts...)
}

func (c *MockChannel) SetShouldError(shouldErr bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shouldErr = shouldErr
}
