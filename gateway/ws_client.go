package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"etf-autotrader/logs"
	"etf-autotrader/order"
)

var ErrNotConnected = errors.New("exchange connection not open")

// WSClient 与交易所的 WebSocket 连接：读循环把通知解码后推入 channel，
// 下单/撤单在调用方 goroutine 中写出（写操作加锁）。实现 order.Gateway。
type WSClient struct {
	URL      string
	TeamName string
	Secret   string
	Dialer   *websocket.Dialer
	Logger   logs.Logger

	// OnConnect/OnDisconnect are metrics hooks.
	OnConnect    func()
	OnDisconnect func()

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWSClient(url, team, secret string, dialTimeout time.Duration) *WSClient {
	d := *websocket.DefaultDialer
	if dialTimeout > 0 {
		d.HandshakeTimeout = dialTimeout
	}
	return &WSClient{
		URL:      url,
		TeamName: team,
		Secret:   secret,
		Dialer:   &d,
		Logger:   logs.Nop(),
	}
}

// Dial 建立连接并发送登录消息。
func (c *WSClient) Dial(ctx context.Context) error {
	conn, _, err := c.Dialer.DialContext(ctx, c.URL, http.Header{})
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.URL, err)
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	if err := c.send(MsgLogin, Login{TeamName: c.TeamName, Secret: c.Secret}); err != nil {
		_ = c.Close()
		return fmt.Errorf("login: %w", err)
	}
	if c.OnConnect != nil {
		c.OnConnect()
	}
	c.Logger.Info("exchange connected", "url", c.URL, "team", c.TeamName)
	return nil
}

// Run 读取消息直到连接关闭或 ctx 取消。无法解析的消息记录后丢弃。
func (c *WSClient) Run(ctx context.Context, out chan<- Event) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	defer stop()
	defer func() {
		if c.OnDisconnect != nil {
			c.OnDisconnect()
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		ev, err := Decode(msg)
		if err != nil {
			c.Logger.Warn("drop undecodable message", "error", err)
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Insert 发送下单指令。
func (c *WSClient) Insert(o order.Order) error {
	return c.send(MsgInsert, NewInsert(o))
}

// Cancel 发送撤单指令。
func (c *WSClient) Cancel(id uint64) error {
	return c.send(MsgCancel, CancelOrder{ClientOrderID: id})
}

func (c *WSClient) send(t MessageType, payload any) error {
	raw, err := Encode(t, payload)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.WriteMessage(websocket.TextMessage, raw)
}

// Close 关闭连接，可重复调用。
func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	return err
}
