package gateway

import (
	"encoding/json"
	"errors"
	"fmt"

	"etf-autotrader/market"
	"etf-autotrader/order"
)

// MessageType tags every frame exchanged with the exchange.
type MessageType string

const (
	// outbound
	MsgLogin  MessageType = "login"
	MsgInsert MessageType = "insert_order"
	MsgCancel MessageType = "cancel_order"

	// inbound
	MsgOrderBook      MessageType = "order_book"
	MsgOrderStatus    MessageType = "order_status"
	MsgPositionChange MessageType = "position_change"
	MsgTradeTicks     MessageType = "trade_ticks"
	MsgError          MessageType = "error"
)

var ErrUnknownMessage = errors.New("unknown message type")

// Envelope is the outer frame: a type tag plus the payload.
type Envelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

type Login struct {
	TeamName string `json:"team_name"`
	Secret   string `json:"secret"`
}

type InsertOrder struct {
	ClientOrderID uint64 `json:"client_order_id"`
	Side          string `json:"side"`
	Price         int64  `json:"price"`
	Volume        int64  `json:"volume"`
	Lifespan      string `json:"lifespan"`
}

type CancelOrder struct {
	ClientOrderID uint64 `json:"client_order_id"`
}

type OrderBook struct {
	Instrument string  `json:"instrument"`
	Sequence   int64   `json:"sequence"`
	AskPrices  []int64 `json:"ask_prices"`
	AskVolumes []int64 `json:"ask_volumes"`
	BidPrices  []int64 `json:"bid_prices"`
	BidVolumes []int64 `json:"bid_volumes"`
}

type OrderStatus struct {
	ClientOrderID   uint64 `json:"client_order_id"`
	FillVolume      int64  `json:"fill_volume"`
	RemainingVolume int64  `json:"remaining_volume"`
	Fees            int64  `json:"fees"`
}

type PositionChange struct {
	Future int64 `json:"future_position"`
	ETF    int64 `json:"etf_position"`
}

type TradeTicks struct {
	Instrument string     `json:"instrument"`
	Ticks      [][2]int64 `json:"ticks"` // [price, volume]
}

type ErrorMessage struct {
	ClientOrderID uint64 `json:"client_order_id"`
	Text          string `json:"error"`
}

// Encode wraps a payload in an envelope.
func Encode(t MessageType, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", t, err)
	}
	return json.Marshal(Envelope{Type: t, Data: data})
}

// NewInsert converts an order record into its wire command.
func NewInsert(o order.Order) InsertOrder {
	return InsertOrder{
		ClientOrderID: o.ID,
		Side:          o.Side.String(),
		Price:         o.Price,
		Volume:        o.Volume,
		Lifespan:      o.Lifespan.String(),
	}
}

// Snapshot converts a wire book into a market snapshot.
func (b OrderBook) Snapshot() (market.Snapshot, error) {
	inst, err := market.ParseInstrument(b.Instrument)
	if err != nil {
		return market.Snapshot{}, err
	}
	return market.NewSnapshot(inst, b.Sequence, b.AskPrices, b.AskVolumes, b.BidPrices, b.BidVolumes), nil
}

// Decode 解析一条入站消息为 Event。
func Decode(raw []byte) (Event, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Event{}, fmt.Errorf("decode envelope: %w", err)
	}
	ev := Event{Type: env.Type}
	var err error
	switch env.Type {
	case MsgOrderBook:
		var b OrderBook
		if err = json.Unmarshal(env.Data, &b); err == nil {
			ev.Book, err = b.Snapshot()
		}
	case MsgOrderStatus:
		var s OrderStatus
		err = json.Unmarshal(env.Data, &s)
		ev.Status = s
	case MsgPositionChange:
		var p PositionChange
		err = json.Unmarshal(env.Data, &p)
		ev.Position = p
	case MsgTradeTicks:
		var tt TradeTicks
		if err = json.Unmarshal(env.Data, &tt); err == nil {
			ev.Instrument, err = market.ParseInstrument(tt.Instrument)
			ev.Trades = make([]market.TradeTick, 0, len(tt.Ticks))
			for _, t := range tt.Ticks {
				ev.Trades = append(ev.Trades, market.TradeTick{Price: t[0], Volume: t[1]})
			}
		}
	case MsgError:
		var e ErrorMessage
		err = json.Unmarshal(env.Data, &e)
		ev.Error = e
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}
	if err != nil {
		return Event{}, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return ev, nil
}
