package order

import "sort"

// Book 记录引擎自己的订单：按 id 建索引，并按方向保留下单先后顺序（FIFO）。
type Book struct {
	orders map[uint64]*Order
	queues [2][]uint64
}

func NewBook() *Book {
	return &Book{orders: make(map[uint64]*Order)}
}

func (b *Book) Add(o *Order) {
	b.orders[o.ID] = o
	b.queues[o.Side] = append(b.queues[o.Side], o.ID)
}

func (b *Book) Get(id uint64) (*Order, bool) {
	o, ok := b.orders[id]
	return o, ok
}

// Remove drops the order from tracking and returns it.
func (b *Book) Remove(id uint64) (*Order, bool) {
	o, ok := b.orders[id]
	if !ok {
		return nil, false
	}
	delete(b.orders, id)
	q := b.queues[o.Side]
	for i, qid := range q {
		if qid == id {
			b.queues[o.Side] = append(q[:i:i], q[i+1:]...)
			break
		}
	}
	return o, true
}

// Resting returns the side's orders that count against the cap, oldest first.
func (b *Book) Resting(side Side) []*Order {
	res := make([]*Order, 0, len(b.queues[side]))
	for _, id := range b.queues[side] {
		if o := b.orders[id]; o.Resting() {
			res = append(res, o)
		}
	}
	return res
}

// Count is the number of resting (not pending-cancel) orders on a side.
func (b *Book) Count(side Side) int {
	n := 0
	for _, id := range b.queues[side] {
		if b.orders[id].Resting() {
			n++
		}
	}
	return n
}

// Open is the number of orders the exchange may still consider open.
func (b *Book) Open() int { return len(b.orders) }

// Oldest returns the oldest resting order on a side.
func (b *Book) Oldest(side Side) (*Order, bool) {
	for _, id := range b.queues[side] {
		if o := b.orders[id]; o.Resting() {
			return o, true
		}
	}
	return nil, false
}

// Volume is the remaining volume of every tracked order on a side.
func (b *Book) Volume(side Side) int64 {
	var v int64
	for _, id := range b.queues[side] {
		v += b.orders[id].Remaining
	}
	return v
}

// Crossing returns resting orders on the opposite side that an order on
// side at price would trade against, oldest first.
func (b *Book) Crossing(side Side, price int64) []*Order {
	var res []*Order
	for _, o := range b.Resting(side.Opposite()) {
		if side == SideBuy && o.Price <= price {
			res = append(res, o)
		}
		if side == SideSell && o.Price >= price {
			res = append(res, o)
		}
	}
	return res
}

// List 返回全部订单（拷贝），按 id 升序。
func (b *Book) List() []Order {
	res := make([]Order, 0, len(b.orders))
	for side := range b.queues {
		for _, id := range b.queues[side] {
			res = append(res, *b.orders[id])
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}
