package market

// TradeTick is the volume traded at one price since the previous tick message.
type TradeTick struct {
	Price  int64
	Volume int64
}

// TapeEntry summarises market-wide executions for an instrument.
type TapeEntry struct {
	LastPrice   int64
	TotalVolume int64
	Messages    int64
}

// Tape records trade ticks per instrument. It is informational only.
type Tape struct {
	entries map[Instrument]TapeEntry
}

func NewTape() *Tape {
	return &Tape{entries: make(map[Instrument]TapeEntry)}
}

// Record folds one trade ticks message into the tape and returns the new entry.
func (t *Tape) Record(inst Instrument, ticks []TradeTick) TapeEntry {
	e := t.entries[inst]
	e.Messages++
	for _, tk := range ticks {
		if tk.Price <= 0 || tk.Volume <= 0 {
			continue
		}
		e.LastPrice = tk.Price
		e.TotalVolume += tk.Volume
	}
	t.entries[inst] = e
	return e
}

func (t *Tape) Last(inst Instrument) (TapeEntry, bool) {
	e, ok := t.entries[inst]
	return e, ok
}
