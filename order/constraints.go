package order

import "fmt"

// Constraints 描述交易所对价格步长与数量的限制。
type Constraints struct {
	TickSize  int64
	MinVolume int64
	MaxVolume int64
}

// Validate 检查订单价格/数量是否符合精度与数量上下限。
func (c Constraints) Validate(price, volume int64) error {
	if price <= 0 {
		return fmt.Errorf("price %d must be > 0", price)
	}
	if c.TickSize > 0 && price%c.TickSize != 0 {
		return fmt.Errorf("price %d not aligned to tickSize %d", price, c.TickSize)
	}
	if volume <= 0 {
		return fmt.Errorf("volume %d must be > 0", volume)
	}
	if c.MinVolume > 0 && volume < c.MinVolume {
		return fmt.Errorf("volume %d < minVolume %d", volume, c.MinVolume)
	}
	if c.MaxVolume > 0 && volume > c.MaxVolume {
		return fmt.Errorf("volume %d > maxVolume %d", volume, c.MaxVolume)
	}
	return nil
}
