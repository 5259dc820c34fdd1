package strategy

import "errors"

// Config holds the quoting parameters. Prices are in exchange price units,
// volumes and positions in lots.
type Config struct {
	TickSize       int64
	SpreadWeight   float64 // price units per pressure step
	ReturnStrength float64 // price units per lot of position
	CalmPressure   int     // either pressure above this quotes BaseVolume

	BaseVolume  int64
	HighVolume  int64
	TierSize    int64
	DropPerTier int64

	ThreshPosition  int64
	ResistanceScale float64
	ResistanceCap   float64
}

// DefaultConfig returns the parameters the autotrader ships with.
func DefaultConfig() Config {
	return Config{
		TickSize:        100,
		SpreadWeight:    50,
		ReturnStrength:  10,
		CalmPressure:    4,
		BaseVolume:      10,
		HighVolume:      20,
		TierSize:        15,
		DropPerTier:     1,
		ThreshPosition:  70,
		ResistanceScale: 400,
		ResistanceCap:   200,
	}
}

// Validate checks the parameters a Generator relies on.
func (c Config) Validate() error {
	if c.TickSize <= 0 {
		return errors.New("tick size must be > 0")
	}
	if c.BaseVolume <= 0 || c.HighVolume < c.BaseVolume {
		return errors.New("need 0 < base volume <= high volume")
	}
	if c.TierSize <= 0 || c.DropPerTier < 0 {
		return errors.New("invalid volume tiers")
	}
	if c.ThreshPosition <= 0 || c.ResistanceScale < 0 || c.ResistanceCap < 0 {
		return errors.New("invalid resistance parameters")
	}
	if c.SpreadWeight < 0 || c.ReturnStrength < 0 {
		return errors.New("weights must be >= 0")
	}
	return nil
}
