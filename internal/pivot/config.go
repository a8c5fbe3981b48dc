package pivot

// Config is shared by both views. Each view builds its own Accumulator from it.
type Config struct {
	WindowSize int
	Period     Period
	// MaxLen bounds retained history per output series. 0 means unbounded.
	MaxLen int
}

func (c Config) newAccumulator() (*Accumulator, error) {
	return NewAccumulator(c.WindowSize, c.Period)
}
