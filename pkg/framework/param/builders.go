package param

// SwitchParameter creates an automatable on/off toggle
func SwitchParameter(id uint32, name string) *Builder {
	return New(id, name).
		Toggle().
		Formatter(OnOffFormatter, OnOffParser)
}

// ReadoutParameter creates an integer parameter shown as a three digit readout
func ReadoutParameter(id uint32, name string, min, max, defaultVal float64) *Builder {
	return New(id, name).
		Range(min, max).
		Default(defaultVal).
		Steps(int32(max - min)).
		Formatter(DigitsFormatter, DigitsParser)
}

// PercentParameter creates a 0-max percentage parameter
func PercentParameter(id uint32, name string, max, defaultVal float64) *Builder {
	return New(id, name).
		Range(0, max).
		Default(defaultVal).
		Unit("%").
		Formatter(PercentFormatter, PercentParser)
}
