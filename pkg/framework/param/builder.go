package param

// Builder provides a fluent API for creating parameters
type Builder struct {
	param *Parameter
	plain float64 // default in the plain range, normalized by Build
}

// New creates a builder for a continuous 0-1 parameter.
func New(id uint32, name string) *Builder {
	return &Builder{
		param: &Parameter{
			ID:   id,
			Name: name,
			Min:  0,
			Max:  1,
		},
	}
}

// Range sets the min and max values
func (b *Builder) Range(min, max float64) *Builder {
	b.param.Min = min
	b.param.Max = max
	return b
}

// Default sets the default value in the plain range. It may be called
// before or after Range.
func (b *Builder) Default(value float64) *Builder {
	b.plain = value
	return b
}

// Unit sets the unit string
func (b *Builder) Unit(unit string) *Builder {
	b.param.Unit = unit
	return b
}

// Steps sets the number of discrete steps
func (b *Builder) Steps(count int32) *Builder {
	b.param.StepCount = count
	return b
}

// Toggle makes an off/on parameter that defaults to off.
func (b *Builder) Toggle() *Builder {
	b.param.Min = 0
	b.param.Max = 1
	b.param.StepCount = 1
	b.plain = 0
	return b
}

// Formatter sets custom value formatting and parsing
func (b *Builder) Formatter(format func(float64) string, parse func(string) (float64, error)) *Builder {
	b.param.formatFunc = format
	b.param.parseFunc = parse
	return b
}

// Build returns the parameter set to its default value.
func (b *Builder) Build() *Parameter {
	b.param.DefaultValue = b.param.Normalize(b.plain)
	b.param.Reset()
	return b.param
}
