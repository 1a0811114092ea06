// Package process provides the per-block audio processing context.
package process

// Context carries one block of audio through ProcessAudio. Input and Output
// hold one slice per channel, all NumSamples long. Parameters are not
// reached through the context: processors read cached parameters directly
// so the audio thread never takes the registry lock.
type Context struct {
	Input      [][]float32
	Output     [][]float32
	SampleRate float64

	// Backing storage of a host-owned context
	inBufs, outBufs [][]float32
}

// NewContext allocates a context with its own channel buffers. Hosts call
// Prepare before each block and fill Input in place.
func NewContext(inputs, outputs, maxBlockSize int, sampleRate float64) *Context {
	c := &Context{
		SampleRate: sampleRate,
		inBufs:     makeBuffers(inputs, maxBlockSize),
		outBufs:    makeBuffers(outputs, maxBlockSize),
		Input:      make([][]float32, inputs),
		Output:     make([][]float32, outputs),
	}
	c.Prepare(maxBlockSize)
	return c
}

func makeBuffers(channels, size int) [][]float32 {
	bufs := make([][]float32, channels)
	for ch := range bufs {
		bufs[ch] = make([]float32, size)
	}
	return bufs
}

// Prepare points Input and Output at the first n samples of the backing
// buffers. n is clamped to the allocated block size. No allocation.
func (c *Context) Prepare(n int) {
	for ch, buf := range c.inBufs {
		c.Input[ch] = buf[:min(n, len(buf))]
	}
	for ch, buf := range c.outBufs {
		c.Output[ch] = buf[:min(n, len(buf))]
	}
}

// MaxBlockSize returns the capacity of the backing buffers, or 0 for a
// context built around caller-owned slices.
func (c *Context) MaxBlockSize() int {
	switch {
	case len(c.inBufs) > 0:
		return len(c.inBufs[0])
	case len(c.outBufs) > 0:
		return len(c.outBufs[0])
	}
	return 0
}

// NumSamples returns the number of samples to process
func (c *Context) NumSamples() int {
	if len(c.Input) > 0 && len(c.Input[0]) > 0 {
		return len(c.Input[0])
	}
	if len(c.Output) > 0 && len(c.Output[0]) > 0 {
		return len(c.Output[0])
	}
	return 0
}

// NumInputChannels returns the number of input channels
func (c *Context) NumInputChannels() int {
	return len(c.Input)
}

// NumOutputChannels returns the number of output channels
func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// NumChannels returns the number of channels present on both sides
func (c *Context) NumChannels() int {
	return min(c.NumInputChannels(), c.NumOutputChannels())
}

// PassThrough copies input to output. When input and output share backing
// storage (in-place processing) the copy is skipped.
func (c *Context) PassThrough() {
	for ch := 0; ch < c.NumChannels(); ch++ {
		in, out := c.Input[ch], c.Output[ch]
		if len(in) > 0 && len(out) > 0 && &in[0] == &out[0] {
			continue
		}
		copy(out, in)
	}
}

// ClearExtraOutputs zeros output channels that have no matching input
func (c *Context) ClearExtraOutputs() {
	for ch := c.NumInputChannels(); ch < c.NumOutputChannels(); ch++ {
		clear(c.Output[ch])
	}
}

// Clear zeros the output buffers
func (c *Context) Clear() {
	for ch := range c.Output {
		clear(c.Output[ch])
	}
}
