package process

import (
	"testing"
)

func TestContextPrepare(t *testing.T) {
	ctx := NewContext(1, 2, 256, 48000)

	if ctx.MaxBlockSize() != 256 || ctx.NumSamples() != 256 {
		t.Errorf("MaxBlockSize/NumSamples = %d/%d, want 256", ctx.MaxBlockSize(), ctx.NumSamples())
	}

	ctx.Prepare(100)
	if ctx.NumSamples() != 100 || len(ctx.Output[1]) != 100 {
		t.Errorf("Prepared block = %d samples, want 100", ctx.NumSamples())
	}
	if ctx.NumChannels() != 1 {
		t.Errorf("NumChannels = %d, want 1", ctx.NumChannels())
	}

	ctx.Prepare(1000)
	if ctx.NumSamples() != 256 {
		t.Errorf("Oversized block = %d samples, want clamp to 256", ctx.NumSamples())
	}

	allocs := testing.AllocsPerRun(100, func() { ctx.Prepare(64) })
	if allocs != 0 {
		t.Errorf("Prepare allocated %v times", allocs)
	}
}

func TestContextPassThrough(t *testing.T) {
	ctx := &Context{
		Input:  [][]float32{{1, 2, 3}, {4, 5, 6}},
		Output: [][]float32{make([]float32, 3), make([]float32, 3), {9, 9, 9}},
	}

	ctx.PassThrough()
	ctx.ClearExtraOutputs()

	for ch := 0; ch < 2; ch++ {
		for i := range ctx.Input[ch] {
			if ctx.Output[ch][i] != ctx.Input[ch][i] {
				t.Errorf("Output[%d][%d] = %f, want %f", ch, i, ctx.Output[ch][i], ctx.Input[ch][i])
			}
		}
	}
	for i, v := range ctx.Output[2] {
		if v != 0 {
			t.Errorf("Extra output[%d] = %f, want 0", i, v)
		}
	}

	if ctx.NumSamples() != 3 {
		t.Errorf("NumSamples = %d, want 3", ctx.NumSamples())
	}
	if ctx.NumChannels() != 2 {
		t.Errorf("NumChannels = %d, want 2", ctx.NumChannels())
	}
	if ctx.MaxBlockSize() != 0 {
		t.Errorf("MaxBlockSize of a literal context = %d, want 0", ctx.MaxBlockSize())
	}
}

func TestContextPassThroughInPlace(t *testing.T) {
	buf := [][]float32{{0.5, -0.5}}
	ctx := &Context{Input: buf, Output: buf}

	allocs := testing.AllocsPerRun(100, ctx.PassThrough)
	if allocs != 0 {
		t.Errorf("PassThrough allocated %v times", allocs)
	}
	if buf[0][0] != 0.5 || buf[0][1] != -0.5 {
		t.Error("In-place pass through changed samples")
	}
}

func TestContextClear(t *testing.T) {
	ctx := &Context{Output: [][]float32{{1, 2}, {3, 4}}}
	ctx.Clear()

	for ch := range ctx.Output {
		for _, v := range ctx.Output[ch] {
			if v != 0 {
				t.Fatal("Clear left non-zero samples")
			}
		}
	}
	if ctx.NumSamples() != 2 {
		t.Errorf("NumSamples from output = %d, want 2", ctx.NumSamples())
	}
}
