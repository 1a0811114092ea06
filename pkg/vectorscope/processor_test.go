package vectorscope

import (
	"errors"
	"math"
	"testing"

	"github.com/fdimager/vectorscope/pkg/framework/debug"
	"github.com/fdimager/vectorscope/pkg/framework/plugin"
	"github.com/fdimager/vectorscope/pkg/framework/process"
)

// recordingSink keeps copies of every block it receives.
type recordingSink struct {
	left, right [][]float32
	restarts    int
}

func (s *recordingSink) Write(left, right []float32) {
	s.left = append(s.left, append([]float32(nil), left...))
	if right == nil {
		s.right = append(s.right, nil)
		return
	}
	s.right = append(s.right, append([]float32(nil), right...))
}

func (s *recordingSink) Restart() {
	s.restarts++
}

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	p, err := NewProcessor()
	if err != nil {
		t.Fatalf("NewProcessor failed: %v", err)
	}
	if err := p.Initialize(48000, 1024); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return p
}

func stereoContext(p *Processor, left, right []float32) *process.Context {
	ctx := &process.Context{}
	ctx.SampleRate = 48000
	ctx.Input = [][]float32{left, right}
	ctx.Output = [][]float32{make([]float32, len(left)), make([]float32, len(right))}
	return ctx
}

func sine(n int, freq, sampleRate, amp float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/sampleRate))
	}
	return out
}

func TestProcessorDescribesItself(t *testing.T) {
	var d plugin.Describer = newTestProcessor(t)

	info := d.Info()
	if info.ID != Info.ID || info.Category != "Fx|Analyzer" {
		t.Errorf("Info = %+v", info)
	}
	if err := info.ValidateUID(); err != nil {
		t.Errorf("ValidateUID() = %v", err)
	}
}

func TestProcessorParameters(t *testing.T) {
	p := newTestProcessor(t)
	params := p.GetParameters()

	if params.Count() != 5 {
		t.Errorf("Parameter count = %d, want 5", params.Count())
	}

	controls := p.Controls()
	if controls.Rotation != 100 || controls.Width != 100 {
		t.Errorf("Default controls = %+v, want rotation 100, width 100", controls)
	}
	if p.Solo().Active() {
		t.Error("No solo should be active by default")
	}
	if got := params.Get(ParamWidth).FormatValue(params.Get(ParamWidth).GetValue()); got != "1 0 0" {
		t.Errorf("Width readout = %q, want %q", got, "1 0 0")
	}
	if p.GetLatencySamples() != 0 || p.GetTailSamples() != 0 {
		t.Error("Analyzer should report no latency or tail")
	}
}

func TestProcessorInitializeValidation(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		blockSize  int32
		want       error
	}{
		{"valid", 44100, 512, nil},
		{"zero rate", 0, 512, ErrInvalidSampleRate},
		{"negative rate", -48000, 512, ErrInvalidSampleRate},
		{"NaN rate", math.NaN(), 512, ErrInvalidSampleRate},
		{"zero block", 48000, 0, ErrInvalidBlockSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProcessor()
			if err != nil {
				t.Fatal(err)
			}
			err = p.Initialize(tt.sampleRate, tt.blockSize)
			if tt.want == nil && err != nil {
				t.Errorf("Initialize error = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Initialize error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestProcessorPassThrough(t *testing.T) {
	p := newTestProcessor(t)
	sink := &recordingSink{}
	p.AttachSink(sink)

	left := sine(256, 440, 48000, 0.5)
	right := sine(256, 660, 48000, 0.25)
	ctx := stereoContext(p, left, right)
	p.ProcessAudio(ctx)

	for i := range left {
		if ctx.Output[0][i] != left[i] || ctx.Output[1][i] != right[i] {
			t.Fatalf("Sample %d changed without solo", i)
		}
	}
	if len(sink.left) != 1 {
		t.Fatalf("Sink received %d blocks, want 1", len(sink.left))
	}
	if sink.right[0][10] != right[10] {
		t.Error("Sink should receive the right channel")
	}
}

func TestProcessorSolo(t *testing.T) {
	tests := []struct {
		name      string
		solo      []uint32
		wantLeft  float32
		wantRight float32
	}{
		{"left", []uint32{ParamSoloLeft}, 0.8, 0},
		{"right", []uint32{ParamSoloRight}, 0, 0.2},
		{"center", []uint32{ParamSoloCenter}, 0.5, 0.5},
		{"center suppressed by left", []uint32{ParamSoloCenter, ParamSoloLeft}, 0.8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProcessor(t)
			sink := &recordingSink{}
			p.AttachSink(sink)
			for _, id := range tt.solo {
				if err := p.GetParameters().Set(id, 1); err != nil {
					t.Fatal(err)
				}
			}

			ctx := stereoContext(p, []float32{0.8, 0.8}, []float32{0.2, 0.2})
			p.ProcessAudio(ctx)

			if ctx.Output[0][1] != tt.wantLeft || ctx.Output[1][1] != tt.wantRight {
				t.Errorf("Output = (%f, %f), want (%f, %f)",
					ctx.Output[0][1], ctx.Output[1][1], tt.wantLeft, tt.wantRight)
			}
			if sink.left[0][1] != tt.wantLeft || sink.right[0][1] != tt.wantRight {
				t.Error("Sink should see the soloed signal")
			}
		})
	}
}

func TestProcessorMonoInput(t *testing.T) {
	p := newTestProcessor(t)
	sink := &recordingSink{}
	p.AttachSink(sink)
	p.GetParameters().Set(ParamSoloRight, 1)

	mono := []float32{0.1, 0.2, 0.3}
	ctx := &process.Context{}
	ctx.Input = [][]float32{mono}
	ctx.Output = [][]float32{make([]float32, 3), {9, 9, 9}}
	p.ProcessAudio(ctx)

	for i := range mono {
		if ctx.Output[0][i] != mono[i] {
			t.Errorf("Mono output[%d] = %f, want %f", i, ctx.Output[0][i], mono[i])
		}
		if ctx.Output[1][i] != 0 {
			t.Errorf("Extra output[%d] = %f, want 0", i, ctx.Output[1][i])
		}
	}
	if len(sink.right) != 1 || sink.right[0] != nil {
		t.Error("Mono block should reach the sink with a nil right channel")
	}
}

func TestProcessorZeroChannels(t *testing.T) {
	p := newTestProcessor(t)
	sink := &recordingSink{}
	p.AttachSink(sink)

	ctx := &process.Context{}
	p.ProcessAudio(ctx)

	ctx.Output = [][]float32{{1, 1}}
	p.ProcessAudio(ctx)

	if len(sink.left) != 0 {
		t.Error("Sink should not be called for an empty block")
	}
	if ctx.Output[0][0] != 0 {
		t.Error("Outputs without input should be cleared")
	}
}

func TestProcessorSilencesInvalidBlock(t *testing.T) {
	p := newTestProcessor(t)
	sink := &recordingSink{}
	p.AttachSink(sink)

	left := []float32{0.5, float32(math.NaN()), 0.5}
	right := []float32{0.5, 0.5, 0.5}
	ctx := stereoContext(p, left, right)
	p.ProcessAudio(ctx)

	for ch := range ctx.Output {
		for i, v := range ctx.Output[ch] {
			if v != 0 {
				t.Errorf("Output[%d][%d] = %f, want silence", ch, i, v)
			}
		}
	}
	if sink.left[0][0] != 0 {
		t.Error("Sink should receive the silenced block")
	}
	if !p.Guard().Raised().Has(debug.DefectNaN) {
		t.Error("Guard should flag NaN")
	}
	if !math.IsNaN(float64(left[1])) {
		t.Error("Input buffer should not be modified")
	}
}

func TestProcessorActivationRestartsSink(t *testing.T) {
	p := newTestProcessor(t)
	sink := &recordingSink{}
	p.AttachSink(sink)

	p.Guard().Check([][]float32{{1.5}})
	if err := p.SetActive(true); err != nil {
		t.Fatal(err)
	}
	p.SetActive(false)

	if sink.restarts != 1 {
		t.Errorf("Restarts = %d, want 1", sink.restarts)
	}
	if p.Guard().Raised() != 0 {
		t.Error("Activation should clear guard flags")
	}
}

func TestProcessorSinkRegistration(t *testing.T) {
	p := newTestProcessor(t)
	first := &recordingSink{}
	second := &recordingSink{}

	p.AttachSink(first)
	p.AttachSink(second)
	p.release(first)

	ctx := stereoContext(p, []float32{0.1}, []float32{0.1})
	p.ProcessAudio(ctx)

	if len(first.left) != 0 || len(second.left) != 1 {
		t.Error("Releasing a replaced sink must not detach the current one")
	}

	p.DetachSink()
	p.ProcessAudio(ctx)
	if len(second.left) != 1 {
		t.Error("Detached sink should not receive blocks")
	}
}

func TestProcessorNoAllocations(t *testing.T) {
	p := newTestProcessor(t)
	e := NewEditor(p, EditorConfig{})
	defer e.Close()
	p.GetParameters().Set(ParamSoloCenter, 1)

	ctx := stereoContext(p, sine(512, 440, 48000, 0.5), sine(512, 550, 48000, 0.5))

	allocs := testing.AllocsPerRun(100, func() {
		p.ProcessAudio(ctx)
	})
	if allocs != 0 {
		t.Errorf("ProcessAudio allocated %v times per block", allocs)
	}
}

func BenchmarkProcessAudio(b *testing.B) {
	p, _ := NewProcessor()
	p.Initialize(48000, 512)
	e := NewEditor(p, EditorConfig{})
	defer e.Close()
	ctx := stereoContext(p, sine(512, 440, 48000, 0.5), sine(512, 550, 48000, 0.5))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.ProcessAudio(ctx)
	}
}
