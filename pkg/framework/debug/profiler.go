package debug

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Profiler records timing statistics for named sections. It takes a lock
// per measurement and must not be used from the audio thread.
type Profiler struct {
	mu           sync.RWMutex
	measurements map[string]*Measurement
	enabled      atomic.Bool
	maxSamples   int
}

// Measurement holds timing statistics for a profiled section.
type Measurement struct {
	Name        string
	Count       uint64
	Total       time.Duration
	Min         time.Duration
	Max         time.Duration
	Last        time.Duration
	samples     []time.Duration
	sampleIndex int
}

// NewProfiler creates a new profiler keeping the last maxSamples timings
// of each section for percentiles.
func NewProfiler(maxSamples int) *Profiler {
	if maxSamples < 1 {
		maxSamples = 1
	}
	p := &Profiler{
		measurements: make(map[string]*Measurement),
		maxSamples:   maxSamples,
	}
	p.enabled.Store(true)
	return p
}

// SetEnabled enables or disables profiling.
func (p *Profiler) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// IsEnabled returns whether profiling is enabled.
func (p *Profiler) IsEnabled() bool {
	return p.enabled.Load()
}

// Start begins timing a named section. Call the returned func to stop.
func (p *Profiler) Start(name string) func() {
	if !p.enabled.Load() {
		return func() {}
	}

	start := time.Now()
	return func() {
		p.Record(name, time.Since(start))
	}
}

// Time measures the execution time of a function.
func (p *Profiler) Time(name string, fn func()) {
	stop := p.Start(name)
	defer stop()
	fn()
}

// Record stores an externally measured timing.
func (p *Profiler) Record(name string, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, exists := p.measurements[name]
	if !exists {
		m = &Measurement{
			Name:    name,
			Min:     elapsed,
			Max:     elapsed,
			samples: make([]time.Duration, 0, p.maxSamples),
		}
		p.measurements[name] = m
	}

	m.Count++
	m.Total += elapsed
	m.Last = elapsed
	m.Min = min(m.Min, elapsed)
	m.Max = max(m.Max, elapsed)

	if len(m.samples) < p.maxSamples {
		m.samples = append(m.samples, elapsed)
	} else {
		m.samples[m.sampleIndex] = elapsed
	}
	m.sampleIndex = (m.sampleIndex + 1) % p.maxSamples
}

// GetMeasurement returns a copy of the measurement for a named section.
func (p *Profiler) GetMeasurement(name string) (Measurement, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, exists := p.measurements[name]
	if !exists {
		return Measurement{}, false
	}
	return m.clone(), true
}

// Names returns the recorded section names in sorted order.
func (p *Profiler) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.measurements))
	for name := range p.measurements {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Reset clears all measurements.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.measurements = make(map[string]*Measurement)
}

// Report generates a performance report.
func (p *Profiler) Report() string {
	names := p.Names()
	if len(names) == 0 {
		return "No measurements recorded"
	}

	var b strings.Builder
	b.WriteString("Performance Report:\n")
	b.WriteString("==================\n\n")

	for _, name := range names {
		m, _ := p.GetMeasurement(name)
		fmt.Fprintf(&b, "%s:\n", name)
		fmt.Fprintf(&b, "  Count:   %d\n", m.Count)
		fmt.Fprintf(&b, "  Average: %v\n", m.Average())
		fmt.Fprintf(&b, "  Min:     %v\n", m.Min)
		fmt.Fprintf(&b, "  Max:     %v\n", m.Max)
		fmt.Fprintf(&b, "  p95:     %v\n", m.Percentile(95))
		fmt.Fprintf(&b, "  Last:    %v\n\n", m.Last)
	}

	return b.String()
}

func (m *Measurement) clone() Measurement {
	c := *m
	c.samples = slices.Clone(m.samples)
	return c
}

// Average returns the average time for this measurement.
func (m Measurement) Average() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.Total / time.Duration(m.Count)
}

// Percentile returns the p-th percentile (0-100) of the retained samples.
func (m Measurement) Percentile(p float64) time.Duration {
	if len(m.samples) == 0 {
		return 0
	}

	sorted := slices.Clone(m.samples)
	slices.Sort(sorted)
	p = max(0, min(100, p))
	index := int(float64(len(sorted)-1) * p / 100.0)
	return sorted[index]
}

// BudgetProfiler measures one recurring section against the period it has
// to finish in, such as a render tick or an audio block.
type BudgetProfiler struct {
	*Profiler
	section  string
	budget   time.Duration
	loadBits atomic.Uint64
}

// NewBudgetProfiler creates a profiler for section with the given period.
func NewBudgetProfiler(section string, budget time.Duration) *BudgetProfiler {
	return &BudgetProfiler{
		Profiler: NewProfiler(256),
		section:  section,
		budget:   budget,
	}
}

// BlockBudget returns the real-time duration of a block of audio.
func BlockBudget(sampleRate float64, blockSize int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(blockSize) / sampleRate * float64(time.Second))
}

// Measure starts timing the section. The returned func stops the timer
// and refreshes the load figure.
func (b *BudgetProfiler) Measure() func() {
	stop := b.Start(b.section)
	return func() {
		stop()
		b.updateLoad()
	}
}

func (b *BudgetProfiler) updateLoad() {
	m, exists := b.GetMeasurement(b.section)
	if !exists || m.Count == 0 || b.budget <= 0 {
		return
	}
	load := float64(m.Average()) / float64(b.budget) * 100.0
	b.loadBits.Store(uint64(load * 100))
}

// Load returns the average share of the budget in use, in percent.
func (b *BudgetProfiler) Load() float64 {
	return float64(b.loadBits.Load()) / 100.0
}

// Budget returns the period the section is measured against.
func (b *BudgetProfiler) Budget() time.Duration {
	return b.budget
}

// Section returns the measured section name.
func (b *BudgetProfiler) Section() string {
	return b.section
}
