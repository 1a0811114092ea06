package source

import (
	"math/bits"
	"math/rand/v2"

	"github.com/gopxl/beep/v2"
)

const pinkRows = 8

// pinkNoise is a Voss-McCartney pink noise generator for one channel.
type pinkNoise struct {
	rng     *rand.Rand
	rows    [pinkRows]float64
	sum     float64
	counter uint32
}

func newPinkNoise(seed uint64) *pinkNoise {
	p := &pinkNoise{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
	for i := range p.rows {
		p.rows[i] = p.white()
		p.sum += p.rows[i]
	}
	return p
}

func (p *pinkNoise) white() float64 {
	return p.rng.Float64()*2 - 1
}

// next updates the row picked by the trailing zero count of the counter, so
// row k changes every 2^(k+1) samples and the last row takes every longer run.
func (p *pinkNoise) next() float64 {
	p.counter++
	if p.counter != 0 {
		row := min(bits.TrailingZeros32(p.counter), pinkRows-1)
		p.sum -= p.rows[row]
		p.rows[row] = p.white()
		p.sum += p.rows[row]
	}

	out := (p.sum + p.white()) / 4
	return max(-1, min(1, out))
}

// noise streams independent pink noise per channel. Seeds are fixed so runs
// are reproducible.
func noise() beep.Streamer {
	left, right := newPinkNoise(1), newPinkNoise(2)
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i][0] = left.next()
			samples[i][1] = right.next()
		}
		return len(samples), true
	})
}
