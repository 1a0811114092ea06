package analysis

import (
	"iter"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// LEDsPerBank is the number of cells on each side of the correlation meter.
const LEDsPerBank = 6

// DimIntensity is the brightness of an unlit cell.
const DimIntensity = 0.2

// LEDColor is the color class of a meter cell.
type LEDColor int

const (
	LEDRed LEDColor = iota
	LEDOrange
	LEDYellow
	LEDPositive
)

var ledPalette = [...]colorful.Color{
	LEDRed:      colorful.Color{R: 0.92, G: 0.16, B: 0.14},
	LEDOrange:   colorful.Color{R: 1.00, G: 0.55, B: 0.10},
	LEDYellow:   colorful.Color{R: 1.00, G: 0.86, B: 0.18},
	LEDPositive: colorful.Color{R: 0.20, G: 0.86, B: 0.36},
}

// RGB returns the full-brightness color.
func (c LEDColor) RGB() colorful.Color {
	if c < 0 || int(c) >= len(ledPalette) {
		return colorful.Color{}
	}
	return ledPalette[c]
}

// String returns the color name.
func (c LEDColor) String() string {
	switch c {
	case LEDRed:
		return "red"
	case LEDOrange:
		return "orange"
	case LEDYellow:
		return "yellow"
	case LEDPositive:
		return "positive"
	default:
		return "unknown"
	}
}

// Bank identifies one side of the meter.
type Bank int

const (
	BankNegative Bank = iota
	BankPositive
)

// String returns the bank name.
func (b Bank) String() string {
	if b == BankNegative {
		return "negative"
	}
	return "positive"
}

// LEDCell is one indicator cell. Index counts from the center outward.
type LEDCell struct {
	Bank      Bank
	Index     int
	Color     LEDColor
	Lit       bool
	Intensity float64
}

// RGB returns the cell color scaled by its intensity.
func (c LEDCell) RGB() colorful.Color {
	return colorful.Color{}.BlendRgb(c.Color.RGB(), c.Intensity).Clamped()
}

// LEDBank is the full meter state for one frame.
type LEDBank struct {
	Displayed float64
	LitCount  int
	Negative  [LEDsPerBank]LEDCell
	Positive  [LEDsPerBank]LEDCell
}

// negativeBand returns the color of a negative-bank cell by index.
func negativeBand(index int) LEDColor {
	switch {
	case index < 3:
		return LEDRed
	case index < 5:
		return LEDOrange
	default:
		return LEDYellow
	}
}

// LitCount returns round(|displayed| * 6) clamped to [0, 6].
func LitCount(displayed float64) int {
	if math.IsNaN(displayed) {
		return 0
	}
	n := int(math.Round(math.Abs(displayed) * LEDsPerBank))
	return min(max(n, 0), LEDsPerBank)
}

// MapLEDs computes the meter cells for a smoothed correlation value.
// It holds no state and is recomputed every frame.
func MapLEDs(displayed float64) LEDBank {
	bank := LEDBank{Displayed: displayed}

	lit := LitCount(displayed)
	negativeLit, positiveLit := 0, 0
	switch {
	case displayed < 0:
		negativeLit = lit
	case displayed > 0:
		positiveLit = lit
	}
	bank.LitCount = negativeLit + positiveLit

	for i := 0; i < LEDsPerBank; i++ {
		bank.Negative[i] = newCell(BankNegative, i, negativeBand(i), i < negativeLit)
		bank.Positive[i] = newCell(BankPositive, i, LEDPositive, i < positiveLit)
	}
	return bank
}

func newCell(b Bank, index int, color LEDColor, lit bool) LEDCell {
	intensity := DimIntensity
	if lit {
		intensity = 1
	}
	return LEDCell{Bank: b, Index: index, Color: color, Lit: lit, Intensity: intensity}
}

// Cells yields every cell, negative bank first, each from the center outward.
func (b *LEDBank) Cells() iter.Seq[LEDCell] {
	return func(yield func(LEDCell) bool) {
		for _, c := range b.Negative {
			if !yield(c) {
				return
			}
		}
		for _, c := range b.Positive {
			if !yield(c) {
				return
			}
		}
	}
}

// ActiveBank returns the active bank and whether any cell is lit.
func (b *LEDBank) ActiveBank() (Bank, bool) {
	if b.LitCount == 0 {
		return BankPositive, false
	}
	if b.Displayed < 0 {
		return BankNegative, true
	}
	return BankPositive, true
}
