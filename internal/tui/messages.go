package tui

import "time"

// tickMsg drives one render tick.
type tickMsg time.Time

// Stats is the audio side information shown in the status line.
type Stats interface {
	Load() float64
	Blocks() uint64
}
