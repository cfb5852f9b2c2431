package battle

import (
	"io"
	"sync"
)

// SoundHooks plays audio cues. Implementations should return quickly; the
// engine calls them inline. Embed NopSounds to implement only some cues.
type SoundHooks interface {
	PlayBGM()
	StopBGM()
	PlayCorrect()
	PlayWrong()
	PlayAttack()
	PlayVictory()
	PlayDefeat()
}

// NopSounds plays nothing.
type NopSounds struct{}

func (NopSounds) PlayBGM()     {}
func (NopSounds) StopBGM()     {}
func (NopSounds) PlayCorrect() {}
func (NopSounds) PlayWrong()   {}
func (NopSounds) PlayAttack()  {}
func (NopSounds) PlayVictory() {}
func (NopSounds) PlayDefeat()  {}

// BellSounds rings the terminal bell for cues that need the player's
// attention. Background music is silent.
type BellSounds struct {
	NopSounds

	mu sync.Mutex
	w  io.Writer
}

// NewBellSounds writes bell characters to w.
func NewBellSounds(w io.Writer) *BellSounds {
	return &BellSounds{w: w}
}

func (b *BellSounds) ring(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for range n {
		_, _ = io.WriteString(b.w, "\a")
	}
}

func (b *BellSounds) PlayWrong()   { b.ring(1) }
func (b *BellSounds) PlayAttack()  { b.ring(1) }
func (b *BellSounds) PlayDefeat()  { b.ring(2) }
func (b *BellSounds) PlayVictory() { b.ring(1) }
