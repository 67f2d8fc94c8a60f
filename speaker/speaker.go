// Package speaker plays PCM through the default sound device.
package speaker

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Only one ebiten audio context may exist per process.
var (
	contextOnce sync.Once
	context     *audio.Context
)

type Player struct {
	ctx *audio.Context

	mu      sync.Mutex
	playing []*audio.Player
}

// New returns a player on the process-wide audio context, creating the
// context on first call. Later calls reuse the first sample rate.
func New(sampleRate int) *Player {
	contextOnce.Do(func() {
		context = audio.NewContext(sampleRate)
	})
	return &Player{ctx: context}
}

func (p *Player) SampleRate() int {
	return p.ctx.SampleRate()
}

// Play starts pcm (16-bit little-endian stereo) and returns immediately.
func (p *Player) Play(pcm []byte) error {
	pl := p.ctx.NewPlayerFromBytes(pcm)
	pl.Play()

	p.mu.Lock()
	defer p.mu.Unlock()
	// keep a reference until the sound has finished
	live := p.playing[:0]
	for _, old := range p.playing {
		if old.IsPlaying() {
			live = append(live, old)
		} else {
			old.Close()
		}
	}
	p.playing = append(live, pl)
	return nil
}

func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pl := range p.playing {
		pl.Close()
	}
	p.playing = nil
	return nil
}
