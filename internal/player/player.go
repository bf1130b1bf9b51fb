// Package player plays downloaded audio tracks through the system speaker.
//
// Audio output needs cgo for the native sound libraries; without it the
// package compiles to a silent no-op engine and AudioAvailable is false.
package player

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrNoTrack     = errors.New("no track loaded")
	ErrUnsupported = errors.New("audio playback not available in this build")
)

// State is the player's coarse playback state.
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// Player wraps the audio engine with track bookkeeping. The playback ID
// increments on every Play so callbacks from an earlier track are ignored.
type Player struct {
	mu         sync.Mutex
	engine     *engine
	track      string
	state      State
	playbackID uint64
	onDone     func(track string)
}

// New creates a stopped player. onDone fires when a track plays to its
// end; it may be nil.
func New(onDone func(track string)) *Player {
	return &Player{engine: newEngine(), onDone: onDone}
}

// Play decodes the MP3 data and starts it from the beginning, replacing
// whatever was playing.
func (p *Player) Play(track string, data []byte) error {
	if !AudioAvailable {
		return ErrUnsupported
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty audio data", ErrNoTrack)
	}

	p.mu.Lock()
	p.playbackID++
	id := p.playbackID
	p.track = track
	p.mu.Unlock()

	err := p.engine.play(data, func() {
		p.mu.Lock()
		stale := p.playbackID != id
		if !stale {
			p.state = StateStopped
		}
		done := p.onDone
		p.mu.Unlock()

		if !stale && done != nil {
			done(track)
		}
	})
	if err != nil {
		p.mu.Lock()
		p.state = StateStopped
		p.mu.Unlock()
		return fmt.Errorf("failed to start playback: %w", err)
	}

	p.mu.Lock()
	p.state = StatePlaying
	p.mu.Unlock()
	return nil
}

// TogglePause flips between playing and paused. Stopped is left alone.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StatePlaying:
		p.engine.pause()
		p.state = StatePaused
	case StatePaused:
		p.engine.resume()
		p.state = StatePlaying
	}
}

// Stop halts playback and releases the decoded stream.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.playbackID++
	p.engine.stop()
	p.state = StateStopped
	p.track = ""
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Track returns the name of the loaded track, or empty when stopped.
func (p *Player) Track() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track
}

// Position returns how far into the track playback is.
func (p *Player) Position() time.Duration {
	return p.engine.position()
}

// Duration returns the track's total length, or zero when stopped.
func (p *Player) Duration() time.Duration {
	return p.engine.duration()
}

// FormatDuration renders a duration as m:ss for progress display.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
