//go:build !((linux && cgo) || windows || darwin)

package player

import "time"

// AudioAvailable indicates whether audio playback is supported in this build.
// Audio requires cgo for the native sound libraries on Linux.
const AudioAvailable = false

// engine is a no-op audio engine for builds without sound support.
type engine struct{}

func newEngine() *engine { return &engine{} }

func (e *engine) play(data []byte, onDone func()) error { return ErrUnsupported }

func (e *engine) pause() {}

func (e *engine) resume() {}

func (e *engine) stop() {}

func (e *engine) position() time.Duration { return 0 }

func (e *engine) duration() time.Duration { return 0 }
